// Package testutil contains helper builders and utilities used across tests
// to reduce boilerplate when constructing sessions, A2A results and fake agent
// endpoints. They are not intended for production usage.
package testutil
