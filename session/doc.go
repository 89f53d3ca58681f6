// Package session houses concrete implementations of core.SessionStore.
// The interface itself (and the Session struct) live in the core package so
// the client facade never depends on a concrete registry.
//
// InMemoryStore is the only backend: sessions are not persisted across
// process restarts.
package session
