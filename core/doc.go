// Package core provides the foundational domain types and interfaces used by
// the A2A client. It defines:
//
//   - Sessions (one logical conversation bound to an agent URL)
//   - ConversationTurns (one input/output exchange, correlated to one remote call)
//   - Pluggable stores for the session registry and returned artifacts
//
// Concrete storage lives in the session and artifact packages; the client
// facade only depends on the interfaces declared here.
package core
