// Package artifact contains concrete implementations of core.ArtifactStore.
//
// The interface lives in the core package so the client depends on the
// contract only. InMemoryStore keeps artifacts for the lifetime of the
// process; the client drops a session's artifacts when the session is closed
// or swept.
package artifact
