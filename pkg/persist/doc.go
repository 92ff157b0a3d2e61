// Package persist models the per-client persistence slots that let tokens
// survive across invocations: every incoming request is handled by a fresh
// process (or at least a fresh invocation), so anything not written to a slot
// is gone.
//
// The Store interface is a capability handed to the session synchronizer so
// it never reads ambient request state. CookieStore adapts the capability
// onto HTTP cookies, which is where the slots live in practice; Memory backs
// tests and non-HTTP embeddings.
package persist
