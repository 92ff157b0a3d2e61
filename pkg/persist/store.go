package persist

import "time"

// Entry is one persisted slot. Values are opaque encoded strings produced by
// the token codec; this package never inspects them.
type Entry struct {
	Name     string
	Value    string
	Path     string
	Domain   string
	Expires  time.Time // zero means a session-scoped entry
	HttpOnly bool
	Secure   bool
}

// Store is the persisted per-client slot capability. One invocation owns one
// store; the synchronizer never touches ambient request state directly, so an
// HTTP adapter (CookieStore) maps this capability onto actual cookies and a
// Memory store serves tests and non-HTTP embeddings.
type Store interface {
	// Get returns the raw slot value or ErrSlotNotFound.
	Get(name string) (string, error)

	// Set writes a slot. Writing replaces any previous value under the name.
	Set(entry Entry) error

	// Delete clears a slot. Deleting a missing slot is not an error.
	Delete(name string) error

	// Names enumerates the slot names visible to this invocation, in the
	// order the underlying store yields them. The SSO signal scan relies on
	// this order for its first-match semantics.
	Names() []string
}
