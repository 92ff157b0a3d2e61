package token

// ConnectState is the provider's tri-state judgment of the current identity.
type ConnectState string

const (
	StateConnected    ConnectState = "connected"
	StateNotConnected ConnectState = "notConnected"
	StateUnknown      ConnectState = "unknown"
)

// ParseConnectState maps a wire value onto a ConnectState. Anything the
// provider sends that is not a known state collapses to unknown.
func ParseConnectState(s string) ConnectState {
	switch ConnectState(s) {
	case StateConnected:
		return StateConnected
	case StateNotConnected:
		return StateNotConnected
	}
	return StateUnknown
}

// LoginStatus describes the provider's view of the current identity. It is
// produced by every gateway call that returns a login status and reset by any
// operation that clears local session data.
type LoginStatus struct {
	CkUsid string       // user identifier
	OID    string       // opaque object id
	State  ConnectState // connected is the only state that authorizes user-data operations
}

// Known reports whether the status carries any provider confirmation.
func (s LoginStatus) Known() bool {
	return s.State != "" && s.State != StateUnknown
}

// Connected reports whether the provider confirmed the identity as fully
// connected.
func (s LoginStatus) Connected() bool {
	return s.State == StateConnected
}
