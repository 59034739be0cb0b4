package referral

import "sync"

// GateState is the registration gate's UI state.
type GateState string

const (
	// GateLoading is the initial state while the lookup is in flight.
	GateLoading GateState = "loading"
	// GateLookupFailed shows the generic failure panel (non-fallback errors).
	GateLookupFailed GateState = "lookup_failed"
	// GateAwaitingRegistration shows the first-time registration form.
	GateAwaitingRegistration GateState = "awaiting_registration"
	// GateRegistered shows the main experience. Terminal for the session.
	GateRegistered GateState = "registered"
)

// Gate drives the registration gate state machine:
//
//	Loading → (LookupFailed | LookupResolved)
//	LookupResolved → (AwaitingRegistration | Registered)
//	AwaitingRegistration → Registered
//
// Registered is terminal: once entered, no event (including a later failed
// lookup) transitions back. The completion flag alone gates visibility.
type Gate struct {
	mu    sync.Mutex
	state GateState
}

// NewGate creates a gate in the Loading state.
func NewGate() *Gate {
	return &Gate{state: GateLoading}
}

// State returns the current gate state.
func (g *Gate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}

// ResolveLookup applies a lookup outcome. A failed lookup (non-empty error or
// missing result) moves to LookupFailed; otherwise registered codes go
// straight to the main experience and unregistered codes to the form.
func (g *Gate) ResolveLookup(state LookupState) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == GateRegistered {
		return
	}

	switch {
	case state.Error != "" || state.Result == nil:
		g.state = GateLookupFailed
	case state.Result.Registered:
		g.state = GateRegistered
	default:
		g.state = GateAwaitingRegistration
	}
}

// CompleteRegistration records a successful register() call.
func (g *Gate) CompleteRegistration() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state = GateRegistered
}
