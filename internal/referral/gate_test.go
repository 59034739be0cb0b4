package referral_test

import (
	"testing"

	"github.com/noonesark/splash/internal/referral"
	"github.com/stretchr/testify/assert"
)

func resolved(registered bool) referral.LookupState {
	return referral.LookupState{Result: &referral.LookupResult{Code: "abc123", Registered: registered}}
}

func failed() referral.LookupState {
	return referral.LookupState{Error: "boom", Result: &referral.LookupResult{Code: "abc123"}}
}

func TestGate(t *testing.T) {
	t.Run("starts loading", func(t *testing.T) {
		assert.Equal(t, referral.GateLoading, referral.NewGate().State())
	})

	t.Run("failed lookup shows the failure panel", func(t *testing.T) {
		g := referral.NewGate()

		g.ResolveLookup(failed())

		assert.Equal(t, referral.GateLookupFailed, g.State())
	})

	t.Run("unregistered code awaits registration", func(t *testing.T) {
		g := referral.NewGate()

		g.ResolveLookup(resolved(false))

		assert.Equal(t, referral.GateAwaitingRegistration, g.State())
	})

	t.Run("registered code skips the form", func(t *testing.T) {
		g := referral.NewGate()

		g.ResolveLookup(resolved(true))

		assert.Equal(t, referral.GateRegistered, g.State())
	})

	t.Run("registration completes the gate", func(t *testing.T) {
		g := referral.NewGate()

		g.ResolveLookup(resolved(false))
		g.CompleteRegistration()

		assert.Equal(t, referral.GateRegistered, g.State())
	})

	t.Run("registered is terminal for the session", func(t *testing.T) {
		g := referral.NewGate()

		g.ResolveLookup(resolved(false))
		g.CompleteRegistration()

		// A later lookup failure must not re-open the registration form.
		g.ResolveLookup(failed())
		assert.Equal(t, referral.GateRegistered, g.State())

		g.ResolveLookup(resolved(false))
		assert.Equal(t, referral.GateRegistered, g.State())
	})

	t.Run("failed lookup can be retried", func(t *testing.T) {
		g := referral.NewGate()

		g.ResolveLookup(failed())
		g.ResolveLookup(resolved(false))

		assert.Equal(t, referral.GateAwaitingRegistration, g.State())
	})
}
