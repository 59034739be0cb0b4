package referral_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/noonesark/splash/internal/referral"
	"github.com/noonesark/splash/internal/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseName(t *testing.T) {
	t.Run("splits first and remaining tokens", func(t *testing.T) {
		parsed := referral.ParseName("Jane Mary Doe")

		assert.Equal(t, "Jane", parsed.FirstName)
		assert.Equal(t, "Mary Doe", parsed.LastName)
		assert.Equal(t, "Jane Mary Doe", parsed.Nickname)
	})

	t.Run("single token has empty last name", func(t *testing.T) {
		parsed := referral.ParseName("Solo")

		assert.Equal(t, "Solo", parsed.FirstName)
		assert.Equal(t, "", parsed.LastName)
		assert.Equal(t, "Solo", parsed.Nickname)
	})

	t.Run("empty input yields all empty strings", func(t *testing.T) {
		assert.Equal(t, referral.ParsedName{}, referral.ParseName(""))
	})

	t.Run("collapses interior whitespace into single spaces", func(t *testing.T) {
		parsed := referral.ParseName("  Jane   Mary   Doe  ")

		assert.Equal(t, "Jane", parsed.FirstName)
		assert.Equal(t, "Mary Doe", parsed.LastName)
		assert.Equal(t, "Jane   Mary   Doe", parsed.Nickname)
	})
}

func newRegister(baseURL string) *referral.RegisterClient {
	return referral.NewRegisterClient(baseURL, nil, nil, zap.NewNop())
}

func validPayload() referral.RegisterPayload {
	return referral.RegisterPayload{
		Code:  "abc123",
		Name:  "Jane Doe",
		Email: "jane@example.com",
		Phone: "5551234567",
	}
}

func TestRegister(t *testing.T) {
	t.Run("sends parsed name and defaults fingerprint to unknown", func(t *testing.T) {
		var got upstream.RegisterRequest

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_ = json.NewEncoder(w).Encode(upstream.RegisterResponse{Success: true, Message: "Code registered successfully"})
		}))
		defer srv.Close()

		client := newRegister(srv.URL)

		err := client.Register(context.Background(), validPayload())

		require.NoError(t, err)
		assert.Equal(t, "abc123", got.Code)
		assert.Equal(t, "Jane", got.FirstName)
		assert.Equal(t, "Doe", got.LastName)
		assert.Equal(t, "Jane Doe", got.Nickname)
		assert.Equal(t, "unknown", got.Fingerprint)
		assert.True(t, client.Completed())
		assert.Empty(t, client.Err())
	})

	t.Run("rejects blank fields before any network call", func(t *testing.T) {
		called := false

		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
		defer srv.Close()

		client := newRegister(srv.URL)

		payload := validPayload()
		payload.Phone = "   "

		err := client.Register(context.Background(), payload)

		var vErr *referral.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "Please fill out all fields.", vErr.Message)
		assert.False(t, called)
		assert.False(t, client.Completed())
	})

	t.Run("surfaces the service message on business failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(upstream.RegisterResponse{Success: false, Message: "code already registered"})
		}))
		defer srv.Close()

		client := newRegister(srv.URL)

		err := client.Register(context.Background(), validPayload())

		var sErr *referral.ServiceError
		require.ErrorAs(t, err, &sErr)
		assert.Equal(t, "code already registered", sErr.Message)
		assert.Equal(t, "code already registered", client.Err())
	})

	t.Run("embeds the status in the generic failure message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := newRegister(srv.URL)

		err := client.Register(context.Background(), validPayload())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("prefers the body message on non-2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(upstream.RegisterResponse{Success: false, Message: "already taken"})
		}))
		defer srv.Close()

		client := newRegister(srv.URL)

		err := client.Register(context.Background(), validPayload())

		require.Error(t, err)
		assert.Equal(t, "already taken", err.Error())
	})

	t.Run("completion is sticky across later failures", func(t *testing.T) {
		succeed := true

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if succeed {
				_ = json.NewEncoder(w).Encode(upstream.RegisterResponse{Success: true})

				return
			}

			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := newRegister(srv.URL)

		require.NoError(t, client.Register(context.Background(), validPayload()))
		require.True(t, client.Completed())

		succeed = false

		_ = client.Register(context.Background(), validPayload())

		// A later failure records an error but never un-completes the session.
		assert.NotEmpty(t, client.Err())
		assert.True(t, client.Completed())
	})
}
