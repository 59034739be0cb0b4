package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/noonesark/splash/internal/clientip"
	"github.com/noonesark/splash/internal/upstream"
	"go.uber.org/zap"
)

// SplashHandler proxies the referral operations to the external splash
// service: code lookup, registration, and new-referrer creation. Each
// operation validates the body field by field, injects the server-derived
// caller IP, forwards one upstream call, and relays the outcome in the
// uniform {success, message} envelope.
type SplashHandler struct {
	upstream *upstream.Client
	logger   *zap.Logger
}

// NewSplashHandler creates the referral proxy handler.
func NewSplashHandler(client *upstream.Client, logger *zap.Logger) *SplashHandler {
	return &SplashHandler{
		upstream: client,
		logger:   logger,
	}
}

// callerIP returns the middleware-derived client IP, never a body value.
func callerIP(ctx context.Context) string {
	if ip := RequestMetaFromContext(ctx).ClientIP; ip != "" {
		return ip
	}

	return clientip.Unknown
}

func (h *SplashHandler) LookupCode(ctx context.Context, in *LookupCodeInput) (*LookupCodeOutput, error) {
	out := &LookupCodeOutput{Status: http.StatusOK}

	code := in.Body.Code
	if code == "" {
		out.Status = http.StatusBadRequest
		out.Body = upstream.LookupResponse{
			Message: "Missing or invalid code parameter",
			Record:  upstream.EmptyRecord(""),
		}

		return out, nil
	}

	resp, status, err := h.upstream.LookupCode(ctx, &upstream.LookupRequest{
		Code:        code,
		Fingerprint: in.Body.Fingerprint,
	})
	if err != nil {
		h.logger.Error("metrics service unreachable", zap.String("code", code), zap.Error(err))

		out.Status = http.StatusInternalServerError
		out.Body = upstream.LookupResponse{
			Message: "Failed to connect to metrics service",
			Record:  upstream.EmptyRecord(code),
		}

		return out, nil
	}

	if resp == nil {
		h.logger.Warn("metrics service error", zap.String("code", code), zap.Int("status", status))

		out.Status = status
		out.Body = upstream.LookupResponse{
			Message: fmt.Sprintf("Failed to retrieve metrics: %d", status),
			Record:  upstream.EmptyRecord(code),
		}

		return out, nil
	}

	out.Body = *resp

	return out, nil
}

func (h *SplashHandler) RegisterCode(ctx context.Context, in *RegisterCodeInput) (*RegisterCodeOutput, error) {
	out := &RegisterCodeOutput{Status: http.StatusOK}

	if msg := firstMissing(
		field{"code parameter", in.Body.Code},
		field{"firstName", in.Body.FirstName},
		field{"lastName", in.Body.LastName},
		field{"email", in.Body.Email},
		field{"phone", in.Body.Phone},
		field{"nickname", in.Body.Nickname},
	); msg != "" {
		out.Status = http.StatusBadRequest
		out.Body = upstream.RegisterResponse{Message: msg}

		return out, nil
	}

	resp, status, err := h.upstream.RegisterCode(ctx, &upstream.RegisterRequest{
		Code:        in.Body.Code,
		FirstName:   in.Body.FirstName,
		LastName:    in.Body.LastName,
		Email:       in.Body.Email,
		Phone:       in.Body.Phone,
		Nickname:    in.Body.Nickname,
		IP:          callerIP(ctx),
		Fingerprint: in.Body.Fingerprint,
	})
	if err != nil {
		h.logger.Error("registration service unreachable", zap.String("code", in.Body.Code), zap.Error(err))

		out.Status = http.StatusInternalServerError
		out.Body = upstream.RegisterResponse{Message: "Internal server error"}

		return out, nil
	}

	if resp == nil {
		h.logger.Warn("registration service error", zap.String("code", in.Body.Code), zap.Int("status", status))

		out.Status = status
		out.Body = upstream.RegisterResponse{Message: fmt.Sprintf("Failed to register code: %d", status)}

		return out, nil
	}

	out.Body = *resp

	return out, nil
}

func (h *SplashHandler) AddReferrer(ctx context.Context, in *AddReferrerInput) (*AddReferrerOutput, error) {
	out := &AddReferrerOutput{Status: http.StatusOK}

	// Error messages use the documented camelCase names even though the
	// body arrives in snake_case.
	if msg := firstMissing(
		field{"firstName", in.Body.FirstName},
		field{"lastName", in.Body.LastName},
		field{"email", in.Body.Email},
		field{"phone", in.Body.Phone},
	); msg != "" {
		out.Status = http.StatusBadRequest
		out.Body = upstream.CreateReferrerResponse{
			Message:     msg,
			NewReferrer: upstream.EmptyRecord(""),
		}

		return out, nil
	}

	resp, status, err := h.upstream.CreateReferrer(ctx, &upstream.CreateReferrerRequest{
		FirstName:   in.Body.FirstName,
		LastName:    in.Body.LastName,
		Email:       in.Body.Email,
		Phone:       in.Body.Phone,
		IP:          callerIP(ctx),
		Fingerprint: in.Body.Fingerprint,
	})
	if err != nil {
		h.logger.Error("referrer creation unreachable", zap.Error(err))

		out.Status = http.StatusInternalServerError
		out.Body = upstream.CreateReferrerResponse{
			Message:     "Internal server error",
			NewReferrer: upstream.EmptyRecord(""),
		}

		return out, nil
	}

	if resp == nil {
		h.logger.Warn("referrer creation error", zap.Int("status", status))

		out.Status = status
		out.Body = upstream.CreateReferrerResponse{
			Message:     fmt.Sprintf("Failed to add referrer: %d", status),
			NewReferrer: upstream.EmptyRecord(""),
		}

		return out, nil
	}

	out.Body = *resp

	return out, nil
}

type field struct {
	name  string
	value string
}

// firstMissing returns the 400 message for the first empty field, checked in
// declared order, or "" when everything is present.
func firstMissing(fields ...field) string {
	for _, f := range fields {
		if f.value == "" {
			return "Missing or invalid " + f.name
		}
	}

	return ""
}
