package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	domainerrors "github.com/saasbase/projecthub/internal/domain/errors"
	"github.com/saasbase/projecthub/internal/security/auth"
	"github.com/saasbase/projecthub/internal/security/middleware"
)

// Envelope is the uniform response shape, returned on every request
// including errors.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// writeError maps the error taxonomy onto status codes while keeping the
// envelope. Store failures are logged but never leaked to the caller.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrValidation),
		errors.Is(err, domainerrors.ErrEmailTaken):
		writeJSON(w, http.StatusBadRequest, Envelope{Success: false, Message: err.Error()})
	case errors.Is(err, domainerrors.ErrInvalidCredentials),
		errors.Is(err, domainerrors.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, Envelope{Success: false, Message: err.Error()})
	case errors.Is(err, domainerrors.ErrNotFound):
		writeJSON(w, http.StatusNotFound, Envelope{Success: false, Message: err.Error()})
	default:
		log.Error("request failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, Envelope{Success: false, Message: "internal server error"})
	}
}

// callerClaims returns the identity the gate attached to the request, or
// writes a 401 and returns nil if the gate was somehow bypassed.
func callerClaims(w http.ResponseWriter, r *http.Request) *auth.Claims {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, Envelope{Success: false, Message: "No token provided"})
	}
	return claims
}

func parsePathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s", domainerrors.ErrValidation, name)
	}
	return id, nil
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body", domainerrors.ErrValidation)
	}
	return nil
}
