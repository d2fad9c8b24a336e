package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/najdeno/internal/model"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response with a machine-readable code.
func jsonError(w http.ResponseWriter, status int, code, message string) {
	jsonResponse(w, status, errorBody{Error: message, Code: code})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(target)
}

// errorStatus maps a service error to an HTTP status and error code.
func errorStatus(err error) (int, string) {
	var partial *model.PartialAdjudicationError
	switch {
	case errors.As(err, &partial):
		return http.StatusBadGateway, "claim_partially_applied"
	case errors.Is(err, model.ErrDependency):
		return http.StatusBadGateway, "dependency_failure"
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, model.ErrExpired):
		return http.StatusGone, "otp_expired"
	case errors.Is(err, model.ErrInvalidCode):
		return http.StatusUnauthorized, "otp_invalid"
	case errors.Is(err, model.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "otp_too_many_attempts"
	case errors.Is(err, model.ErrAlreadyUsed):
		return http.StatusConflict, "otp_already_used"
	case errors.Is(err, model.ErrInvalidTransition):
		return http.StatusConflict, "claim_already_decided"
	case errors.Is(err, model.ErrInvalidState):
		return http.StatusConflict, "invalid_state"
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// writeError logs err and writes the mapped error response. Internal and
// dependency errors are not echoed to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorStatus(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("code", code),
			slog.Any("error", err),
		)
		msg = http.StatusText(status)
	}
	jsonError(w, status, code, msg)
}
