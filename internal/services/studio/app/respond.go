package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/louisbranch/printstudio/internal/platform/errors"
)

const maxBodyBytes = 1 << 20

// errorResponse is the JSON body of a failed API call.
type errorResponse struct {
	Error string         `json:"error"`
	Code  apperrors.Code `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeError maps err to its HTTP status. Only the error code and a status
// text reach the client; the cause is logged.
func (a *App) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.CodeOf(err)
	status := code.HTTPStatus()
	event := a.logger.Warn()
	if status >= http.StatusInternalServerError {
		event = a.logger.Error()
	}
	event.Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("code", string(code)).
		Str("request_id", r.Header.Get(requestIDHeader)).
		Msg("request failed")

	message := http.StatusText(status)
	var domainErr *apperrors.Error
	if status < http.StatusInternalServerError && errors.As(err, &domainErr) && domainErr.Message != "" {
		message = domainErr.Message
	}
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

// decodeJSON reads a bounded JSON body into target.
func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "invalid request body", fmt.Errorf("decode json: %w", err))
	}
	return nil
}
