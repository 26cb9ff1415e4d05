package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophid/internal/common"
)

type apiError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      string `json:"error"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
}

// ISO-8601 in UTC with milliseconds.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

var now = time.Now

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	writeJSON(w, statusCode, apiError{
		StatusCode: statusCode,
		Message:    message,
		Error:      http.StatusText(statusCode),
		Timestamp:  now().UTC().Format(timestampLayout),
		Path:       r.URL.Path,
	})
}

// writeMappedError translates service errors to HTTP. Internal errors are
// reported with a generic message.
func writeMappedError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrConflict):
		writeError(w, r, http.StatusConflict, "Email already in use")
	case errors.Is(err, common.ErrInvalidCredentials):
		writeError(w, r, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, common.ErrUnauthenticated):
		writeError(w, r, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, common.ErrExternalProfileIncomplete):
		writeError(w, r, http.StatusUnprocessableEntity, "No email found from Google profile")
	default:
		writeError(w, r, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}
