package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/resyne/site-api/internal/validation"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// WriteJSON serializes payload to JSON with status and logs on failure.
func WriteJSON(logger *log.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Printf("failed to encode JSON response: %v", err)
	}
}

// WriteError maps err to a response: validation failures become 400 with the
// per-field messages, everything else 500 with the error text.
func WriteError(logger *log.Logger, w http.ResponseWriter, err error) {
	if verr, ok := validation.As(err); ok {
		WriteJSON(logger, w, http.StatusBadRequest, ErrorResponse{
			Error:  verr.Error(),
			Fields: verr.Map(),
		})
		return
	}
	WriteJSON(logger, w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}

// WriteMessage writes a failure with a fixed message.
func WriteMessage(logger *log.Logger, w http.ResponseWriter, status int, message string) {
	WriteJSON(logger, w, status, ErrorResponse{Error: message})
}

// DecodeJSON reads a size-limited JSON body into v.
func DecodeJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, MaxRequestBody))
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty request body")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
