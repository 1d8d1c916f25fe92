package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kavacham/backend/internal/metrics"
	"github.com/kavacham/backend/internal/service"
)

// Values of the "type" field in failure responses.
const (
	errorTypeValidation    = "validation_error"
	errorTypeConfiguration = "configuration_error"
	errorTypeServer        = "server_error"
	errorTypeRateLimited   = "rate_limited"
)

// errorResponse is the failure envelope shared by every intake endpoint.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func writeFailure(w http.ResponseWriter, status int, code, message, typ string) {
	writeJSON(w, status, errorResponse{
		Success: false,
		Error:   code,
		Message: message,
		Type:    typ,
	})
}

// writeError maps a service error onto the failure envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *service.ValidationError
		configErr     *service.ConfigurationError
		storeErr      *service.StoreError
	)
	switch {
	case errors.As(err, &validationErr):
		writeFailure(w, http.StatusBadRequest, validationErr.Code, validationErr.Message, errorTypeValidation)
	case errors.As(err, &configErr):
		slog.Error("intake rejected: mail settings missing",
			"path", r.URL.Path,
			"missing", configErr.Missing,
			"request_id", RequestIDFromContext(r.Context()),
		)
		writeFailure(w, http.StatusInternalServerError, "configuration_error",
			"Server configuration error. Please try again later.", errorTypeConfiguration)
	case errors.As(err, &storeErr):
		slog.Error("intake store failure",
			"path", r.URL.Path,
			"op", storeErr.Op,
			"error", storeErr.Err,
			"request_id", RequestIDFromContext(r.Context()),
		)
		writeFailure(w, http.StatusInternalServerError, "store_failed",
			"Failed to process request. Please try again.", errorTypeServer)
	default:
		slog.Error("intake failure",
			"path", r.URL.Path,
			"error", err,
			"request_id", RequestIDFromContext(r.Context()),
		)
		writeFailure(w, http.StatusInternalServerError, "internal_error",
			"Failed to process request. Please try again.", errorTypeServer)
	}
}

// writeInvalid reports a rejected submission of the given kind.
func writeInvalid(w http.ResponseWriter, r *http.Request, kind string, err error) {
	metrics.RecordSubmission(kind, "invalid")
	writeError(w, r, err)
}

// decodeJSON decodes a single JSON object, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &service.ValidationError{
			Code:    "invalid_json",
			Message: "Request body must be a valid JSON object.",
		}
	}
	return nil
}

const maxBodyBytes = 1 << 20
