package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/errutil"
)

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// writeJSON writes a JSON response with proper error handling
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		errutil.Handle(ctx, err, "failed to encode JSON response")
	}
}

// writeData wraps payload data in the success envelope
func writeData(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	writeJSON(ctx, w, statusCode, successEnvelope{Success: true, Data: data})
}

// writeUnauthorized writes the fixed 401 envelope
func writeUnauthorized(ctx context.Context, w http.ResponseWriter) {
	writeJSON(ctx, w, http.StatusUnauthorized, map[string]any{
		"success": false,
		"error":   "Unauthorized",
	})
}

// handleUseCaseError maps usecase sentinel errors onto HTTP status codes and
// writes the error envelope.
func handleUseCaseError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, usecase.ErrRiskNotFound),
		errors.Is(err, usecase.ErrTreatmentNotFound),
		errors.Is(err, usecase.ErrWorkshopNotFound),
		errors.Is(err, usecase.ErrControlNotFound),
		errors.Is(err, usecase.ErrAssetNotFound):
		status = http.StatusNotFound
	case errors.Is(err, usecase.ErrTreatmentClosed),
		errors.Is(err, usecase.ErrDuplicateRiskID):
		status = http.StatusConflict
	}
	errutil.HandleHTTP(ctx, w, err, status)
}
