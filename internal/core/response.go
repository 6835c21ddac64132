package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"walkwatch/internal/types"
)

// ErrorResponse is the envelope for every non-2xx response. The message is
// always safe for external eyes; wrapped internals never leak.
type ErrorResponse struct {
	Status    string `json:"status"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error writes the standard error envelope. AppErrors map to their own HTTP
// status; anything else becomes a generic 500 with a safe message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "an unexpected error occurred"

	var appErr *types.AppError
	if errors.As(err, &appErr) {
		status = appErr.HTTPStatus()
		message = appErr.Message
	}

	JSON(w, status, ErrorResponse{
		Status:    "error",
		Error:     message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// ErrorCode writes the standard error envelope for a known error code
// without constructing an AppError at the call site.
func ErrorCode(w http.ResponseWriter, r *http.Request, code types.ErrorCode, message string) {
	Error(w, r, types.NewAppError(code, message, nil))
}
