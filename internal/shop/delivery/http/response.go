package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/tair/shopfront/internal/shop/domain"
	"github.com/tair/shopfront/pkg/logger"
)

const maxJSONBody = 1 << 20

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    domain.Code `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func statusFor(code domain.Code) int {
	switch code {
	case domain.CodeInvalidInput:
		return http.StatusBadRequest
	case domain.CodeUnauthenticated, domain.CodeRevoked:
		return http.StatusUnauthorized
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeConflict, domain.CodeAlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondOK(w http.ResponseWriter, status int, message string, data interface{}) {
	respondJSON(w, status, Response{Success: true, Message: message, Data: data})
}

// respondError maps err to its status. Internal causes are logged and never
// leave the process.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	de := domain.AsError(err)
	status := statusFor(de.Code)
	if status == http.StatusInternalServerError {
		logger.Error(ctx).Err(err).Msg("Request failed")
	}
	respondJSON(w, status, Response{
		Success: false,
		Error:   &ErrorBody{Code: de.Code, Message: de.Message, Details: de.Details},
	})
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.InvalidInput("request body is required")
		}
		return domain.InvalidInput("invalid request body")
	}
	return nil
}
