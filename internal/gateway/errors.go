package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("storefront api temporarily unavailable")
	ErrBadResponse = errors.New("unexpected response from storefront api")
	ErrInvalidID   = errors.New("invalid id")
)

// APIError is a non-2xx answer from the remote API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// ErrorResponse is the error body the API sends. Some endpoints use "error"
// instead of "message".
type ErrorResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var payload ErrorResponse
	if json.Unmarshal(body, &payload) == nil {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
	}
	return apiErr
}

// MessageOf returns the server-supplied message carried by err, or fallback
// when there is none.
func MessageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if msg := strings.TrimSpace(apiErr.Message); msg != "" {
			return msg
		}
	}
	return fallback
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
