package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/colorwood/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeInvalidConfiguration = "INVALID_CONFIGURATION"
	CodeInvalidViewport      = "INVALID_VIEWPORT"
	CodeInvalidPointerOp     = "INVALID_POINTER_OP"
	CodeInvalidSlot          = "INVALID_SLOT"
	CodeInvalidSelection     = "INVALID_SELECTION"
	CodeSelectionActive      = "SELECTION_ACTIVE"
	CodeNotInGameplay        = "NOT_IN_GAMEPLAY"
	CodeNoMoves              = "NO_MOVES"
	CodeUnknownStrategy      = "UNKNOWN_STRATEGY"
	CodeSessionNotFound      = "SESSION_NOT_FOUND"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Configuration errors name the offending field
	var ce *model.ConfigError
	if errors.As(err, &ce) {
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidConfiguration, ce.Error(), ce.Field}}
	}

	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeSessionNotFound, Message: "Session not found"}}
	case errors.Is(err, model.ErrInvalidConfiguration):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidConfiguration, Message: "Invalid game configuration"}}
	case errors.Is(err, model.ErrInvalidViewport):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidViewport, Message: "Viewport width must be a positive number"}}
	case errors.Is(err, model.ErrInvalidPointerOp):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidPointerOp, Message: "Pointer type must be down, move, up or leave"}}
	case errors.Is(err, model.ErrInvalidSlot):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidSlot, Message: "Invalid slot"}}
	case errors.Is(err, model.ErrInvalidSelection):
		return &httpError{http.StatusConflict, APIError{Code: CodeInvalidSelection, Message: "Piece is not selectable"}}
	case errors.Is(err, model.ErrSelectionActive):
		return &httpError{http.StatusConflict, APIError{Code: CodeSelectionActive, Message: "A selection is already active"}}
	case errors.Is(err, model.ErrNotInGameplay):
		return &httpError{http.StatusConflict, APIError{Code: CodeNotInGameplay, Message: "Game is not accepting input"}}
	case errors.Is(err, model.ErrNoMoves):
		return &httpError{http.StatusConflict, APIError{Code: CodeNoMoves, Message: "No legal moves remain"}}
	case errors.Is(err, model.ErrUnknownStrategy):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeUnknownStrategy, Message: "Strategy must be greedy or random", Field: "strategy"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
}
