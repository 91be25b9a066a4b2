package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/sketchgame/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes, shared with operation-error events
const (
	CodeRoomNotFound        = model.CodeRoomNotFound
	CodeRoomFull            = model.CodeRoomFull
	CodeNameTaken           = model.CodeNameTaken
	CodeInvalidName         = model.CodeInvalidName
	CodeInsufficientPlayers = model.CodeInsufficientPlayers
	CodePlayerNotFound      = model.CodePlayerNotFound
	CodeAlreadyInRoom       = model.CodeAlreadyInRoom
	CodeNotInRoom           = model.CodeNotInRoom
	CodeNotAuthorized       = model.CodeNotAuthorized
	CodeInvalidPhase        = model.CodeInvalidPhase
	CodeInvalidStroke       = model.CodeInvalidStroke
	CodeInternalError       = model.CodeInternalError
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

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}
	code, message := model.Describe(err)
	return &httpError{statusFor(err), APIError{code, message}}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrRoomNotFound), errors.Is(err, model.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidName), errors.Is(err, model.ErrInvalidStroke):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, model.ErrRoomFull),
		errors.Is(err, model.ErrNameTaken),
		errors.Is(err, model.ErrInsufficientPlayers),
		errors.Is(err, model.ErrAlreadyInRoom),
		errors.Is(err, model.ErrNotInRoom),
		errors.Is(err, model.ErrInvalidPhase):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
