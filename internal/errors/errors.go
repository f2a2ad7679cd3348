package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthenticated is returned when no valid session accompanies the request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when the user lacks the required project role.
	ErrForbidden = errors.New("you don't have access to this project")
	// ErrOwnershipRequired is returned when a non-owner attempts an owner-only action.
	ErrOwnershipRequired = errors.New("only project owners can perform this action")
	// ErrProjectNotFound is returned when a project does not exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrMapNotFound is returned when a map does not exist.
	ErrMapNotFound = errors.New("map not found")
	// ErrCollaboratorExists is returned when the (project, user) pair already collaborates.
	ErrCollaboratorExists = errors.New("user is already a collaborator on this project")
	// ErrOwnerAsCollaborator is returned when the owner is added as their own collaborator.
	ErrOwnerAsCollaborator = errors.New("you cannot add yourself as a collaborator")
	// ErrAvatarTooLarge is returned when an uploaded avatar exceeds the size limit.
	ErrAvatarTooLarge = errors.New("file too large, please upload an image smaller than 5MB")
	// ErrInvalidAvatarType is returned for unsupported avatar image formats.
	ErrInvalidAvatarType = errors.New("invalid file type, please upload a JPEG, PNG, GIF, or WebP image")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unrecognized is
// an unexpected failure and surfaces as a generic 500 without internals.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrOwnershipRequired):
		return NewHTTPError(http.StatusForbidden, err.Error(), "OWNERSHIP_REQUIRED")
	case errors.Is(err, ErrProjectNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PROJECT_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrMapNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "MAP_NOT_FOUND")
	case errors.Is(err, ErrCollaboratorExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "COLLABORATOR_EXISTS")
	case errors.Is(err, ErrOwnerAsCollaborator):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "OWNER_AS_COLLABORATOR")
	case errors.Is(err, ErrAvatarTooLarge):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "AVATAR_TOO_LARGE")
	case errors.Is(err, ErrInvalidAvatarType):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_AVATAR_TYPE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
