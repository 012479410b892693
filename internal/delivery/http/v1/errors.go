package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmatrix/internal/lifecycle"
	"taskmatrix/internal/models"
	"taskmatrix/internal/services"
)

var (
	errInvalidRequestBody      = errors.New("invalid request body")
	errMandatoryCookieNotFound = errors.New("mandatory cookie not found")
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newForbiddenError(message string) apiError {
	return newAPIError(http.StatusForbidden, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

// abortTaskError maps the service error taxonomy to HTTP statuses:
// validation to 400, unknown ids to 404, owner mismatches to 403,
// illegal lifecycle transitions and duplicate titles to 409.
func abortTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrEmptyTitle),
		errors.Is(err, models.ErrTitleTooLong),
		errors.Is(err, models.ErrInvalidTimeFrame),
		errors.Is(err, models.ErrPastDeadline),
		errors.Is(err, models.ErrInvalidFileType):
		abort(c, newBadRequestError(err.Error()))
	case errors.Is(err, services.ErrTaskNotFound):
		abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
	case errors.Is(err, services.ErrAttachmentNotFound):
		abort(c, newNotFoundError(services.ErrAttachmentNotFound.Error()))
	case errors.Is(err, services.ErrNotTaskOwner):
		abort(c, newForbiddenError(services.ErrNotTaskOwner.Error()))
	case errors.Is(err, services.ErrTaskTitleTaken):
		abort(c, newConflictError(services.ErrTaskTitleTaken.Error()))
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		abort(c, newConflictError(lifecycle.ErrInvalidTransition.Error()))
	default:
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}
