package response

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/contestify/contest-api/internal/service"
)

// Err is the failure body of every endpoint.
type Err struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	Category  string `json:"category" example:"NotFound"`
	Message   string `json:"message" example:"contest not found"`
	RequestID string `json:"requestId,omitempty"`
}

func (e *Err) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func RenderErr(ctx *gin.Context, e *Err) {
	e.RequestID = requestid.Get(ctx)

	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("requestID", e.RequestID),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
			zap.Error(e.Err),
		)
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		Category:       "ValidationError",
		Message:        err.Error(),
	}
}

func ErrUnauthorized(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusUnauthorized,
		Category:       "Unauthorized",
		Message:        "missing or invalid credentials",
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		Category:       "InternalError",
		Message:        "internal server error",
	}
}

// ErrFromService renders a service error with the status of its category.
// Unclassified errors become 500s and their details stay in the logs.
func ErrFromService(err error) *Err {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		return ErrInternalServerError(err)
	}

	return &Err{
		Err:            err,
		HTTPStatusCode: status,
		Category:       service.Category(err),
		Message:        service.Message(err),
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidState):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
