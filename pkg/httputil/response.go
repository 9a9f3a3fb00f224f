package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caresync/hospital-api/pkg/errors"
)

// Response wraps all API responses.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// statusOf maps application error codes to HTTP statuses. The services never
// pick statuses themselves.
func statusOf(code errors.ErrorCode) int {
	switch code {
	case errors.ErrNotFound:
		return http.StatusNotFound
	case errors.ErrValidation, errors.ErrFieldNotAllowed, errors.ErrImmutableField:
		return http.StatusBadRequest
	case errors.ErrConflict:
		return http.StatusConflict
	case errors.ErrForbidden:
		return http.StatusForbidden
	case errors.ErrUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrDependencyFailure:
		return http.StatusFailedDependency
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithSuccess sends a success envelope.
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithCreated sends a success envelope with 201.
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError renders the error envelope. Internal errors are masked;
// everything else surfaces its "<component>-<operation>: <reason>" message.
func RespondWithError(c *gin.Context, err error) {
	status := statusOf(errors.CodeOf(err))
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.JSON(status, Response{
		Success: false,
		Error:   msg,
	})
}
