package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/devtogether/platform-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondError translates AppError codes into HTTP statuses. Unknown errors
// become opaque 500s so internals never leak to the operator.
func RespondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch apperrors.CodeOf(err) {
	case apperrors.ErrNotFound:
		status = http.StatusNotFound
		message = err.Error()
	case apperrors.ErrValidation:
		status = http.StatusUnprocessableEntity
		message = err.Error()
	case apperrors.ErrUnauthorized:
		status = http.StatusUnauthorized
		message = err.Error()
	case apperrors.ErrForbidden:
		status = http.StatusForbidden
		message = err.Error()
	case apperrors.ErrConflict:
		status = http.StatusConflict
		message = err.Error()
	}

	c.JSON(status, NewErrorResponse(message))
}
