package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/baq-transit/service-routing/internal/platform/domain"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a single error.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success writes data with 200 OK.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// BadRequest writes a validation error with 400.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorBody{Error: ErrorDetail{
		Code:    string(domain.KindValidation),
		Message: message,
	}})
}

// Error maps err to a status code. Internal causes are never echoed to the client.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)

	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		appErr = domain.NewInternalError("internal server error", err)
	}

	message := appErr.Message
	if appErr.Kind == domain.KindInternal {
		message = "internal server error"
	}

	c.JSON(appErr.HTTPStatus(), ErrorBody{Error: ErrorDetail{
		Code:    string(appErr.Kind),
		Message: message,
	}})
}
