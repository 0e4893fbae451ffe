package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dtroode/useraccounts-server/internal/apierrors"
	"github.com/dtroode/useraccounts-server/internal/logger"
	"github.com/dtroode/useraccounts-server/internal/model"
)

// handleError converts err to a client-safe APIError. Anything that is not
// an expected outcome becomes a generic internal error.
func handleError(err error) *apierrors.APIError {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		return apierrors.NewErrUserNotFound()
	case errors.Is(err, model.ErrUnauthorized):
		return apierrors.NewErrInvalidAuthorizationToken()
	case errors.Is(err, model.ErrPasswordTooLong):
		return apierrors.NewErrValidation("password",
			fmt.Sprintf("password must be at most %d bytes", model.MaxPasswordBytes))
	default:
		return apierrors.NewErrInternalServerError(err)
	}
}

func writeError(c *gin.Context, log *logger.Logger, err error) {
	apiErr := handleError(err)
	if apiErr.HTTPCode >= http.StatusInternalServerError {
		log.Error("HTTP handler: request failed",
			"path", c.FullPath(),
			"error", err.Error())
	}
	c.JSON(apiErr.HTTPCode, apiErr.Response())
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// bindError maps gin binding failures to validation errors.
func bindError(err error) *apierrors.APIError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apierrors.NewErrValidation(verrs[0].Field(), validationMessage(verrs[0]))
	}
	if errors.Is(err, io.EOF) {
		return apierrors.NewErrValidation("", "request body is required")
	}
	return apierrors.NewErrInvalidRequestBody()
}

// bindJSON decodes and validates the body, writing the error response on failure.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		apiErr := bindError(err)
		c.JSON(apiErr.HTTPCode, apiErr.Response())
		return false
	}
	return true
}

func parseUserID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		apiErr := apierrors.NewErrInvalidUserID(raw)
		c.JSON(apiErr.HTTPCode, apiErr.Response())
		return uuid.Nil, false
	}
	return id, true
}
