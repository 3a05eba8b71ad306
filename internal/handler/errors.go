package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/postboard/internal/auth"
	"github.com/iliyamo/postboard/internal/logger"
	"github.com/iliyamo/postboard/internal/middleware"
	"github.com/iliyamo/postboard/internal/repository"
)

var errNoCaller = errors.New("no authenticated caller")

// invalidInput is a request the schema rejects.  It maps to 422.
type invalidInput string

func (e invalidInput) Error() string { return string(e) }

// detailed attaches the client-facing message to an error without changing
// how it is classified.
type detailed struct {
	err    error
	detail string
}

func (d *detailed) Error() string { return d.detail + ": " + d.err.Error() }
func (d *detailed) Unwrap() error { return d.err }

func withDetail(err error, format string, args ...any) error {
	return &detailed{err: err, detail: fmt.Sprintf(format, args...)}
}

// respondError is the single place where failures become status codes.
func respondError(c echo.Context, err error) error {
	var (
		status int
		detail string
		ii     invalidInput
		ve     validator.ValidationErrors
	)
	switch {
	case errors.Is(err, errNoCaller), errors.Is(err, auth.ErrInvalidToken):
		return middleware.Unauthorized(c)
	case errors.Is(err, repository.ErrNotFound):
		status, detail = http.StatusNotFound, "not found"
	case errors.Is(err, repository.ErrForbidden):
		status, detail = http.StatusForbidden, "Not authorised to perform requested action"
	case errors.Is(err, repository.ErrConflict):
		status, detail = http.StatusConflict, "already voted"
	case errors.Is(err, repository.ErrEmailExists):
		status, detail = http.StatusUnprocessableEntity, "email already exists"
	case errors.As(err, &ve):
		status, detail = http.StatusUnprocessableEntity, describeValidation(ve)
	case errors.As(err, &ii):
		status, detail = http.StatusUnprocessableEntity, string(ii)
	default:
		logger.Error.Printf("%s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal server error"})
	}

	var d *detailed
	if errors.As(err, &d) {
		detail = d.detail
	}
	return c.JSON(status, echo.Map{"detail": detail})
}

func describeValidation(ve validator.ValidationErrors) string {
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		var m string
		switch fe.Tag() {
		case "required":
			m = "field required"
		case "email":
			m = "value is not a valid email address"
		case "e164":
			m = "value is not a valid phone number"
		case "oneof":
			m = "value must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
		case "gt", "gte", "min":
			m = "value must be at least " + fe.Param()
		case "lte", "max":
			m = "value must be at most " + fe.Param()
		default:
			m = "failed " + fe.Tag() + " check"
		}
		msgs = append(msgs, fe.Field()+": "+m)
	}
	return strings.Join(msgs, "; ")
}
