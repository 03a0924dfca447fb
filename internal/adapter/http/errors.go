package http

import (
	"net/http"

	"sinfopers/internal/apperr"
	"sinfopers/internal/logger"

	"github.com/labstack/echo/v4"
)

// respondError maps an apperr kind to its status code. Anything else is
// logged and hidden behind a 500.
func respondError(c echo.Context, err error) error {
	e, ok := apperr.As(err)
	if !ok {
		logger.WithComponent("http").Error("request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error(), Type: string(e.Kind)})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// bindAndValidate decodes the body into req and runs the struct validator.
// It writes the error response itself and reports whether to continue.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, badRequest(c, "invalid body")
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}
