package handler // declare the package name; contains HTTP handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the liveness check used by load balancers.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Root greets API clients.
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"msg": "welcome to the api"})
}
