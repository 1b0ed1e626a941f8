package handler

import (
	"net/http"

	"github.com/OmarEmad62/ATC-01111780082/internal/middleware"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Ids are opaque to clients, so one that doesn't parse is reported the
// same way as one that doesn't exist.
func idParam(c echo.Context, notFound string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusNotFound, notFound)
	}
	return id, nil
}

func caller(c echo.Context) (middleware.Identity, error) {
	id, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, no token")
	}
	return id, nil
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.Validate(req)
}

func serverError(err error) error {
	return echo.NewHTTPError(http.StatusInternalServerError, "Server error").SetInternal(err)
}
