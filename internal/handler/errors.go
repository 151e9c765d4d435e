package handler

import (
	"errors"
	"net/http"
	"taqsit/internal/middleware"
	"taqsit/internal/service"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInsufficientFunds):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrAccessDenied):
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	case errors.Is(err, service.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	default:
		return err
	}
}

func tenantIDFromContext(c echo.Context) (string, error) {
	tenantID, _ := c.Get(middleware.ContextTenantID).(string)
	if tenantID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing tenant context")
	}
	return tenantID, nil
}
