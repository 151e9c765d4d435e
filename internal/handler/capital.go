package handler

import (
	"net/http"
	"taqsit/internal/dto"
	"taqsit/internal/service"

	"github.com/labstack/echo/v4"
)

type CapitalHandler struct {
	capitalService service.CapitalService
}

func NewCapitalHandler(capitalService service.CapitalService) *CapitalHandler {
	return &CapitalHandler{
		capitalService: capitalService,
	}
}

func (h *CapitalHandler) CreateEntry(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}

	var req dto.CreateCapitalEntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := req.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	entry, err := h.capitalService.CreateCapitalEntry(ctx, tenantID, req.Type, req.Amount, req.Notes)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, &dto.CapitalEntryResponse{
		ID:        entry.ID,
		Type:      entry.Type,
		Amount:    entry.Amount,
		Direction: entry.Direction,
		Notes:     entry.Notes,
		CreatedAt: entry.CreatedAt,
	})
}

func (h *CapitalHandler) GetSummary(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}

	summary, err := h.capitalService.Summary(ctx, tenantID)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, &dto.CapitalSummaryResponse{
		AvailableFunds:  summary.AvailableFunds,
		CapitalDeployed: summary.CapitalDeployed,
		Equity:          summary.Equity,
		Balance:         summary.Balance,
	})
}
