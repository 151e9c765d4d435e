package handler

import (
	"errors"
	"io"
	"net/http"
	"taqsit/internal/dto"
	"taqsit/internal/middleware"
	"taqsit/internal/service"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type BillingHandler struct {
	billingService service.BillingService
}

func NewBillingHandler(billingService service.BillingService) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
	}
}

// Webhook is the provider-facing endpoint. Success, no-op and duplicate all
// acknowledge with {received:true}; a 5xx makes the provider redeliver.
func (h *BillingHandler) Webhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	signature := c.Request().Header.Get("X-Signature")
	_, err = h.billingService.HandleWebhook(ctx, signature, body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid signature")
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "webhook processing failed")
		}
	}

	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}

func (h *BillingHandler) CreateCheckout(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}

	// Only the tenant owner may change billing.
	if role, _ := c.Get(middleware.ContextUserRole).(string); role != middleware.RoleOwner {
		return echo.NewHTTPError(http.StatusForbidden, "owner role required")
	}

	var req dto.CreateCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := req.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userID, _ := c.Get(middleware.ContextUserID).(string)
	url, err := h.billingService.CreateCheckoutSession(ctx, tenantID, userID, req.PlanCode)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, &dto.CheckoutResponse{
		CheckoutURL: url,
	})
}

func (h *BillingHandler) GetSubscription(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}

	sub, err := h.billingService.GetSubscription(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "no subscription")
		}
		return err
	}

	return c.JSON(http.StatusOK, &dto.SubscriptionResponse{
		PlanCode:           sub.PlanCode,
		Status:             sub.Status,
		CurrentPeriodStart: sub.CurrentPeriodStart,
		CurrentPeriodEnd:   sub.CurrentPeriodEnd,
		CanceledAt:         sub.CanceledAt,
		ExpiredAt:          sub.ExpiredAt,
	})
}
