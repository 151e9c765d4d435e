package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"taqsit/internal/client"
	"taqsit/internal/config"
	"taqsit/internal/model"
	"taqsit/internal/repository"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errAlreadyProcessed = errors.New("webhook event already processed")

// WebhookResult tells the handler how a delivery was handled; all three
// outcomes are acknowledged with {received:true}.
type WebhookResult struct {
	Duplicate bool
	Ignored   bool
}

type BillingService interface {
	HandleWebhook(ctx context.Context, signature string, body []byte) (*WebhookResult, error)
	CreateCheckoutSession(ctx context.Context, tenantID, userID, planCode string) (string, error)
	GetSubscription(ctx context.Context, tenantID string) (*model.Subscription, error)
}

type billingServiceImpl struct {
	db               *gorm.DB
	cfg              *config.LemonSqueezy
	lsClient         client.LemonSqueezyClient
	subscriptionRepo repository.SubscriptionRepository
	webhookEventRepo repository.WebhookEventRepository
}

func NewBillingService(
	db *gorm.DB,
	cfg *config.LemonSqueezy,
	lsClient client.LemonSqueezyClient,
	subscriptionRepo repository.SubscriptionRepository,
	webhookEventRepo repository.WebhookEventRepository,
) BillingService {
	return &billingServiceImpl{
		db:               db,
		cfg:              cfg,
		lsClient:         lsClient,
		subscriptionRepo: subscriptionRepo,
		webhookEventRepo: webhookEventRepo,
	}
}

// VerifyWebhookSignature checks the HMAC-SHA256 hex signature over the raw
// payload. A missing secret fails closed.
func VerifyWebhookSignature(payload []byte, signatureHeader, signingSecret string) bool {
	sig := strings.TrimSpace(signatureHeader)
	secret := strings.TrimSpace(signingSecret)
	if sig == "" || secret == "" {
		return false
	}

	decodedSig, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), decodedSig)
}

func (s *billingServiceImpl) HandleWebhook(ctx context.Context, signature string, body []byte) (*WebhookResult, error) {
	if !VerifyWebhookSignature(body, signature, s.cfg.SigningSecret) {
		return nil, fmt.Errorf("%w: webhook signature mismatch", ErrUnauthorized)
	}

	var event model.LemonSqueezyWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: decode webhook payload: %v", ErrValidation, err)
	}

	eventName := event.Meta.EventName
	if !isSubscriptionEvent(eventName) {
		return &WebhookResult{Ignored: true}, nil
	}

	tenantID, err := s.resolveTenant(ctx, &event)
	if err != nil {
		return nil, err
	}

	eventID := syntheticEventID(&event)
	result := &WebhookResult{}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The idempotency insert happens before any subscription mutation
		// and in the same transaction, so a failed apply rolls the log row
		// back and the provider's retry re-enters cleanly.
		if err := s.webhookEventRepo.MarkProcessed(tx, eventID, eventName); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errAlreadyProcessed
			}
			return fmt.Errorf("store webhook event: %w", err)
		}

		if tenantID == "" {
			// Cannot safely apply; the event stays logged so a redelivery
			// is dropped as a duplicate.
			result.Ignored = true
			return nil
		}

		return s.applySubscriptionEvent(ctx, tx, tenantID, &event)
	})
	if errors.Is(err, errAlreadyProcessed) {
		return &WebhookResult{Duplicate: true}, nil
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *billingServiceImpl) resolveTenant(ctx context.Context, event *model.LemonSqueezyWebhookEvent) (string, error) {
	if tenantID := strings.TrimSpace(event.Meta.CustomData.TenantID); tenantID != "" {
		return tenantID, nil
	}

	sub, err := s.subscriptionRepo.FindByProviderSubscriptionID(ctx, event.Data.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("lookup subscription by provider id: %w", err)
	}
	return sub.TenantID, nil
}

func (s *billingServiceImpl) applySubscriptionEvent(ctx context.Context, tx *gorm.DB, tenantID string, event *model.LemonSqueezyWebhookEvent) error {
	attrs := &event.Data.Attributes
	now := time.Now()

	updates := map[string]interface{}{
		"provider_subscription_id": event.Data.ID,
		"provider_customer_id":     fmt.Sprint(attrs.CustomerID),
		"provider_product_id":      fmt.Sprint(attrs.ProductID),
		"provider_variant_id":      fmt.Sprint(attrs.VariantID),
		"updated_at":               now,
	}
	if planCode := s.resolvePlanCode(event); planCode != "" {
		updates["plan_code"] = planCode
	}
	if start := bestPeriodStart(attrs); start != nil {
		updates["current_period_start"] = start
	}
	if end := parseProviderTime(attrs.RenewsAt); end != nil {
		updates["current_period_end"] = end
	}

	switch event.Meta.EventName {
	case "subscription_cancelled":
		updates["status"] = model.SubscriptionStatusCanceled
		updates["canceled_at"] = timeOrNow(parseProviderTime(attrs.EndsAt), now)
	case "subscription_expired":
		updates["status"] = model.SubscriptionStatusExpired
		updates["expired_at"] = timeOrNow(parseProviderTime(attrs.EndsAt), now)
	default:
		// created/updated/resumed/unpaused: reactivation clears the
		// lifecycle markers.
		updates["status"] = MapProviderStatus(attrs.Status)
		updates["canceled_at"] = nil
		updates["expired_at"] = nil
	}

	hit, err := s.subscriptionRepo.UpdateByTenant(ctx, tx, tenantID, updates)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	if hit {
		return nil
	}

	sub := &model.Subscription{
		ID:                     uuid.NewString(),
		TenantID:               tenantID,
		PlanCode:               s.resolvePlanCode(event),
		Status:                 updates["status"].(string),
		ProviderSubscriptionID: event.Data.ID,
		ProviderCustomerID:     fmt.Sprint(attrs.CustomerID),
		ProviderProductID:      fmt.Sprint(attrs.ProductID),
		ProviderVariantID:      fmt.Sprint(attrs.VariantID),
		CurrentPeriodStart:     bestPeriodStart(attrs),
		CurrentPeriodEnd:       parseProviderTime(attrs.RenewsAt),
	}
	if canceledAt, ok := updates["canceled_at"].(time.Time); ok {
		sub.CanceledAt = &canceledAt
	}
	if expiredAt, ok := updates["expired_at"].(time.Time); ok {
		sub.ExpiredAt = &expiredAt
	}

	// The unique index on tenant_id rejects a concurrent duplicate insert;
	// the provider's retry lands on the update path.
	if err := s.subscriptionRepo.Create(ctx, tx, sub); err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

func (s *billingServiceImpl) resolvePlanCode(event *model.LemonSqueezyWebhookEvent) string {
	if planCode := strings.TrimSpace(event.Meta.CustomData.PlanCode); planCode != "" {
		return planCode
	}
	return s.cfg.PlanForProduct(fmt.Sprint(event.Data.Attributes.ProductID))
}

func (s *billingServiceImpl) CreateCheckoutSession(ctx context.Context, tenantID, userID, planCode string) (string, error) {
	variantID := s.cfg.VariantForPlan(planCode)
	if variantID == "" {
		return "", fmt.Errorf("%w: unknown plan code %q", ErrValidation, planCode)
	}

	resp, err := s.lsClient.CreateCheckout(ctx, &client.CreateCheckoutRequest{
		VariantID: variantID,
		TenantID:  tenantID,
		PlanCode:  planCode,
		UserID:    userID,
	})
	if err != nil {
		return "", fmt.Errorf("create checkout: %w", err)
	}

	return resp.CheckoutURL, nil
}

func (s *billingServiceImpl) GetSubscription(ctx context.Context, tenantID string) (*model.Subscription, error) {
	return s.subscriptionRepo.FindByTenant(ctx, tenantID)
}

// MapProviderStatus maps the provider's subscription status to the internal
// one. Unrecognized statuses default to active.
func MapProviderStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "on_trial":
		return model.SubscriptionStatusTrialing
	case "active", "paused":
		return model.SubscriptionStatusActive
	case "past_due", "unpaid":
		return model.SubscriptionStatusPastDue
	case "cancelled":
		return model.SubscriptionStatusCanceled
	case "expired":
		return model.SubscriptionStatusExpired
	default:
		return model.SubscriptionStatusActive
	}
}

func isSubscriptionEvent(eventName string) bool {
	switch eventName {
	case "subscription_created", "subscription_updated", "subscription_resumed",
		"subscription_unpaused", "subscription_cancelled", "subscription_expired":
		return true
	default:
		return false
	}
}

// syntheticEventID builds the idempotency key from the event name, the
// provider resource id and the event's own best-available timestamp.
func syntheticEventID(event *model.LemonSqueezyWebhookEvent) string {
	ts := event.Data.Attributes.UpdatedAt
	if ts == "" {
		ts = event.Data.Attributes.CreatedAt
	}
	return fmt.Sprintf("%s:%s:%s", event.Meta.EventName, event.Data.ID, ts)
}

func bestPeriodStart(attrs *model.LemonSqueezyAttributes) *time.Time {
	if t := parseProviderTime(attrs.UpdatedAt); t != nil {
		return t
	}
	return parseProviderTime(attrs.CreatedAt)
}

func parseProviderTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	return &t
}

func timeOrNow(t *time.Time, now time.Time) time.Time {
	if t != nil {
		return *t
	}
	return now
}
