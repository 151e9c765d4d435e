package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"taqsit/internal/config"
	"time"
)

type LemonSqueezyClient interface {
	CreateCheckout(ctx context.Context, req *CreateCheckoutRequest) (*CreateCheckoutResponse, error)
}

type lemonSqueezyClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	apiKey     string
	storeID    string
}

type CreateCheckoutRequest struct {
	VariantID string
	// Opaque metadata echoed back in webhook custom_data for correlation.
	TenantID string
	PlanCode string
	UserID   string
}

type CreateCheckoutResponse struct {
	CheckoutID  string
	CheckoutURL string
}

type lsCheckoutResult struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			URL string `json:"url"`
		} `json:"attributes"`
	} `json:"data"`
}

func NewLemonSqueezyClient(cfg *config.LemonSqueezy) LemonSqueezyClient {
	return &lemonSqueezyClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: cfg.BaseApiURL,
		apiKey:     cfg.APIKey,
		storeID:    cfg.StoreID,
	}
}

func (c *lemonSqueezyClientImpl) CreateCheckout(ctx context.Context, checkout *CreateCheckoutRequest) (*CreateCheckoutResponse, error) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"type": "checkouts",
			"attributes": map[string]interface{}{
				"checkout_data": map[string]interface{}{
					"custom": map[string]string{
						"tenant_id": checkout.TenantID,
						"plan_code": checkout.PlanCode,
						"user_id":   checkout.UserID,
					},
				},
			},
			"relationships": map[string]interface{}{
				"store": map[string]interface{}{
					"data": map[string]string{"type": "stores", "id": c.storeID},
				},
				"variant": map[string]interface{}{
					"data": map[string]string{"type": "variants", "id": checkout.VariantID},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal checkout payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/v1/checkouts",
		bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/vnd.api+json")
	req.Header.Set("Content-Type", "application/vnd.api+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lemonsqueezy checkout request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("lemonsqueezy error %d: %s", resp.StatusCode, string(b))
	}

	var result lsCheckoutResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode lemonsqueezy response: %w", err)
	}

	return &CreateCheckoutResponse{
		CheckoutID:  result.Data.ID,
		CheckoutURL: result.Data.Attributes.URL,
	}, nil
}
