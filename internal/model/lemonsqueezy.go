package model

// Lemon Squeezy webhook envelope. Only the fields the reconciliation flow
// reads are mapped; everything else in the payload is ignored.

type LemonSqueezyCustomData struct {
	TenantID string `json:"tenant_id"`
	PlanCode string `json:"plan_code"`
	UserID   string `json:"user_id"`
}

type LemonSqueezyMeta struct {
	EventName  string                 `json:"event_name"`
	CustomData LemonSqueezyCustomData `json:"custom_data"`
}

type LemonSqueezyAttributes struct {
	StoreID    int64  `json:"store_id"`
	CustomerID int64  `json:"customer_id"`
	ProductID  int64  `json:"product_id"`
	VariantID  int64  `json:"variant_id"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
	RenewsAt   string `json:"renews_at"`
	EndsAt     string `json:"ends_at"`
}

type LemonSqueezyData struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Attributes LemonSqueezyAttributes `json:"attributes"`
}

type LemonSqueezyWebhookEvent struct {
	Meta LemonSqueezyMeta `json:"meta"`
	Data LemonSqueezyData `json:"data"`
}
