package config

type Config struct {
	Environment Environment
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	DatabaseURL string `env:"DATABASE_URL"`

	LemonSqueezy LemonSqueezy `envPrefix:"LEMONSQUEEZY_"`
}

type LemonSqueezy struct {
	BaseApiURL    string `env:"BASE_API_URL" envDefault:"https://api.lemonsqueezy.com"`
	APIKey        string `env:"API_KEY"`
	StoreID       string `env:"STORE_ID"`
	SigningSecret string `env:"SIGNING_SECRET"`

	// Checkout plan catalog: provider product/variant ids per internal plan code.
	StarterProductID string `env:"STARTER_PRODUCT_ID"`
	StarterVariantID string `env:"STARTER_VARIANT_ID"`
	ProProductID     string `env:"PRO_PRODUCT_ID"`
	ProVariantID     string `env:"PRO_VARIANT_ID"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

const (
	PlanCodeStarter = "starter"
	PlanCodePro     = "pro"
)

// VariantForPlan resolves the provider variant id used at checkout for an
// internal plan code. Empty when the plan code is unknown or unconfigured.
func (c *LemonSqueezy) VariantForPlan(planCode string) string {
	switch planCode {
	case PlanCodeStarter:
		return c.StarterVariantID
	case PlanCodePro:
		return c.ProVariantID
	default:
		return ""
	}
}

// PlanForProduct maps a provider product id back to an internal plan code.
// Used when a webhook carries no plan code in its custom data.
func (c *LemonSqueezy) PlanForProduct(productID string) string {
	switch productID {
	case c.StarterProductID:
		return PlanCodeStarter
	case c.ProProductID:
		return PlanCodePro
	default:
		return ""
	}
}
