package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`

	Database Database `envPrefix:"DATABASE_"`
	Paypal   Paypal   `envPrefix:"PAYPAL_"`
	Billing  Billing  `envPrefix:"BILLING_"`
}

type Paypal struct {
	// BaseAPIURL overrides the host derived from Sandbox. Used in dev and tests.
	BaseAPIURL   string `env:"BASE_API_URL"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	Sandbox      bool   `env:"SANDBOX" envDefault:"false"`
	BrandName    string `env:"BRAND_NAME"`
}

type Billing struct {
	CompanyName         string `env:"COMPANY_NAME"`
	SignupCompletionURL string `env:"SIGNUP_COMPLETION_URL"`
	DefaultCurrency     string `env:"DEFAULT_CURRENCY" envDefault:"USD"`
	// IntegrationKey namespaces stored vault tokens per gateway integration.
	IntegrationKey string `env:"INTEGRATION_KEY" envDefault:"paypalvault"`
}

type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"` // sqlite, mysql
	DSN    string `env:"DSN" envDefault:"gateway.db"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

// ResolveBrandName returns the brand shown in the PayPal approval experience,
// falling back to the configured company name.
func (c *Config) ResolveBrandName() string {
	if c.Paypal.BrandName != "" {
		return c.Paypal.BrandName
	}
	return c.Billing.CompanyName
}

// ResolveCurrency picks the first non-empty candidate, ending at the configured default.
func (c *Config) ResolveCurrency(candidates ...string) string {
	for _, cur := range candidates {
		if cur != "" {
			return cur
		}
	}
	if c.Billing.DefaultCurrency != "" {
		return c.Billing.DefaultCurrency
	}
	return "USD"
}
