package model

type PaypalLink struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

type Amount struct {
	Currency string `json:"currency_code"`
	Value    string `json:"value"`
}

// --- setup token ---

type ExperienceContext struct {
	ShippingPreference      string `json:"shipping_preference"`
	PaymentMethodPreference string `json:"payment_method_preference"`
	BrandName               string `json:"brand_name,omitempty"`
	ReturnURL               string `json:"return_url"`
	CancelURL               string `json:"cancel_url"`
}

type PaypalSource struct {
	Description                 string            `json:"description,omitempty"`
	PermitMultiplePaymentTokens bool              `json:"permit_multiple_payment_tokens"`
	UsagePattern                string            `json:"usage_pattern,omitempty"`
	UsageType                   string            `json:"usage_type,omitempty"`
	CustomerType                string            `json:"customer_type,omitempty"`
	ExperienceContext           ExperienceContext `json:"experience_context"`
}

type SetupTokenRequest struct {
	Customer      Customer           `json:"customer"`
	PaymentSource SetupPaymentSource `json:"payment_source"`
}

type Customer struct {
	ID string `json:"id"`
}

type SetupPaymentSource struct {
	Paypal PaypalSource `json:"paypal"`
}

type SetupTokenResponse struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Links  []PaypalLink `json:"links"`
}

// --- payment token exchange ---

type TokenReference struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type PaymentTokenRequest struct {
	PaymentSource TokenPaymentSource `json:"payment_source"`
}

type TokenPaymentSource struct {
	Token TokenReference `json:"token"`
}

type PaymentTokenResponse struct {
	ID       string       `json:"id"`
	Customer Customer     `json:"customer"`
	Links    []PaypalLink `json:"links"`
}

// --- orders ---

type PurchaseUnitRequest struct {
	ReferenceID string `json:"reference_id,omitempty"`
	Amount      Amount `json:"amount"`
}

type VaultPaymentSource struct {
	Paypal VaultReference `json:"paypal"`
}

type VaultReference struct {
	VaultID string `json:"vault_id"`
}

type OrderRequest struct {
	Intent        string                `json:"intent"`
	PurchaseUnits []PurchaseUnitRequest `json:"purchase_units"`
	PaymentSource *VaultPaymentSource   `json:"payment_source,omitempty"`
}

type Capture struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount Amount `json:"amount"`
}

type Payments struct {
	Captures []Capture `json:"captures"`
}

type PurchaseUnit struct {
	ReferenceID string   `json:"reference_id"`
	Payments    Payments `json:"payments"`
}

type OrderResponse struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units"`
	Links         []PaypalLink   `json:"links"`
}

// --- refunds ---

type RefundRequest struct {
	Amount *Amount `json:"amount,omitempty"`
}

type RefundResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
