package dto

type VaultSetupRequest struct {
	CustomerID string `json:"customer_id"`
	InvoiceID  string `json:"invoice_id"`
	IsSignup   bool   `json:"is_signup"`
}

type ChargeRequest struct {
	CustomerID string `json:"customer_id"`
	InvoiceID  string `json:"invoice_id"`
	IsSignup   bool   `json:"is_signup"`
}

type ChargeResponse struct {
	InvoiceID     string `json:"invoice_id"`
	TransactionID string `json:"transaction_id,omitempty"`
	Status        string `json:"status,omitempty"`
	ApprovalURL   string `json:"approval_url,omitempty"`
}

type RefundRequest struct {
	CaptureID string   `json:"capture_id"`
	Amount    *float64 `json:"amount,omitempty"`
	Currency  string   `json:"currency,omitempty"`
}

type RefundResponse struct {
	RefundID string `json:"refund_id"`
	Status   string `json:"status"`
	Amount   string `json:"amount,omitempty"`
}
