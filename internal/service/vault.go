package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"paypal-vault-gateway/internal/client"
	"paypal-vault-gateway/internal/config"
	"paypal-vault-gateway/internal/model"
	"paypal-vault-gateway/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ChargeResult is the outcome of a vaulted charge or explicit capture. The
// transaction id is the capture id when the order response embeds one, else
// the order id.
type ChargeResult struct {
	TransactionID string
	Status        string
}

type RefundResult struct {
	RefundID string
	Status   string
	Amount   string
}

// PayOutcome is either a completed charge or, when the customer has no stored
// token yet, the PayPal approval URL they must be sent to first.
type PayOutcome struct {
	ApprovalURL string
	Charge      *ChargeResult
	InvoiceID   string
}

type VaultService interface {
	CreateSetupToken(ctx context.Context, customerID, returnURL, cancelURL string) (string, error)
	StartVaultSetup(ctx context.Context, customerID, invoiceID string, isSignup bool) (string, error)
	ExchangeSetupToken(ctx context.Context, setupTokenID string) (string, error)
	ChargeWithVault(ctx context.Context, vaultID string, amount float64, currency, referenceID string) (*ChargeResult, error)
	CaptureOrder(ctx context.Context, orderID string) (*ChargeResult, error)
	Refund(ctx context.Context, captureID string, amount *float64, currency string) (*RefundResult, error)
	PayInvoice(ctx context.Context, customerID, invoiceID string, isSignup bool) (*PayOutcome, error)
	HandleReturn(ctx context.Context, params CallbackParams) (string, error)
	RemoveCustomerVault(ctx context.Context, customerID string) (string, error)
	HasStoredPayment(ctx context.Context, customerID string) (bool, error)
}

type vaultServiceImpl struct {
	cfg          *config.Config
	paypalClient client.PaypalClient
	vaultRepo    repository.VaultRepository
	invoiceRepo  repository.InvoiceRepository
	eventLogRepo repository.EventLogRepository
	logger       zerolog.Logger
}

func NewVaultService(
	cfg *config.Config,
	paypalClient client.PaypalClient,
	vaultRepo repository.VaultRepository,
	invoiceRepo repository.InvoiceRepository,
	eventLogRepo repository.EventLogRepository,
	logger zerolog.Logger,
) VaultService {
	return &vaultServiceImpl{
		cfg:          cfg,
		paypalClient: paypalClient,
		vaultRepo:    vaultRepo,
		invoiceRepo:  invoiceRepo,
		eventLogRepo: eventLogRepo,
		logger:       logger,
	}
}

// formatAmount renders a charge/refund amount with exactly two decimal places,
// rounding half away from zero, e.g. 19.999 -> "20.00".
func formatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).Round(2).StringFixed(2)
}

func (s *vaultServiceImpl) CreateSetupToken(ctx context.Context, customerID, returnURL, cancelURL string) (string, error) {
	brandName := s.cfg.ResolveBrandName()

	req := &model.SetupTokenRequest{
		Customer: model.Customer{ID: customerID},
		PaymentSource: model.SetupPaymentSource{
			Paypal: model.PaypalSource{
				Description:                 brandName + " Billing Authorization",
				PermitMultiplePaymentTokens: false,
				UsagePattern:                "DEFERRED",
				UsageType:                   "MERCHANT",
				CustomerType:                "CONSUMER",
				ExperienceContext: model.ExperienceContext{
					ShippingPreference:      "NO_SHIPPING",
					PaymentMethodPreference: "IMMEDIATE_PAYMENT_REQUIRED",
					BrandName:               brandName,
					ReturnURL:               returnURL,
					CancelURL:               cancelURL,
				},
			},
		},
	}

	setup, err := s.paypalClient.CreateSetupToken(ctx, req)
	if err != nil {
		return "", fmt.Errorf("paypal create setup token: %w", err)
	}

	if len(setup.Links) == 0 {
		return "", &VaultSetupError{Reason: "setup token response has no links"}
	}

	for _, link := range setup.Links {
		if link.Rel == "approve" && link.Href != "" {
			return link.Href, nil
		}
	}

	return "", &VaultSetupError{Reason: "no approval link in setup token response"}
}

func (s *vaultServiceImpl) ExchangeSetupToken(ctx context.Context, setupTokenID string) (string, error) {
	token, err := s.paypalClient.CreatePaymentToken(ctx, setupTokenID)
	if err != nil {
		return "", fmt.Errorf("paypal exchange setup token: %w", err)
	}

	if token.ID == "" {
		return "", &VaultExchangeError{Reason: "payment token response has no token id"}
	}

	return token.ID, nil
}

func (s *vaultServiceImpl) ChargeWithVault(ctx context.Context, vaultID string, amount float64, currency, referenceID string) (*ChargeResult, error) {
	if vaultID == "" {
		return nil, ErrNoVaultToken
	}

	value := formatAmount(amount)
	s.logger.Info().
		Str("vault_id", vaultID).
		Str("reference_id", referenceID).
		Str("amount", value).
		Str("currency", currency).
		Msg("creating vaulted order")

	req := &model.OrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []model.PurchaseUnitRequest{
			{
				ReferenceID: referenceID,
				Amount: model.Amount{
					Currency: currency,
					Value:    value,
				},
			},
		},
		PaymentSource: &model.VaultPaymentSource{
			Paypal: model.VaultReference{VaultID: vaultID},
		},
	}

	order, err := s.paypalClient.CreateVaultOrder(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("paypal create order with vault: %w", err)
	}

	return evaluateOrder(order)
}

func (s *vaultServiceImpl) CaptureOrder(ctx context.Context, orderID string) (*ChargeResult, error) {
	order, err := s.paypalClient.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("paypal capture order: %w", err)
	}

	return evaluateOrder(order)
}

// evaluateOrder resolves the transaction id and status of an order response.
// A nested capture wins; otherwise the order id and order-level status stand
// in. Anything other than COMPLETED is a failure.
func evaluateOrder(order *model.OrderResponse) (*ChargeResult, error) {
	if order.ID == "" {
		return nil, fmt.Errorf("paypal order response has no id")
	}

	transactionID := order.ID
	status := order.Status

	if len(order.PurchaseUnits) > 0 && len(order.PurchaseUnits[0].Payments.Captures) > 0 {
		capture := order.PurchaseUnits[0].Payments.Captures[0]
		if capture.ID != "" {
			transactionID = capture.ID
			status = capture.Status
		}
	}

	if !strings.EqualFold(status, "COMPLETED") {
		return nil, &ChargeNotCompletedError{Status: status}
	}

	return &ChargeResult{
		TransactionID: transactionID,
		Status:        status,
	}, nil
}

func (s *vaultServiceImpl) Refund(ctx context.Context, captureID string, amount *float64, currency string) (*RefundResult, error) {
	if captureID == "" {
		return nil, ErrMissingCaptureID
	}

	// No amount means a full refund; the request body is omitted entirely.
	req := &model.RefundRequest{}
	formatted := ""
	if amount != nil {
		formatted = formatAmount(*amount)
		req.Amount = &model.Amount{
			Currency: s.cfg.ResolveCurrency(currency),
			Value:    formatted,
		}
	}

	resp, err := s.paypalClient.RefundCapture(ctx, captureID, req)
	if err != nil {
		return nil, fmt.Errorf("paypal refund capture: %w", err)
	}

	if resp.Status == "" {
		return nil, &RefundError{Reason: "unexpected refund response, no status"}
	}
	if !strings.EqualFold(resp.Status, "COMPLETED") {
		return nil, &RefundError{Status: resp.Status}
	}

	return &RefundResult{
		RefundID: resp.ID,
		Status:   resp.Status,
		Amount:   formatted,
	}, nil
}

// PayInvoice charges an invoice against the customer's stored vault token. A
// customer with no stored token gets an approval URL to complete vaulting
// first; the callback finishes the charge.
func (s *vaultServiceImpl) PayInvoice(ctx context.Context, customerID, invoiceID string, isSignup bool) (*PayOutcome, error) {
	invoice, err := s.invoiceRepo.Find(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("load invoice %s: %w", invoiceID, err)
	}

	vaultID, err := s.vaultRepo.Get(ctx, customerID, s.cfg.Billing.IntegrationKey)
	if err != nil {
		if err != repository.ErrTokenNotFound {
			return nil, fmt.Errorf("load vault token: %w", err)
		}

		approvalURL, err := s.StartVaultSetup(ctx, customerID, invoiceID, isSignup)
		if err != nil {
			return nil, err
		}

		return &PayOutcome{ApprovalURL: approvalURL, InvoiceID: invoiceID}, nil
	}

	result, err := s.chargeInvoice(ctx, vaultID, invoice)
	if err != nil {
		return nil, err
	}

	return &PayOutcome{Charge: result, InvoiceID: invoiceID}, nil
}

func (s *vaultServiceImpl) chargeInvoice(ctx context.Context, vaultID string, invoice *model.Invoice) (*ChargeResult, error) {
	currency := s.cfg.ResolveCurrency(invoice.Currency)

	result, err := s.ChargeWithVault(ctx, vaultID, invoice.BalanceDue, currency, invoice.InvoiceID)
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.MarkPaid(ctx, invoice.InvoiceID, result.TransactionID); err != nil {
		return nil, fmt.Errorf("mark invoice %s paid: %w", invoice.InvoiceID, err)
	}

	s.logger.Info().
		Str("invoice_id", invoice.InvoiceID).
		Str("transaction_id", result.TransactionID).
		Msg("vaulted payment accepted")

	return result, nil
}

// StartVaultSetup begins a vaulting attempt and returns the PayPal approval
// URL the payer must visit. The callback URL carries the customer id plus any
// pending invoice so the return can finish the whole flow.
func (s *vaultServiceImpl) StartVaultSetup(ctx context.Context, customerID, invoiceID string, isSignup bool) (string, error) {
	cancelURL := s.paymentMethodsURL()
	if invoiceID != "" {
		cancelURL = s.invoiceViewURL(invoiceID, false)
	}

	return s.CreateSetupToken(ctx, customerID, s.callbackURL(customerID, invoiceID, isSignup), cancelURL)
}

func (s *vaultServiceImpl) RemoveCustomerVault(ctx context.Context, customerID string) (string, error) {
	previous, err := s.vaultRepo.Remove(ctx, customerID, s.cfg.Billing.IntegrationKey)
	if err != nil {
		if err == repository.ErrTokenNotFound {
			return "", nil
		}
		return "", fmt.Errorf("remove vault token: %w", err)
	}

	err = s.eventLogRepo.Append(ctx, customerID, "billing_profile_removed",
		fmt.Sprintf("removed %s payment token %s", s.cfg.Billing.IntegrationKey, previous))
	if err != nil {
		s.logger.Warn().Err(err).Str("customer_id", customerID).Msg("append removal event log")
	}

	return previous, nil
}

func (s *vaultServiceImpl) HasStoredPayment(ctx context.Context, customerID string) (bool, error) {
	vaultID, err := s.vaultRepo.Get(ctx, customerID, s.cfg.Billing.IntegrationKey)
	if err != nil {
		if err == repository.ErrTokenNotFound {
			return false, nil
		}
		return false, err
	}

	return vaultID != "", nil
}

// callbackURL is where PayPal sends the payer after setup-token approval. It
// carries everything the callback needs to finish the flow.
func (s *vaultServiceImpl) callbackURL(customerID, invoiceID string, isSignup bool) string {
	query := url.Values{}
	query.Set("clientId", customerID)
	if invoiceID != "" {
		query.Set("invoiceId", invoiceID)
	}
	if isSignup {
		query.Set("isSignup", "1")
	}

	return strings.TrimRight(s.cfg.BaseURL, "/") + "/api/paypal/vault/callback?" + query.Encode()
}

func (s *vaultServiceImpl) invoiceViewURL(invoiceID string, paid bool) string {
	u := strings.TrimRight(s.cfg.BaseURL, "/") + "/invoices/" + url.PathEscape(invoiceID)
	if paid {
		u += "?paid=1"
	}
	return u
}

func (s *vaultServiceImpl) paymentMethodsURL() string {
	return strings.TrimRight(s.cfg.BaseURL, "/") + "/account/payment-methods"
}

func (s *vaultServiceImpl) signupCompletionURL() string {
	if s.cfg.Billing.SignupCompletionURL != "" {
		return s.cfg.Billing.SignupCompletionURL + "?success=1"
	}
	return strings.TrimRight(s.cfg.BaseURL, "/") + "/signup/complete"
}
