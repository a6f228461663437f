package service

import (
	"context"
	"fmt"
)

// CallbackParams are the query parameters PayPal appends to the vault return
// URL, plus the ones the gateway put there itself when starting setup.
type CallbackParams struct {
	SetupTokenID string
	ClientID     string
	InvoiceID    string
	IsSignup     bool
}

// HandleReturn completes a vaulting attempt: exchange the approved setup token
// for a payment token, persist it for the customer, settle any pending invoice,
// and pick the single redirect target for the payer. The boundary layer
// performs the actual HTTP redirect.
func (s *vaultServiceImpl) HandleReturn(ctx context.Context, params CallbackParams) (string, error) {
	if params.SetupTokenID == "" {
		return "", ErrMissingSetupToken
	}

	tokenID, err := s.ExchangeSetupToken(ctx, params.SetupTokenID)
	if err != nil {
		return "", err
	}

	if params.ClientID == "" {
		return "", ErrMissingClient
	}

	if err := s.vaultRepo.Set(ctx, params.ClientID, s.cfg.Billing.IntegrationKey, tokenID); err != nil {
		return "", fmt.Errorf("persist vault token: %w", err)
	}

	s.logger.Info().
		Str("customer_id", params.ClientID).
		Msg("vault token stored")

	if params.InvoiceID == "" {
		return s.paymentMethodsURL(), nil
	}

	invoice, err := s.invoiceRepo.Find(ctx, params.InvoiceID)
	if err != nil {
		return "", fmt.Errorf("load invoice %s: %w", params.InvoiceID, err)
	}

	if _, err := s.chargeInvoice(ctx, tokenID, invoice); err != nil {
		return "", err
	}

	if params.IsSignup {
		return s.signupCompletionURL(), nil
	}

	return s.invoiceViewURL(params.InvoiceID, true), nil
}
