package service

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSetupToken means the PayPal return carried no setup token.
	ErrMissingSetupToken = errors.New("missing paypal setup token in return")

	// ErrMissingClient means the PayPal return carried no client identifier.
	ErrMissingClient = errors.New("missing client id in return")

	// ErrNoVaultToken means a charge was attempted without a resolved vault id.
	ErrNoVaultToken = errors.New("no vaulted payment method")

	// ErrMissingCaptureID means a refund was attempted without a capture id.
	ErrMissingCaptureID = errors.New("missing paypal capture id for refund")
)

// VaultSetupError means a setup-token response lacked the expected approval link.
type VaultSetupError struct {
	Reason string
}

func (e *VaultSetupError) Error() string {
	return "paypal vault setup: " + e.Reason
}

// VaultExchangeError means a payment-token exchange returned no usable token.
type VaultExchangeError struct {
	Reason string
}

func (e *VaultExchangeError) Error() string {
	return "paypal vault exchange: " + e.Reason
}

// ChargeNotCompletedError carries the order/capture status PayPal reported
// instead of COMPLETED. PENDING is treated as failure, not as a state to poll.
type ChargeNotCompletedError struct {
	Status string
}

func (e *ChargeNotCompletedError) Error() string {
	return fmt.Sprintf("paypal charge did not complete, status: %s", e.Status)
}

// RefundError means a refund response had no status or a non-COMPLETED status.
type RefundError struct {
	Status string
	Reason string
}

func (e *RefundError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("paypal refund not completed, status: %s", e.Status)
	}
	return "paypal refund: " + e.Reason
}
