package handler

import (
	"errors"
	"net/http"

	"paypal-vault-gateway/internal/client"
	"paypal-vault-gateway/internal/dto"
	"paypal-vault-gateway/internal/repository"
	"paypal-vault-gateway/internal/service"

	"github.com/labstack/echo/v4"
)

type VaultHandler struct {
	vaultService service.VaultService
}

func NewVaultHandler(vaultService service.VaultService) *VaultHandler {
	return &VaultHandler{
		vaultService: vaultService,
	}
}

// StartVaultSetup sends the payer to PayPal to approve storing their payment
// method. Browser-facing: failures surface as an error page, never a silent
// redirect.
func (h *VaultHandler) StartVaultSetup(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.VaultSetupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.CustomerID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing customer_id")
	}

	approvalURL, err := h.vaultService.StartVaultSetup(ctx, req.CustomerID, req.InvoiceID, req.IsSignup)
	if err != nil {
		return mapServiceError(err)
	}

	return c.Redirect(http.StatusFound, approvalURL)
}

// VaultCallback consumes the payer's return from PayPal. PayPal sends the
// setup token as approval_token_id; token is accepted as a fallback.
func (h *VaultHandler) VaultCallback(c echo.Context) error {
	ctx := c.Request().Context()

	setupTokenID := c.QueryParam("approval_token_id")
	if setupTokenID == "" {
		setupTokenID = c.QueryParam("token")
	}

	target, err := h.vaultService.HandleReturn(ctx, service.CallbackParams{
		SetupTokenID: setupTokenID,
		ClientID:     c.QueryParam("clientId"),
		InvoiceID:    c.QueryParam("invoiceId"),
		IsSignup:     c.QueryParam("isSignup") == "1",
	})
	if err != nil {
		return mapServiceError(err)
	}

	return c.Redirect(http.StatusFound, target)
}

func (h *VaultHandler) Charge(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ChargeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.CustomerID == "" || req.InvoiceID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing customer_id or invoice_id")
	}

	outcome, err := h.vaultService.PayInvoice(ctx, req.CustomerID, req.InvoiceID, req.IsSignup)
	if err != nil {
		return mapServiceError(err)
	}

	resp := &dto.ChargeResponse{
		InvoiceID:   outcome.InvoiceID,
		ApprovalURL: outcome.ApprovalURL,
	}
	if outcome.Charge != nil {
		resp.TransactionID = outcome.Charge.TransactionID
		resp.Status = outcome.Charge.Status
	}

	return c.JSON(http.StatusOK, resp)
}

// CaptureOrder performs an explicit capture. Vaulted orders capture
// automatically, so this only serves orders created elsewhere.
func (h *VaultHandler) CaptureOrder(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.vaultService.CaptureOrder(ctx, c.Param("orderID"))
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, &dto.ChargeResponse{
		TransactionID: result.TransactionID,
		Status:        result.Status,
	})
}

func (h *VaultHandler) Refund(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RefundRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.vaultService.Refund(ctx, req.CaptureID, req.Amount, req.Currency)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, &dto.RefundResponse{
		RefundID: result.RefundID,
		Status:   result.Status,
		Amount:   result.Amount,
	})
}

func (h *VaultHandler) VaultStatus(c echo.Context) error {
	ctx := c.Request().Context()

	hasStored, err := h.vaultService.HasStoredPayment(ctx, c.Param("customerID"))
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, map[string]bool{
		"has_stored_payment": hasStored,
	})
}

// RemoveVault drops the stored token for a customer, e.g. on deletion or a
// status change to inactive, cancelled or fraud.
func (h *VaultHandler) RemoveVault(c echo.Context) error {
	ctx := c.Request().Context()

	removed, err := h.vaultService.RemoveCustomerVault(ctx, c.Param("customerID"))
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"removed_token_id": removed,
	})
}

// mapServiceError translates the service/client error taxonomy into HTTP
// responses: malformed input 400, missing records 404, business declines 402,
// upstream PayPal trouble 502.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, service.ErrMissingSetupToken),
		errors.Is(err, service.ErrMissingClient),
		errors.Is(err, service.ErrMissingCaptureID),
		errors.Is(err, service.ErrNoVaultToken):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrInvoiceNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	var chargeErr *service.ChargeNotCompletedError
	var refundErr *service.RefundError
	if errors.As(err, &chargeErr) || errors.As(err, &refundErr) {
		return echo.NewHTTPError(http.StatusPaymentRequired, err.Error())
	}

	var setupErr *service.VaultSetupError
	var exchangeErr *service.VaultExchangeError
	var apiErr *client.APIError
	var authErr *client.AuthError
	var transportErr *client.TransportError
	if errors.As(err, &setupErr) || errors.As(err, &exchangeErr) ||
		errors.As(err, &apiErr) || errors.As(err, &authErr) || errors.As(err, &transportErr) {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	return err
}
