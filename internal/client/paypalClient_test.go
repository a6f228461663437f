package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"paypal-vault-gateway/internal/client"
	"paypal-vault-gateway/internal/config"
	"paypal-vault-gateway/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePaypal stands in for the PayPal REST API. It always grants an OAuth
// token and dispatches everything else to handle.
type fakePaypal struct {
	mu       sync.Mutex
	requests []recordedRequest
	handle   func(w http.ResponseWriter, r *http.Request, body []byte)
}

type recordedRequest struct {
	path          string
	authorization string
	requestID     string
	body          []byte
}

func (f *fakePaypal) server(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		if r.URL.Path == "/v1/oauth2/token" {
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok, "oauth request must use basic auth")
			assert.Equal(t, "client-id", user)
			assert.Equal(t, "client-secret", pass)
			assert.Equal(t, "grant_type=client_credentials", string(body))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"test-access-token","token_type":"Bearer"}`))
			return
		}

		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{
			path:          r.URL.Path,
			authorization: r.Header.Get("Authorization"),
			requestID:     r.Header.Get("PayPal-Request-Id"),
			body:          body,
		})
		f.mu.Unlock()

		f.handle(w, r, body)
	}))
}

func (f *fakePaypal) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func newTestClient(baseURL string) client.PaypalClient {
	return client.NewPaypalClient(&config.Paypal{
		BaseAPIURL:   baseURL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	}, zerolog.Nop())
}

func TestPaypalClient_CreateSetupToken(t *testing.T) {
	fake := &fakePaypal{handle: func(w http.ResponseWriter, r *http.Request, body []byte) {
		assert.Equal(t, "/v3/vault/setup-tokens", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"ST1","status":"CREATED","links":[{"rel":"self","href":"https://paypal.example/self"},{"rel":"approve","href":"https://paypal.example/approve/X"}]}`))
	}}
	srv := fake.server(t)
	defer srv.Close()

	c := newTestClient(srv.URL)
	resp, err := c.CreateSetupToken(context.Background(), &model.SetupTokenRequest{
		Customer: model.Customer{ID: "cust-1"},
	})
	require.NoError(t, err)
	require.Equal(t, "ST1", resp.ID)
	require.Len(t, resp.Links, 2)
	require.Equal(t, "approve", resp.Links[1].Rel)

	reqs := fake.recorded()
	require.Len(t, reqs, 1)
	require.Equal(t, "Bearer test-access-token", reqs[0].authorization)
	require.NotEmpty(t, reqs[0].requestID)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(reqs[0].body, &payload))
	require.Contains(t, payload, "customer")
	require.Contains(t, payload, "payment_source")
}

func TestPaypalClient_IdempotencyKeyPerCall(t *testing.T) {
	fake := &fakePaypal{handle: func(w http.ResponseWriter, r *http.Request, body []byte) {
		_, _ = w.Write([]byte(`{"id":"ST1","links":[]}`))
	}}
	srv := fake.server(t)
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.CreateSetupToken(context.Background(), &model.SetupTokenRequest{})
	require.NoError(t, err)
	_, err = c.CreateSetupToken(context.Background(), &model.SetupTokenRequest{})
	require.NoError(t, err)

	reqs := fake.recorded()
	require.Len(t, reqs, 2)
	require.NotEmpty(t, reqs[0].requestID)
	require.NotEmpty(t, reqs[1].requestID)
	require.NotEqual(t, reqs[0].requestID, reqs[1].requestID, "each call must carry a fresh idempotency key")
}

func TestPaypalClient_APIErrorClassification(t *testing.T) {
	fake := &fakePaypal{handle: func(w http.ResponseWriter, r *http.Request, body []byte) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"name":"UNPROCESSABLE_ENTITY","message":"The requested action could not be performed.","details":[{"description":"The payment token is invalid."}]}`))
	}}
	srv := fake.server(t)
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.CreateVaultOrder(context.Background(), &model.OrderRequest{Intent: "CAPTURE"})
	require.Error(t, err)

	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	require.Equal(t, "The requested action could not be performed. - The payment token is invalid.", apiErr.Error())
}

func TestPaypalClient_APIErrorFallsBackToName(t *testing.T) {
	fake := &fakePaypal{handle: func(w http.ResponseWriter, r *http.Request, body []byte) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"name":"INVALID_REQUEST"}`))
	}}
	srv := fake.server(t)
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.CaptureOrder(context.Background(), "O1")
	require.Error(t, err)

	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "INVALID_REQUEST", apiErr.Error())
}

func TestPaypalClient_AuthError(t *testing.T) {
	t.Run("no access token in response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
		}))
		defer srv.Close()

		c := newTestClient(srv.URL)
		_, err := c.CaptureOrder(context.Background(), "O1")
		require.Error(t, err)

		var authErr *client.AuthError
		require.True(t, errors.As(err, &authErr))
	})

	t.Run("transport failure during token fetch", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		c := newTestClient(srv.URL)
		_, err := c.CaptureOrder(context.Background(), "O1")
		require.Error(t, err)

		var authErr *client.AuthError
		require.True(t, errors.As(err, &authErr))
	})
}

func TestPaypalClient_TransportError(t *testing.T) {
	// OAuth succeeds, then the API connection is dropped before any response
	// is written.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/oauth2/token" {
			_, _ = w.Write([]byte(`{"access_token":"test-access-token"}`))
			return
		}
		hj, ok := w.(http.Hijacker)
		assert.True(t, ok)
		conn, _, err := hj.Hijack()
		assert.NoError(t, err)
		_ = conn.Close()
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.CaptureOrder(context.Background(), "O1")
	require.Error(t, err)

	var transportErr *client.TransportError
	require.True(t, errors.As(err, &transportErr))
}

func TestPaypalClient_RefundCapture(t *testing.T) {
	t.Run("full refund omits body", func(t *testing.T) {
		fake := &fakePaypal{handle: func(w http.ResponseWriter, r *http.Request, body []byte) {
			assert.Equal(t, "/v2/payments/captures/C1/refund", r.URL.Path)
			assert.Empty(t, body, "full refund must not send an amount payload")
			_, _ = w.Write([]byte(`{"id":"R1","status":"COMPLETED"}`))
		}}
		srv := fake.server(t)
		defer srv.Close()

		c := newTestClient(srv.URL)
		resp, err := c.RefundCapture(context.Background(), "C1", &model.RefundRequest{})
		require.NoError(t, err)
		require.Equal(t, "R1", resp.ID)
		require.Equal(t, "COMPLETED", resp.Status)
	})

	t.Run("partial refund sends amount", func(t *testing.T) {
		fake := &fakePaypal{handle: func(w http.ResponseWriter, r *http.Request, body []byte) {
			var payload model.RefundRequest
			assert.NoError(t, json.Unmarshal(body, &payload))
			if assert.NotNil(t, payload.Amount) {
				assert.Equal(t, "5.00", payload.Amount.Value)
				assert.Equal(t, "USD", payload.Amount.Currency)
			}
			_, _ = w.Write([]byte(`{"id":"R2","status":"COMPLETED"}`))
		}}
		srv := fake.server(t)
		defer srv.Close()

		c := newTestClient(srv.URL)
		resp, err := c.RefundCapture(context.Background(), "C1", &model.RefundRequest{
			Amount: &model.Amount{Currency: "USD", Value: "5.00"},
		})
		require.NoError(t, err)
		require.Equal(t, "R2", resp.ID)
	})
}
