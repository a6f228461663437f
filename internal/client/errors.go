package client

import "fmt"

// TransportError means the request never produced an HTTP response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("paypal transport failure on %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AuthError means the client-credentials OAuth exchange failed.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("paypal oauth: %s: %v", e.Reason, e.Err)
	}
	return "paypal oauth: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }

// APIError carries a 4xx/5xx PayPal response. The message is assembled from the
// payload's message/name fields plus the first detail description, when present.
type APIError struct {
	StatusCode int
	Name       string
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Name
	}
	if msg == "" {
		msg = "PayPal API error"
	}
	if e.Detail != "" {
		msg += " - " + e.Detail
	}
	return msg
}
