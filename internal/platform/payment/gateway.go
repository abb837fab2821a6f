// Package payment abstracts the external payment gateway used to collect
// invoice payments.
package payment

import (
	"context"
	"errors"
	"sync"
)

// DefaultRedirectURL is the hosted payment page of the 2C2P gateway.
const DefaultRedirectURL = "https://2c2p.com"

// Session is the result of opening a payment session with the gateway.
type Session struct {
	RedirectURL string `json:"redirectUrl"`
}

// Gateway opens payment sessions with an external payment provider.
type Gateway interface {
	CreatePayment(ctx context.Context) (*Session, error)
}

// TwoCTwoP is the 2C2P gateway client. The integration is a stub: no
// credentials or signed requests yet, it only hands back the hosted
// payment page URL.
type TwoCTwoP struct {
	redirectURL string
}

// NewTwoCTwoP creates a 2C2P client that redirects to the given URL.
// An empty redirectURL falls back to DefaultRedirectURL.
func NewTwoCTwoP(redirectURL string) *TwoCTwoP {
	if redirectURL == "" {
		redirectURL = DefaultRedirectURL
	}
	return &TwoCTwoP{redirectURL: redirectURL}
}

// CreatePayment opens a payment session.
func (g *TwoCTwoP) CreatePayment(_ context.Context) (*Session, error) {
	return &Session{RedirectURL: g.redirectURL}, nil
}

// MockGateway is a test double for Gateway.
type MockGateway struct {
	mu         sync.Mutex
	calls      int
	ShouldFail bool
	FailError  string
	URL        string
}

// CreatePayment records the call and optionally returns an error.
func (m *MockGateway) CreatePayment(_ context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.ShouldFail {
		return nil, errors.New(m.FailError)
	}
	url := m.URL
	if url == "" {
		url = DefaultRedirectURL
	}
	return &Session{RedirectURL: url}, nil
}

// Calls returns the number of sessions opened.
func (m *MockGateway) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
