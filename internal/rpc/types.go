// Package rpc carries the dashboard's view of the payments backend contract:
// the records it reads, a typed client, and the service descriptors used to
// serve the same contract.
package rpc

import "time"

// EventType classifies an event.
type EventType string

// EventTypePayment is currently the only event type.
const EventTypePayment EventType = "PAYMENT"

// Label returns the lowercase label used for display and search.
func (t EventType) Label() string {
	switch t {
	case EventTypePayment:
		return "payment"
	default:
		return string(t)
	}
}

// PaymentStatus is the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentConfirmed PaymentStatus = "CONFIRMED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentTimedOut  PaymentStatus = "TIMED_OUT"
)

// Currency is a supported stablecoin. Empty means unknown.
type Currency string

const (
	CurrencyUSDC Currency = "USDC"
	CurrencyUSDT Currency = "USDT"
)

// PaymentInfo is the payment attached to a payment event. Amount is in
// micro-units with six implied decimals.
type PaymentInfo struct {
	Status   PaymentStatus
	Amount   int64
	Currency Currency
}

// Event is one project event as returned by ListEvents.
type Event struct {
	ID        string
	SessionID string
	CreatedAt time.Time
	Type      EventType
	Metadata  map[string]any
	Payment   *PaymentInfo
}

// Project is an entry of the project switcher.
type Project struct {
	ID   string
	Name string
}

// ProjectDetails describes one project.
type ProjectDetails struct {
	ID             string
	Name           string
	Description    string
	Environment    string
	CreatedAt      time.Time
	TokenCount     int
	WebhookCount   int
	WalletAddress  string
	WalletVerified bool
}

// AnalyticsPoint is one bucket of an analytics series.
type AnalyticsPoint struct {
	Date   string
	Volume int64
	Count  int
}

// AnalyticsResult summarizes payments for a period. Volumes are micro-units.
type AnalyticsResult struct {
	Period         string
	TotalVolume    int64
	PaymentCount   int
	ConfirmedCount int
	FailedCount    int
	Series         []AnalyticsPoint
}

// Analytics periods accepted by GetAnalytics.
const (
	Period7d  = "7d"
	Period30d = "30d"
	Period90d = "90d"
)

// ValidPeriod reports whether p is an accepted analytics period.
func ValidPeriod(p string) bool {
	switch p {
	case Period7d, Period30d, Period90d:
		return true
	}
	return false
}

// APIToken is a row of the tokens table. LastUsedAt is zero when unused.
type APIToken struct {
	ID           string
	Prefix       string
	Environment  string
	Status       string
	CreatedAt    time.Time
	LastUsedAt   time.Time
	RequestCount int64
}

// Webhook is a row of the webhooks table. LastUsedAt is zero when unused.
type Webhook struct {
	ID          string
	URL         string
	Description string
	Status      string
	CreatedAt   time.Time
	LastUsedAt  time.Time
}

// WalletNonce is the challenge issued by GetWalletNonce. Timestamp is the
// issuance time in unix milliseconds and must be echoed back on confirm.
type WalletNonce struct {
	Message   string
	Timestamp int64
}

// ConfirmWalletRequest carries a signed challenge. Signature holds one
// integer per signature byte.
type ConfirmWalletRequest struct {
	PublicKey string
	Signature []int
	Timestamp int64
}
