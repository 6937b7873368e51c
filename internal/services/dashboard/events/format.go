package events

import (
	"encoding/json"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/okito/dashboard/internal/rpc"
)

// Placeholder is shown for absent values.
const Placeholder = "—"

// amountExponent is the number of implied decimals in payment amounts.
const amountExponent = 6

// metadataPreviewRunes caps the table's metadata preview.
const metadataPreviewRunes = 48

// FormatAmount renders micro-units with exactly six decimals.
func FormatAmount(v int64) string {
	return decimal.New(v, -amountExponent).StringFixed(amountExponent)
}

// FormatPaymentAmount renders the amount of p, or the placeholder.
func FormatPaymentAmount(p *rpc.PaymentInfo) string {
	if p == nil {
		return Placeholder
	}
	return FormatAmount(p.Amount)
}

// FormatStatus renders the payment status, or the placeholder.
func FormatStatus(p *rpc.PaymentInfo) string {
	if p == nil || p.Status == "" {
		return Placeholder
	}
	return string(p.Status)
}

// FormatCurrency renders the payment currency, or the placeholder.
func FormatCurrency(p *rpc.PaymentInfo) string {
	if p == nil || p.Currency == "" {
		return Placeholder
	}
	return string(p.Currency)
}

// StatusClass returns the badge class of a payment status.
func StatusClass(p *rpc.PaymentInfo) string {
	if p == nil {
		return "status-none"
	}
	switch p.Status {
	case rpc.PaymentConfirmed:
		return "status-confirmed"
	case rpc.PaymentPending:
		return "status-pending"
	case rpc.PaymentFailed:
		return "status-failed"
	case rpc.PaymentTimedOut:
		return "status-timed-out"
	default:
		return "status-none"
	}
}

// FormatTime renders t in UTC.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return t.UTC().Format("Jan 2, 2006 15:04:05 UTC")
}

// MetadataJSON renders metadata as indented JSON for the detail panel.
func MetadataJSON(metadata map[string]any) string {
	if len(metadata) == 0 {
		return "{}"
	}
	out, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(out)
}

// MetadataPreview renders compact JSON truncated for the table.
func MetadataPreview(metadata map[string]any) string {
	if len(metadata) == 0 {
		return Placeholder
	}
	out, err := json.Marshal(metadata)
	if err != nil {
		return Placeholder
	}
	preview := string(out)
	if utf8.RuneCountInString(preview) <= metadataPreviewRunes {
		return preview
	}
	runes := []rune(preview)
	return string(runes[:metadataPreviewRunes]) + "…"
}
