package rpc

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

// Field names follow the JSON shape of the backend contract.
const (
	fieldID             = "id"
	fieldProjectID      = "projectId"
	fieldSessionID      = "sessionId"
	fieldCreatedAt      = "createdAt"
	fieldLastUsedAt     = "lastUsedAt"
	fieldType           = "type"
	fieldMetadata       = "metadata"
	fieldPayment        = "payment"
	fieldStatus         = "status"
	fieldAmount         = "amount"
	fieldCurrency       = "currency"
	fieldEvents         = "events"
	fieldName           = "name"
	fieldDescription    = "description"
	fieldEnvironment    = "environment"
	fieldTokenCount     = "tokenCount"
	fieldWebhookCount   = "webhookCount"
	fieldWalletAddress  = "walletAddress"
	fieldWalletVerified = "walletVerified"
	fieldProjects       = "projects"
	fieldPeriod         = "period"
	fieldTotalVolume    = "totalVolume"
	fieldPaymentCount   = "paymentCount"
	fieldConfirmedCount = "confirmedCount"
	fieldFailedCount    = "failedCount"
	fieldSeries         = "series"
	fieldDate           = "date"
	fieldVolume         = "volume"
	fieldCount          = "count"
	fieldTokens         = "tokens"
	fieldPrefix         = "prefix"
	fieldRequestCount   = "requestCount"
	fieldWebhooks       = "webhooks"
	fieldURL            = "url"
	fieldPublicKey      = "publicKey"
	fieldMessage        = "message"
	fieldTimestamp      = "timestamp"
	fieldSignature      = "signature"
	fieldSuccess        = "success"
)

func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

func intField(s *structpb.Struct, key string) int {
	return int(s.GetFields()[key].GetNumberValue())
}

func boolField(s *structpb.Struct, key string) bool {
	return s.GetFields()[key].GetBoolValue()
}

// int64Field reads integers that may exceed float64 precision. They travel
// as base-10 strings; plain numbers are accepted for small values.
func int64Field(s *structpb.Struct, key string) (int64, error) {
	value, ok := s.GetFields()[key]
	if !ok || value == nil {
		return 0, nil
	}
	switch kind := value.GetKind().(type) {
	case *structpb.Value_StringValue:
		if kind.StringValue == "" {
			return 0, nil
		}
		parsed, err := strconv.ParseInt(kind.StringValue, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse %s: %w", key, err)
		}
		return parsed, nil
	case *structpb.Value_NumberValue:
		if kind.NumberValue != math.Trunc(kind.NumberValue) {
			return 0, fmt.Errorf("parse %s: %v is not an integer", key, kind.NumberValue)
		}
		return int64(kind.NumberValue), nil
	case *structpb.Value_NullValue:
		return 0, nil
	default:
		return 0, fmt.Errorf("parse %s: unexpected kind %T", key, kind)
	}
}

func timeField(s *structpb.Struct, key string) (time.Time, error) {
	raw := stringField(s, key)
	if raw == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed.UTC(), nil
}

func formatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func listField(s *structpb.Struct, key string) []*structpb.Value {
	return s.GetFields()[key].GetListValue().GetValues()
}

// EncodeEvent converts an event to its wire form.
func EncodeEvent(e Event) map[string]any {
	out := map[string]any{
		fieldID:        e.ID,
		fieldSessionID: e.SessionID,
		fieldCreatedAt: formatTime(e.CreatedAt),
		fieldType:      string(e.Type),
		fieldMetadata:  map[string]any{},
		fieldPayment:   nil,
	}
	if e.Metadata != nil {
		out[fieldMetadata] = e.Metadata
	}
	if e.Payment != nil {
		payment := map[string]any{
			fieldStatus:   string(e.Payment.Status),
			fieldAmount:   strconv.FormatInt(e.Payment.Amount, 10),
			fieldCurrency: nil,
		}
		if e.Payment.Currency != "" {
			payment[fieldCurrency] = string(e.Payment.Currency)
		}
		out[fieldPayment] = payment
	}
	return out
}

// DecodeEvent parses an event from its wire form.
func DecodeEvent(s *structpb.Struct) (Event, error) {
	createdAt, err := timeField(s, fieldCreatedAt)
	if err != nil {
		return Event{}, err
	}
	event := Event{
		ID:        stringField(s, fieldID),
		SessionID: stringField(s, fieldSessionID),
		CreatedAt: createdAt,
		Type:      EventType(stringField(s, fieldType)),
		Metadata:  s.GetFields()[fieldMetadata].GetStructValue().AsMap(),
	}
	if payment := s.GetFields()[fieldPayment].GetStructValue(); payment != nil {
		amount, err := int64Field(payment, fieldAmount)
		if err != nil {
			return Event{}, fmt.Errorf("event %s: %w", event.ID, err)
		}
		event.Payment = &PaymentInfo{
			Status:   PaymentStatus(stringField(payment, fieldStatus)),
			Amount:   amount,
			Currency: Currency(stringField(payment, fieldCurrency)),
		}
	}
	return event, nil
}

// EncodeProjectDetails converts project details to their wire form.
func EncodeProjectDetails(d ProjectDetails) map[string]any {
	return map[string]any{
		fieldID:             d.ID,
		fieldName:           d.Name,
		fieldDescription:    d.Description,
		fieldEnvironment:    d.Environment,
		fieldCreatedAt:      formatTime(d.CreatedAt),
		fieldTokenCount:     d.TokenCount,
		fieldWebhookCount:   d.WebhookCount,
		fieldWalletAddress:  d.WalletAddress,
		fieldWalletVerified: d.WalletVerified,
	}
}

// DecodeProjectDetails parses project details from their wire form.
func DecodeProjectDetails(s *structpb.Struct) (ProjectDetails, error) {
	createdAt, err := timeField(s, fieldCreatedAt)
	if err != nil {
		return ProjectDetails{}, err
	}
	return ProjectDetails{
		ID:             stringField(s, fieldID),
		Name:           stringField(s, fieldName),
		Description:    stringField(s, fieldDescription),
		Environment:    stringField(s, fieldEnvironment),
		CreatedAt:      createdAt,
		TokenCount:     intField(s, fieldTokenCount),
		WebhookCount:   intField(s, fieldWebhookCount),
		WalletAddress:  stringField(s, fieldWalletAddress),
		WalletVerified: boolField(s, fieldWalletVerified),
	}, nil
}

// EncodeAnalytics converts an analytics result to its wire form.
func EncodeAnalytics(a AnalyticsResult) map[string]any {
	series := make([]any, 0, len(a.Series))
	for _, point := range a.Series {
		series = append(series, map[string]any{
			fieldDate:   point.Date,
			fieldVolume: strconv.FormatInt(point.Volume, 10),
			fieldCount:  point.Count,
		})
	}
	return map[string]any{
		fieldPeriod:         a.Period,
		fieldTotalVolume:    strconv.FormatInt(a.TotalVolume, 10),
		fieldPaymentCount:   a.PaymentCount,
		fieldConfirmedCount: a.ConfirmedCount,
		fieldFailedCount:    a.FailedCount,
		fieldSeries:         series,
	}
}

// DecodeAnalytics parses an analytics result from its wire form.
func DecodeAnalytics(s *structpb.Struct) (AnalyticsResult, error) {
	total, err := int64Field(s, fieldTotalVolume)
	if err != nil {
		return AnalyticsResult{}, err
	}
	result := AnalyticsResult{
		Period:         stringField(s, fieldPeriod),
		TotalVolume:    total,
		PaymentCount:   intField(s, fieldPaymentCount),
		ConfirmedCount: intField(s, fieldConfirmedCount),
		FailedCount:    intField(s, fieldFailedCount),
	}
	for _, value := range listField(s, fieldSeries) {
		point := value.GetStructValue()
		volume, err := int64Field(point, fieldVolume)
		if err != nil {
			return AnalyticsResult{}, err
		}
		result.Series = append(result.Series, AnalyticsPoint{
			Date:   stringField(point, fieldDate),
			Volume: volume,
			Count:  intField(point, fieldCount),
		})
	}
	return result, nil
}

// EncodeAPIToken converts a token row to its wire form.
func EncodeAPIToken(t APIToken) map[string]any {
	return map[string]any{
		fieldID:           t.ID,
		fieldPrefix:       t.Prefix,
		fieldEnvironment:  t.Environment,
		fieldStatus:       t.Status,
		fieldCreatedAt:    formatTime(t.CreatedAt),
		fieldLastUsedAt:   formatTime(t.LastUsedAt),
		fieldRequestCount: strconv.FormatInt(t.RequestCount, 10),
	}
}

// DecodeAPIToken parses a token row from its wire form.
func DecodeAPIToken(s *structpb.Struct) (APIToken, error) {
	createdAt, err := timeField(s, fieldCreatedAt)
	if err != nil {
		return APIToken{}, err
	}
	lastUsedAt, err := timeField(s, fieldLastUsedAt)
	if err != nil {
		return APIToken{}, err
	}
	requests, err := int64Field(s, fieldRequestCount)
	if err != nil {
		return APIToken{}, err
	}
	return APIToken{
		ID:           stringField(s, fieldID),
		Prefix:       stringField(s, fieldPrefix),
		Environment:  stringField(s, fieldEnvironment),
		Status:       stringField(s, fieldStatus),
		CreatedAt:    createdAt,
		LastUsedAt:   lastUsedAt,
		RequestCount: requests,
	}, nil
}

// EncodeWebhook converts a webhook row to its wire form.
func EncodeWebhook(w Webhook) map[string]any {
	return map[string]any{
		fieldID:          w.ID,
		fieldURL:         w.URL,
		fieldDescription: w.Description,
		fieldStatus:      w.Status,
		fieldCreatedAt:   formatTime(w.CreatedAt),
		fieldLastUsedAt:  formatTime(w.LastUsedAt),
	}
}

// DecodeWebhook parses a webhook row from its wire form.
func DecodeWebhook(s *structpb.Struct) (Webhook, error) {
	createdAt, err := timeField(s, fieldCreatedAt)
	if err != nil {
		return Webhook{}, err
	}
	lastUsedAt, err := timeField(s, fieldLastUsedAt)
	if err != nil {
		return Webhook{}, err
	}
	return Webhook{
		ID:          stringField(s, fieldID),
		URL:         stringField(s, fieldURL),
		Description: stringField(s, fieldDescription),
		Status:      stringField(s, fieldStatus),
		CreatedAt:   createdAt,
		LastUsedAt:  lastUsedAt,
	}, nil
}

// EncodeSignature converts signature bytes to the numeric list sent on
// confirm.
func EncodeSignature(sig []byte) []int {
	out := make([]int, len(sig))
	for i, b := range sig {
		out[i] = int(b)
	}
	return out
}

// DecodeSignature converts the numeric list back to bytes, rejecting values
// outside a byte.
func DecodeSignature(values []int) ([]byte, error) {
	out := make([]byte, len(values))
	for i, v := range values {
		if v < 0 || v > math.MaxUint8 {
			return nil, fmt.Errorf("signature byte %d out of range: %d", i, v)
		}
		out[i] = byte(v)
	}
	return out, nil
}

func encodeIntList(values []int) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func decodeIntList(values []*structpb.Value) []int {
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = int(v.GetNumberValue())
	}
	return out
}

func newStruct(fields map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return s, nil
}

func encodeList[T any](items []T, encode func(T) map[string]any) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, encode(item))
	}
	return out
}

func decodeList[T any](values []*structpb.Value, decode func(*structpb.Struct) (T, error)) ([]T, error) {
	out := make([]T, 0, len(values))
	for _, value := range values {
		item, err := decode(value.GetStructValue())
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
