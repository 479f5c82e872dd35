package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/domain"
)

// ErrSchema marks a well-formed line that does not match any of the
// expected record shapes. Schema mismatches are a filtering outcome, not
// a failure; any other parse error means the line is not valid JSON and
// the run must abort.
var ErrSchema = errors.New("schema mismatch")

// EventParser validates raw JSONL lines into typed domain records.
type EventParser struct{}

// NewEventParser creates a new event parser.
func NewEventParser() *EventParser {
	return &EventParser{}
}

type rawEnvelope struct {
	EventID        *int64          `json:"event_id"`
	EventType      *string         `json:"event_type"`
	EventTimestamp *int64          `json:"event_timestamp"`
	EventData      json.RawMessage `json:"event_data"`
}

type rawRate struct {
	Currency  *string         `json:"currency"`
	RateToUSD json.RawMessage `json:"rate_to_usd"`
}

// Parse decodes one event line into a typed event. Schema violations are
// reported wrapped in ErrSchema; other errors indicate malformed input.
func (p *EventParser) Parse(line []byte) (domain.Event, error) {
	var env rawEnvelope
	if err := json.Unmarshal(line, &env); err != nil {
		return nil, classify(err)
	}

	if env.EventID == nil || env.EventType == nil || env.EventTimestamp == nil || len(env.EventData) == 0 {
		return nil, fmt.Errorf("%w: missing envelope field", ErrSchema)
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(env.EventData, &payload); err != nil {
		return nil, fmt.Errorf("%w: event_data is not an object", ErrSchema)
	}

	header := domain.Header{
		EventID:        *env.EventID,
		EventTimestamp: *env.EventTimestamp,
	}

	switch domain.EventType(*env.EventType) {
	case domain.EventTypeRegistration:
		return parseRegistration(header, payload)
	case domain.EventTypeLogin:
		user, err := stringField(payload, "user_id")
		if err != nil {
			return nil, err
		}
		return &domain.Login{Header: header, User: user}, nil
	case domain.EventTypeTransaction:
		return parseTransaction(header, payload)
	case domain.EventTypeLogout:
		user, err := stringField(payload, "user_id")
		if err != nil {
			return nil, err
		}
		return &domain.Logout{Header: header, User: user}, nil
	default:
		return nil, fmt.Errorf("%w: unknown event_type %q", ErrSchema, *env.EventType)
	}
}

// ParseRate decodes one exchange-rate line. The rate value is coerced
// from a JSON string when the input carries it quoted.
func (p *EventParser) ParseRate(line []byte) (domain.ExchangeRate, error) {
	var raw rawRate
	if err := json.Unmarshal(line, &raw); err != nil {
		return domain.ExchangeRate{}, classify(err)
	}

	if raw.Currency == nil || len(raw.RateToUSD) == 0 {
		return domain.ExchangeRate{}, fmt.Errorf("%w: missing exchange rate field", ErrSchema)
	}

	currency := domain.Currency(*raw.Currency)
	if currency != domain.CurrencyEUR && currency != domain.CurrencyUSD {
		return domain.ExchangeRate{}, fmt.Errorf("%w: unknown currency %q", ErrSchema, *raw.Currency)
	}

	rate, err := coerceNumber(raw.RateToUSD)
	if err != nil {
		return domain.ExchangeRate{}, fmt.Errorf("%w: rate_to_usd: %v", ErrSchema, err)
	}

	return domain.ExchangeRate{Currency: currency, RateToUSD: rate}, nil
}

// ParseEvents validates a batch of event lines, dropping schema-invalid
// records and reporting how many were rejected. A malformed line aborts
// the batch.
func (p *EventParser) ParseEvents(lines []string) ([]domain.Event, int, error) {
	events := make([]domain.Event, 0, len(lines))
	rejected := 0

	for i, line := range lines {
		event, err := p.Parse([]byte(line))
		if err != nil {
			if errors.Is(err, ErrSchema) {
				rejected++
				continue
			}
			return nil, 0, fmt.Errorf("events line %d: %w", i+1, err)
		}
		events = append(events, event)
	}

	return events, rejected, nil
}

// ParseRates validates a batch of exchange-rate lines with the same
// rejection semantics as ParseEvents.
func (p *EventParser) ParseRates(lines []string) ([]domain.ExchangeRate, int, error) {
	rates := make([]domain.ExchangeRate, 0, len(lines))
	rejected := 0

	for i, line := range lines {
		rate, err := p.ParseRate([]byte(line))
		if err != nil {
			if errors.Is(err, ErrSchema) {
				rejected++
				continue
			}
			return nil, 0, fmt.Errorf("exchange rates line %d: %w", i+1, err)
		}
		rates = append(rates, rate)
	}

	return rates, rejected, nil
}

func parseRegistration(header domain.Header, payload map[string]json.RawMessage) (domain.Event, error) {
	user, err := stringField(payload, "user_id")
	if err != nil {
		return nil, err
	}
	name, err := stringField(payload, "name")
	if err != nil {
		return nil, err
	}
	country, err := stringField(payload, "country")
	if err != nil {
		return nil, err
	}
	deviceOS, err := stringField(payload, "device_os")
	if err != nil {
		return nil, err
	}

	os := domain.DeviceOS(deviceOS)
	if os != domain.DeviceAndroid && os != domain.DeviceIOS && os != domain.DeviceWeb {
		return nil, fmt.Errorf("%w: unknown device_os %q", ErrSchema, deviceOS)
	}

	campaign, err := nullableStringField(payload, "marketing_campaign")
	if err != nil {
		return nil, err
	}

	return &domain.Registration{
		Header:            header,
		User:              user,
		Name:              name,
		Country:           country,
		DeviceOS:          os,
		MarketingCampaign: campaign,
	}, nil
}

func parseTransaction(header domain.Header, payload map[string]json.RawMessage) (domain.Event, error) {
	user, err := stringField(payload, "user_id")
	if err != nil {
		return nil, err
	}
	amount, err := numberField(payload, "transaction_amount")
	if err != nil {
		return nil, err
	}
	currencyStr, err := stringField(payload, "transaction_currency")
	if err != nil {
		return nil, err
	}

	currency := domain.Currency(currencyStr)
	if currency != domain.CurrencyEUR && currency != domain.CurrencyUSD {
		return nil, fmt.Errorf("%w: unknown transaction_currency %q", ErrSchema, currencyStr)
	}

	return &domain.Transaction{
		Header:   header,
		User:     user,
		Amount:   amount,
		Currency: currency,
	}, nil
}

// Helper functions for extracting typed fields from a decoded payload.
func stringField(payload map[string]json.RawMessage, key string) (string, error) {
	raw, ok := payload[key]
	if !ok {
		return "", fmt.Errorf("%w: missing field %q", ErrSchema, key)
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", fmt.Errorf("%w: field %q is not a string", ErrSchema, key)
	}
	return value, nil
}

func numberField(payload map[string]json.RawMessage, key string) (float64, error) {
	raw, ok := payload[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing field %q", ErrSchema, key)
	}
	var value float64
	if err := json.Unmarshal(raw, &value); err != nil {
		return 0, fmt.Errorf("%w: field %q is not a number", ErrSchema, key)
	}
	return value, nil
}

func nullableStringField(payload map[string]json.RawMessage, key string) (*string, error) {
	raw, ok := payload[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing field %q", ErrSchema, key)
	}
	var value *string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("%w: field %q is not a string or null", ErrSchema, key)
	}
	return value, nil
}

func coerceNumber(raw json.RawMessage) (float64, error) {
	var number float64
	if err := json.Unmarshal(raw, &number); err == nil {
		return number, nil
	}
	var quoted string
	if err := json.Unmarshal(raw, &quoted); err != nil {
		return 0, errors.New("not a number or numeric string")
	}
	number, err := strconv.ParseFloat(quoted, 64)
	if err != nil {
		return 0, errors.New("not a number or numeric string")
	}
	return number, nil
}

// classify keeps schema-shaped decode failures non-fatal while letting
// malformed JSON escalate.
func classify(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return err
}
