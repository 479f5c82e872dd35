package domain

// EventType tags the four kinds of telemetry events.
type EventType string

const (
	EventTypeRegistration EventType = "registration"
	EventTypeLogin        EventType = "login"
	EventTypeTransaction  EventType = "transaction"
	EventTypeLogout       EventType = "logout"
)

// DeviceOS is the platform a user registered from.
type DeviceOS string

const (
	DeviceAndroid DeviceOS = "Android"
	DeviceIOS     DeviceOS = "iOS"
	DeviceWeb     DeviceOS = "Web"
)

// Currency is a supported transaction currency.
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

// ReferenceCurrency is the currency all transaction amounts are
// normalized to.
const ReferenceCurrency = CurrencyUSD

// Event is the closed set of telemetry event variants. The only way to
// obtain one is through the parser, so every Event in a working set has
// already passed schema validation.
type Event interface {
	ID() int64
	Timestamp() int64
	Type() EventType
	UserID() string
}

// Header carries the fields shared by every event variant.
type Header struct {
	EventID        int64
	EventTimestamp int64
}

func (h Header) ID() int64        { return h.EventID }
func (h Header) Timestamp() int64 { return h.EventTimestamp }

// Registration is a user registration event.
type Registration struct {
	Header
	User              string
	Name              string
	Country           string
	DeviceOS          DeviceOS
	MarketingCampaign *string
}

func (e *Registration) Type() EventType { return EventTypeRegistration }
func (e *Registration) UserID() string  { return e.User }

// Login is a user login event.
type Login struct {
	Header
	User string
}

func (e *Login) Type() EventType { return EventTypeLogin }
func (e *Login) UserID() string  { return e.User }

// Transaction is a purchase event. Amount and Currency are rewritten by
// currency normalization; the pre-conversion amount is not retained.
type Transaction struct {
	Header
	User     string
	Amount   float64
	Currency Currency
}

func (e *Transaction) Type() EventType { return EventTypeTransaction }
func (e *Transaction) UserID() string  { return e.User }

// Logout is a user logout event.
type Logout struct {
	Header
	User string
}

func (e *Logout) Type() EventType { return EventTypeLogout }
func (e *Logout) UserID() string  { return e.User }

// ExchangeRate maps a currency to its conversion rate into the reference
// currency.
type ExchangeRate struct {
	Currency  Currency
	RateToUSD float64
}

// Session is a reconstructed play interval for one user. It is derived
// output only and is never mutated after being emitted.
type Session struct {
	UserID         string
	StartTimestamp int64
	EndTimestamp   int64
	Duration       int64
}
