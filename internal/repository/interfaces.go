package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a queried user has no registration row.
var ErrNotFound = errors.New("not found")

// RegistrationRow is a row of the registrations dataset.
type RegistrationRow struct {
	UserID            string
	Timestamp         int64
	Name              string
	Country           string
	DeviceOS          string
	MarketingCampaign *string
	EventID           int64
}

// ActivityRow is a row of the logins or logouts datasets.
type ActivityRow struct {
	UserID    string
	Timestamp int64
	EventID   int64
}

// TransactionRow is a row of the transactions dataset.
type TransactionRow struct {
	UserID    string
	Timestamp int64
	Amount    float64
	EventID   int64
}

// SessionRow is a row of the sessions dataset.
type SessionRow struct {
	UserID         string
	StartTimestamp int64
	EndTimestamp   int64
	Duration       int64
}

// SessionStats aggregates a user's sessions over a query window.
type SessionStats struct {
	Count         uint64
	TotalDuration int64
}

// DatasetRepository is the write side: the pipeline loads its five output
// datasets through it in batches.
type DatasetRepository interface {
	// InitSchema creates the dataset tables if they don't exist.
	InitSchema(ctx context.Context) error

	InsertRegistrations(ctx context.Context, rows []RegistrationRow) (int, error)
	InsertLogins(ctx context.Context, rows []ActivityRow) (int, error)
	InsertLogouts(ctx context.Context, rows []ActivityRow) (int, error)
	InsertTransactions(ctx context.Context, rows []TransactionRow) (int, error)
	InsertSessions(ctx context.Context, rows []SessionRow) (int, error)

	// Ping checks if the database connection is alive.
	Ping(ctx context.Context) error

	// Close closes the repository and releases resources.
	Close() error
}

// UserRepository is the read side used by the lookup service.
type UserRepository interface {
	// GetRegistration returns the user's registration row, or ErrNotFound.
	GetRegistration(ctx context.Context, userID string) (*RegistrationRow, error)

	// CountLogins counts every login the user ever made.
	CountLogins(ctx context.Context, userID string) (uint64, error)

	// LastLogin returns the user's newest login timestamp at or before
	// `before`; before <= 0 means unbounded. The bool reports whether any
	// login matched.
	LastLogin(ctx context.Context, userID string, before int64) (int64, bool, error)

	// LatestLogin returns the newest login timestamp across all users.
	LatestLogin(ctx context.Context) (int64, bool, error)

	// SessionStats aggregates the user's sessions whose start timestamp
	// falls in [from, to]; from/to <= 0 means unbounded on that side.
	SessionStats(ctx context.Context, userID string, from, to int64) (*SessionStats, error)

	// Ping checks if the database connection is alive.
	Ping(ctx context.Context) error
}
