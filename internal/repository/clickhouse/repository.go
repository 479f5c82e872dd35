package clickhouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/repository"
)

// Repository implements the dataset and user repositories on ClickHouse.
type Repository struct {
	client *Client
	log    *zap.Logger
}

// NewRepository creates a ClickHouse repository.
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// InitSchema creates the five dataset tables.
func (r *Repository) InitSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS registrations (
			user_id String,
			timestamp Int64,
			name String,
			country LowCardinality(String),
			device_os LowCardinality(String),
			marketing_campaign Nullable(String),
			event_id Int64
		) ENGINE = MergeTree
		ORDER BY (user_id, timestamp)`,

		`CREATE TABLE IF NOT EXISTS logins (
			user_id String,
			timestamp Int64,
			event_id Int64
		) ENGINE = MergeTree
		ORDER BY (user_id, timestamp)`,

		`CREATE TABLE IF NOT EXISTS logouts (
			user_id String,
			timestamp Int64,
			event_id Int64
		) ENGINE = MergeTree
		ORDER BY (user_id, timestamp)`,

		`CREATE TABLE IF NOT EXISTS transactions (
			user_id String,
			timestamp Int64,
			amount Float64,
			event_id Int64
		) ENGINE = MergeTree
		ORDER BY (user_id, timestamp)`,

		`CREATE TABLE IF NOT EXISTS sessions (
			user_id String,
			start_timestamp Int64,
			end_timestamp Int64,
			duration Int64
		) ENGINE = MergeTree
		ORDER BY (user_id, start_timestamp)`,
	}

	for _, query := range queries {
		if err := r.client.Conn().Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to create dataset table: %w", err)
		}
	}

	r.log.Info("ClickHouse schema initialized")
	return nil
}

// InsertRegistrations inserts a batch of registration rows.
func (r *Repository) InsertRegistrations(ctx context.Context, rows []repository.RegistrationRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	batch, err := r.client.Conn().PrepareBatch(ctx, "INSERT INTO registrations")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare registrations batch: %w", err)
	}

	for _, row := range rows {
		err := batch.Append(
			row.UserID,
			row.Timestamp,
			row.Name,
			row.Country,
			row.DeviceOS,
			row.MarketingCampaign,
			row.EventID,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to append registration row: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("failed to send registrations batch: %w", err)
	}
	return len(rows), nil
}

// InsertLogins inserts a batch of login rows.
func (r *Repository) InsertLogins(ctx context.Context, rows []repository.ActivityRow) (int, error) {
	return r.insertActivity(ctx, "logins", rows)
}

// InsertLogouts inserts a batch of logout rows.
func (r *Repository) InsertLogouts(ctx context.Context, rows []repository.ActivityRow) (int, error) {
	return r.insertActivity(ctx, "logouts", rows)
}

func (r *Repository) insertActivity(ctx context.Context, table string, rows []repository.ActivityRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	batch, err := r.client.Conn().PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare %s batch: %w", table, err)
	}

	for _, row := range rows {
		if err := batch.Append(row.UserID, row.Timestamp, row.EventID); err != nil {
			return 0, fmt.Errorf("failed to append %s row: %w", table, err)
		}
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("failed to send %s batch: %w", table, err)
	}
	return len(rows), nil
}

// InsertTransactions inserts a batch of transaction rows.
func (r *Repository) InsertTransactions(ctx context.Context, rows []repository.TransactionRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	batch, err := r.client.Conn().PrepareBatch(ctx, "INSERT INTO transactions")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare transactions batch: %w", err)
	}

	for _, row := range rows {
		if err := batch.Append(row.UserID, row.Timestamp, row.Amount, row.EventID); err != nil {
			return 0, fmt.Errorf("failed to append transaction row: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("failed to send transactions batch: %w", err)
	}
	return len(rows), nil
}

// InsertSessions inserts a batch of session rows.
func (r *Repository) InsertSessions(ctx context.Context, rows []repository.SessionRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	batch, err := r.client.Conn().PrepareBatch(ctx, "INSERT INTO sessions")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare sessions batch: %w", err)
	}

	for _, row := range rows {
		err := batch.Append(row.UserID, row.StartTimestamp, row.EndTimestamp, row.Duration)
		if err != nil {
			return 0, fmt.Errorf("failed to append session row: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("failed to send sessions batch: %w", err)
	}
	return len(rows), nil
}

// GetRegistration returns the user's registration row.
func (r *Repository) GetRegistration(ctx context.Context, userID string) (*repository.RegistrationRow, error) {
	query := `
		SELECT user_id, timestamp, name, country, device_os, marketing_campaign, event_id
		FROM registrations
		WHERE user_id = ?
		LIMIT 1
	`

	var row repository.RegistrationRow
	err := r.client.Conn().QueryRow(ctx, query, userID).Scan(
		&row.UserID,
		&row.Timestamp,
		&row.Name,
		&row.Country,
		&row.DeviceOS,
		&row.MarketingCampaign,
		&row.EventID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query registration: %w", err)
	}
	return &row, nil
}

// CountLogins counts every login row for the user.
func (r *Repository) CountLogins(ctx context.Context, userID string) (uint64, error) {
	var count uint64
	err := r.client.Conn().
		QueryRow(ctx, "SELECT count() FROM logins WHERE user_id = ?", userID).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count logins: %w", err)
	}
	return count, nil
}

// LastLogin returns the user's newest login at or before the given bound.
func (r *Repository) LastLogin(ctx context.Context, userID string, before int64) (int64, bool, error) {
	query := "SELECT count(), max(timestamp) FROM logins WHERE user_id = ?"
	args := []interface{}{userID}
	if before > 0 {
		query += " AND timestamp <= ?"
		args = append(args, before)
	}

	var count uint64
	var timestamp int64
	if err := r.client.Conn().QueryRow(ctx, query, args...).Scan(&count, &timestamp); err != nil {
		return 0, false, fmt.Errorf("failed to query last login: %w", err)
	}
	return timestamp, count > 0, nil
}

// LatestLogin returns the newest login timestamp across all users.
func (r *Repository) LatestLogin(ctx context.Context) (int64, bool, error) {
	var count uint64
	var timestamp int64
	err := r.client.Conn().
		QueryRow(ctx, "SELECT count(), max(timestamp) FROM logins").
		Scan(&count, &timestamp)
	if err != nil {
		return 0, false, fmt.Errorf("failed to query latest login: %w", err)
	}
	return timestamp, count > 0, nil
}

// SessionStats aggregates sessions whose start falls inside [from, to].
func (r *Repository) SessionStats(ctx context.Context, userID string, from, to int64) (*repository.SessionStats, error) {
	query := "SELECT count(), sum(duration) FROM sessions WHERE user_id = ?"
	args := []interface{}{userID}
	if from > 0 {
		query += " AND start_timestamp >= ?"
		args = append(args, from)
	}
	if to > 0 {
		query += " AND start_timestamp <= ?"
		args = append(args, to)
	}

	var stats repository.SessionStats
	err := r.client.Conn().QueryRow(ctx, query, args...).Scan(&stats.Count, &stats.TotalDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to query session stats: %w", err)
	}
	return &stats, nil
}

// Ping checks if the ClickHouse connection is alive.
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Conn().Ping(ctx)
}

// Close closes the ClickHouse connection.
func (r *Repository) Close() error {
	return r.client.Close()
}
