package service

import (
	"context"
	"time"

	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/dto"
)

// UserServicer defines the lookup operations served over HTTP.
type UserServicer interface {
	// GetUserStats aggregates one user's registration, login, and session
	// data. A non-nil day restricts sessions and the last-login reference
	// point to that UTC calendar day.
	GetUserStats(ctx context.Context, userID string, day *time.Time) (*dto.UserStatsResponse, error)
}
