package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/dto"
	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/repository"
)

const secondsPerDay = 24 * 60 * 60

// UserService aggregates per-user stats from the persisted datasets. It
// does no reconstruction of its own; sessions were materialized by the
// pipeline.
type UserService struct {
	repository repository.UserRepository
	log        *zap.Logger
}

// NewUserService creates a user lookup service.
func NewUserService(repo repository.UserRepository, log *zap.Logger) *UserService {
	return &UserService{
		repository: repo,
		log:        log,
	}
}

// GetUserStats aggregates a user's registration, login, and session data.
//
// Without a day, sessions span the user's whole history and lastLogin is
// the distance between the user's newest login and the newest login in
// the entire dataset. With a day, sessions are those starting inside that
// UTC calendar day and lastLogin measures back from the day's start to
// the user's latest login at or before it. The login count is all-time
// either way.
func (s *UserService) GetUserStats(ctx context.Context, userID string, day *time.Time) (*dto.UserStatsResponse, error) {
	registration, err := s.repository.GetRegistration(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to query registration: %w", err)
	}

	loginCount, err := s.repository.CountLogins(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count logins: %w", err)
	}

	var stats *repository.SessionStats
	var daysSinceLogin int64

	if day != nil {
		dayStart := day.UTC().Truncate(24 * time.Hour).Unix()
		dayEnd := dayStart + secondsPerDay - 1

		stats, err = s.repository.SessionStats(ctx, userID, dayStart, dayEnd)
		if err != nil {
			return nil, fmt.Errorf("failed to query session stats: %w", err)
		}

		lastLogin, found, err := s.repository.LastLogin(ctx, userID, dayStart)
		if err != nil {
			return nil, fmt.Errorf("failed to query last login: %w", err)
		}
		if found {
			daysSinceLogin = roundDays(dayStart - lastLogin)
		}
	} else {
		stats, err = s.repository.SessionStats(ctx, userID, 0, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to query session stats: %w", err)
		}

		userLast, userFound, err := s.repository.LastLogin(ctx, userID, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to query last login: %w", err)
		}
		datasetLast, datasetFound, err := s.repository.LatestLogin(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query latest login: %w", err)
		}
		if userFound && datasetFound {
			daysSinceLogin = roundDays(datasetLast - userLast)
		}
	}

	s.log.Info("User stats computed",
		zap.String("user_id", userID),
		zap.Uint64("login_count", loginCount),
		zap.Uint64("session_count", stats.Count))

	return &dto.UserStatsResponse{
		Country:      registration.Country,
		Name:         registration.Name,
		LoginCount:   loginCount,
		LastLogin:    daysSinceLogin,
		SessionCount: stats.Count,
		InGameTime:   stats.TotalDuration,
	}, nil
}

func roundDays(seconds int64) int64 {
	return int64(math.Round(float64(seconds) / secondsPerDay))
}
