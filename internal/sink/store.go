package sink

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/domain"
	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/repository"
)

// StoreSink loads the datasets into a repository so the lookup service
// can query them. Records are buffered per dataset and inserted in
// batches; Close flushes whatever remains.
type StoreSink struct {
	repo         repository.DatasetRepository
	maxBatchSize int
	log          *zap.Logger

	registrations []repository.RegistrationRow
	logins        []repository.ActivityRow
	logouts       []repository.ActivityRow
	transactions  []repository.TransactionRow
	sessions      []repository.SessionRow
}

// NewStoreSink creates a repository-backed sink.
func NewStoreSink(repo repository.DatasetRepository, maxBatchSize int, log *zap.Logger) *StoreSink {
	return &StoreSink{
		repo:         repo,
		maxBatchSize: maxBatchSize,
		log:          log,
	}
}

func (s *StoreSink) WriteRegistration(event *domain.Registration) error {
	s.registrations = append(s.registrations, repository.RegistrationRow{
		UserID:            event.User,
		Timestamp:         event.EventTimestamp,
		Name:              event.Name,
		Country:           event.Country,
		DeviceOS:          string(event.DeviceOS),
		MarketingCampaign: event.MarketingCampaign,
		EventID:           event.EventID,
	})
	if len(s.registrations) >= s.maxBatchSize {
		return s.flushRegistrations()
	}
	return nil
}

func (s *StoreSink) WriteLogin(event *domain.Login) error {
	s.logins = append(s.logins, repository.ActivityRow{
		UserID:    event.User,
		Timestamp: event.EventTimestamp,
		EventID:   event.EventID,
	})
	if len(s.logins) >= s.maxBatchSize {
		return s.flushLogins()
	}
	return nil
}

func (s *StoreSink) WriteTransaction(event *domain.Transaction) error {
	s.transactions = append(s.transactions, repository.TransactionRow{
		UserID:    event.User,
		Timestamp: event.EventTimestamp,
		Amount:    event.Amount,
		EventID:   event.EventID,
	})
	if len(s.transactions) >= s.maxBatchSize {
		return s.flushTransactions()
	}
	return nil
}

func (s *StoreSink) WriteLogout(event *domain.Logout) error {
	s.logouts = append(s.logouts, repository.ActivityRow{
		UserID:    event.User,
		Timestamp: event.EventTimestamp,
		EventID:   event.EventID,
	})
	if len(s.logouts) >= s.maxBatchSize {
		return s.flushLogouts()
	}
	return nil
}

func (s *StoreSink) WriteSession(session domain.Session) error {
	s.sessions = append(s.sessions, repository.SessionRow{
		UserID:         session.UserID,
		StartTimestamp: session.StartTimestamp,
		EndTimestamp:   session.EndTimestamp,
		Duration:       session.Duration,
	})
	if len(s.sessions) >= s.maxBatchSize {
		return s.flushSessions()
	}
	return nil
}

// Close flushes every remaining buffer. The repository itself is owned by
// the caller and stays open.
func (s *StoreSink) Close() error {
	flushes := []func() error{
		s.flushRegistrations,
		s.flushLogins,
		s.flushTransactions,
		s.flushLogouts,
		s.flushSessions,
	}
	for _, flush := range flushes {
		if err := flush(); err != nil {
			return err
		}
	}
	return nil
}

func (s *StoreSink) flushRegistrations() error {
	if len(s.registrations) == 0 {
		return nil
	}
	inserted, err := s.repo.InsertRegistrations(context.Background(), s.registrations)
	if err != nil {
		return fmt.Errorf("loading registrations: %w", err)
	}
	s.log.Info("Loaded registrations batch", zap.Int("rows", inserted))
	s.registrations = s.registrations[:0]
	return nil
}

func (s *StoreSink) flushLogins() error {
	if len(s.logins) == 0 {
		return nil
	}
	inserted, err := s.repo.InsertLogins(context.Background(), s.logins)
	if err != nil {
		return fmt.Errorf("loading logins: %w", err)
	}
	s.log.Info("Loaded logins batch", zap.Int("rows", inserted))
	s.logins = s.logins[:0]
	return nil
}

func (s *StoreSink) flushLogouts() error {
	if len(s.logouts) == 0 {
		return nil
	}
	inserted, err := s.repo.InsertLogouts(context.Background(), s.logouts)
	if err != nil {
		return fmt.Errorf("loading logouts: %w", err)
	}
	s.log.Info("Loaded logouts batch", zap.Int("rows", inserted))
	s.logouts = s.logouts[:0]
	return nil
}

func (s *StoreSink) flushTransactions() error {
	if len(s.transactions) == 0 {
		return nil
	}
	inserted, err := s.repo.InsertTransactions(context.Background(), s.transactions)
	if err != nil {
		return fmt.Errorf("loading transactions: %w", err)
	}
	s.log.Info("Loaded transactions batch", zap.Int("rows", inserted))
	s.transactions = s.transactions[:0]
	return nil
}

func (s *StoreSink) flushSessions() error {
	if len(s.sessions) == 0 {
		return nil
	}
	inserted, err := s.repo.InsertSessions(context.Background(), s.sessions)
	if err != nil {
		return fmt.Errorf("loading sessions: %w", err)
	}
	s.log.Info("Loaded sessions batch", zap.Int("rows", inserted))
	s.sessions = s.sessions[:0]
	return nil
}
