package sink

import "github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/domain"

// DatasetSink receives the pipeline's output one record at a time. The
// pipeline stays ignorant of where datasets end up; CSV files and the
// database loader both sit behind this interface.
type DatasetSink interface {
	WriteRegistration(event *domain.Registration) error
	WriteLogin(event *domain.Login) error
	WriteTransaction(event *domain.Transaction) error
	WriteLogout(event *domain.Logout) error
	WriteSession(session domain.Session) error

	// Close flushes any buffered records and releases resources.
	Close() error
}

// Multi fans every record out to all underlying sinks.
type Multi []DatasetSink

func (m Multi) WriteRegistration(event *domain.Registration) error {
	for _, s := range m {
		if err := s.WriteRegistration(event); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) WriteLogin(event *domain.Login) error {
	for _, s := range m {
		if err := s.WriteLogin(event); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) WriteTransaction(event *domain.Transaction) error {
	for _, s := range m {
		if err := s.WriteTransaction(event); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) WriteLogout(event *domain.Logout) error {
	for _, s := range m {
		if err := s.WriteLogout(event); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) WriteSession(session domain.Session) error {
	for _, s := range m {
		if err := s.WriteSession(session); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Close() error {
	var firstErr error
	for _, s := range m {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
