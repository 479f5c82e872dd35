package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/domain"
)

// isoMillis renders epoch seconds the way the datasets expect:
// UTC ISO-8601 with a milliseconds component.
const isoMillis = "2006-01-02T15:04:05.000Z"

var (
	registrationsHeader = []string{"user_id", "timestamp", "name", "country", "device_os", "marketing_campaign", "event_id"}
	activityHeader      = []string{"user_id", "timestamp", "event_id"}
	transactionsHeader  = []string{"user_id", "timestamp", "amount", "event_id"}
	sessionsHeader      = []string{"user_id", "start_date", "end_date", "duration"}
)

// CSVSink writes each dataset to <dir>/<name>.csv. Files are created
// lazily on the first record of their dataset, header row included.
type CSVSink struct {
	dir     string
	files   map[string]*os.File
	writers map[string]*csv.Writer
}

// NewCSVSink creates a CSV sink rooted at dir.
func NewCSVSink(dir string) *CSVSink {
	return &CSVSink{
		dir:     dir,
		files:   make(map[string]*os.File),
		writers: make(map[string]*csv.Writer),
	}
}

func (s *CSVSink) WriteRegistration(event *domain.Registration) error {
	campaign := ""
	if event.MarketingCampaign != nil {
		campaign = *event.MarketingCampaign
	}
	return s.write("registrations", registrationsHeader, []string{
		event.User,
		formatTimestamp(event.EventTimestamp),
		event.Name,
		event.Country,
		string(event.DeviceOS),
		campaign,
		strconv.FormatInt(event.EventID, 10),
	})
}

func (s *CSVSink) WriteLogin(event *domain.Login) error {
	return s.write("logins", activityHeader, []string{
		event.User,
		formatTimestamp(event.EventTimestamp),
		strconv.FormatInt(event.EventID, 10),
	})
}

func (s *CSVSink) WriteTransaction(event *domain.Transaction) error {
	return s.write("transactions", transactionsHeader, []string{
		event.User,
		formatTimestamp(event.EventTimestamp),
		formatAmount(event.Amount),
		strconv.FormatInt(event.EventID, 10),
	})
}

func (s *CSVSink) WriteLogout(event *domain.Logout) error {
	return s.write("logouts", activityHeader, []string{
		event.User,
		formatTimestamp(event.EventTimestamp),
		strconv.FormatInt(event.EventID, 10),
	})
}

func (s *CSVSink) WriteSession(session domain.Session) error {
	return s.write("sessions", sessionsHeader, []string{
		session.UserID,
		formatTimestamp(session.StartTimestamp),
		formatTimestamp(session.EndTimestamp),
		strconv.FormatInt(session.Duration, 10),
	})
}

// Close flushes and closes every open dataset file.
func (s *CSVSink) Close() error {
	var firstErr error
	for name, writer := range s.writers {
		writer.Flush()
		if err := writer.Error(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("flushing %s.csv: %w", name, err)
		}
	}
	for name, file := range s.files {
		if err := file.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing %s.csv: %w", name, err)
		}
	}
	return firstErr
}

func (s *CSVSink) write(name string, header, record []string) error {
	writer, ok := s.writers[name]
	if !ok {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		path := filepath.Join(s.dir, name+".csv")
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		writer = csv.NewWriter(file)
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("writing %s header: %w", path, err)
		}
		s.files[name] = file
		s.writers[name] = writer
	}

	if err := writer.Write(record); err != nil {
		return fmt.Errorf("writing %s.csv record: %w", name, err)
	}
	return nil
}

func formatTimestamp(epochSeconds int64) string {
	return time.Unix(epochSeconds, 0).UTC().Format(isoMillis)
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
