package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/domain"
	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/parser"
	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/sink"
)

// Pipeline runs the full cleaning sequence over a materialized input set:
// validate, dedupe, temporal filter, registration gate, currency
// normalization, grouping, session reconstruction. Each stage fully
// consumes its predecessor's output; the working set is owned by exactly
// one stage at a time.
type Pipeline struct {
	parser *parser.EventParser
	log    *zap.Logger
}

// New creates a pipeline.
func New(log *zap.Logger) *Pipeline {
	return &Pipeline{
		parser: parser.NewEventParser(),
		log:    log,
	}
}

// Run cleans the raw event and exchange-rate lines and emits every
// retained record, plus the reconstructed sessions, into out. The caller
// owns the sink and closes it.
func (p *Pipeline) Run(eventLines, rateLines []string, out sink.DatasetSink) error {
	p.log.Info("Starting pipeline",
		zap.Int("event_lines", len(eventLines)),
		zap.Int("rate_lines", len(rateLines)))

	events, rejectedEvents, err := p.parser.ParseEvents(eventLines)
	if err != nil {
		return err
	}
	rates, rejectedRates, err := p.parser.ParseRates(rateLines)
	if err != nil {
		return err
	}
	p.log.Info("Parsed input",
		zap.Int("events", len(events)),
		zap.Int("rejected_events", rejectedEvents),
		zap.Int("exchange_rates", len(rates)),
		zap.Int("rejected_rates", rejectedRates))

	events = Dedupe(events)
	p.log.Info("Deduplicated events", zap.Int("unique", len(events)))

	events = FilterBeforeCutoff(events)
	events = FilterRegistered(events)
	p.log.Info("Filtered events", zap.Int("remaining", len(events)))

	NormalizeCurrency(events, rates)

	grouped := GroupByType(events)
	for eventType, partition := range grouped {
		p.log.Info("Grouped events",
			zap.String("event_type", string(eventType)),
			zap.Int("count", len(partition)))
	}

	if err := p.emitEvents(grouped, out); err != nil {
		return err
	}

	sessions := ReconstructSessions(
		grouped[domain.EventTypeLogin],
		grouped[domain.EventTypeLogout],
	)
	p.log.Info("Reconstructed sessions", zap.Int("sessions", len(sessions)))

	for _, session := range sessions {
		if err := out.WriteSession(session); err != nil {
			return fmt.Errorf("writing session: %w", err)
		}
	}

	return nil
}

func (p *Pipeline) emitEvents(grouped map[domain.EventType][]domain.Event, out sink.DatasetSink) error {
	for _, event := range grouped[domain.EventTypeRegistration] {
		if err := out.WriteRegistration(event.(*domain.Registration)); err != nil {
			return fmt.Errorf("writing registration: %w", err)
		}
	}
	for _, event := range grouped[domain.EventTypeLogin] {
		if err := out.WriteLogin(event.(*domain.Login)); err != nil {
			return fmt.Errorf("writing login: %w", err)
		}
	}
	for _, event := range grouped[domain.EventTypeTransaction] {
		if err := out.WriteTransaction(event.(*domain.Transaction)); err != nil {
			return fmt.Errorf("writing transaction: %w", err)
		}
	}
	for _, event := range grouped[domain.EventTypeLogout] {
		if err := out.WriteLogout(event.(*domain.Logout)); err != nil {
			return fmt.Errorf("writing logout: %w", err)
		}
	}
	return nil
}
