package pipeline

import "github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/domain"

// Dedupe returns the events with exactly one entry per event_id. The
// first occurrence wins regardless of payload content; later duplicates
// are dropped without inspection. Single pass with a set lookup so large
// inputs stay O(n).
func Dedupe(events []domain.Event) []domain.Event {
	seen := make(map[int64]struct{}, len(events))
	unique := make([]domain.Event, 0, len(events))

	for _, event := range events {
		if _, ok := seen[event.ID()]; ok {
			continue
		}
		seen[event.ID()] = struct{}{}
		unique = append(unique, event)
	}

	return unique
}
