package pipeline

import "github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/domain"

// FilterRegistered restricts the working set to events whose user appears
// in at least one registration event of the same set. One pass builds the
// registered-user set, a second pass filters against it.
func FilterRegistered(events []domain.Event) []domain.Event {
	registered := make(map[string]struct{})
	for _, event := range events {
		if event.Type() == domain.EventTypeRegistration {
			registered[event.UserID()] = struct{}{}
		}
	}

	kept := make([]domain.Event, 0, len(events))
	for _, event := range events {
		if _, ok := registered[event.UserID()]; ok {
			kept = append(kept, event)
		}
	}
	return kept
}
