package pipeline

import "github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/domain"

// GroupByType partitions the working set into one sequence per event
// type, preserving relative order within each partition. Pure grouping,
// nothing is dropped.
func GroupByType(events []domain.Event) map[domain.EventType][]domain.Event {
	grouped := make(map[domain.EventType][]domain.Event)
	for _, event := range events {
		grouped[event.Type()] = append(grouped[event.Type()], event)
	}
	return grouped
}
