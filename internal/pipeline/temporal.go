package pipeline

import "github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/domain"

// CutoffTimestamp is 2010-05-08 00:00:00 UTC. Anything at or before it
// predates the game going live and can only be leftover testing data.
const CutoffTimestamp int64 = 1273276800

// FilterBeforeCutoff drops every event timestamped at or before the
// cutoff instant.
func FilterBeforeCutoff(events []domain.Event) []domain.Event {
	kept := make([]domain.Event, 0, len(events))
	for _, event := range events {
		if event.Timestamp() > CutoffTimestamp {
			kept = append(kept, event)
		}
	}
	return kept
}
