package pipeline

import (
	"sort"

	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/domain"
)

// flatEvent is a login or logout reduced to the fields session matching
// needs.
type flatEvent struct {
	userID    string
	timestamp int64
	eventID   int64
	kind      domain.EventType
}

// ReconstructSessions pairs login and logout events per user into closed
// session intervals.
//
// Logins and logouts are merged and stably sorted by timestamp (ties keep
// concatenation order: logins before logouts), then grouped by user. Each
// user's sequence is reduced left to right against a single open-session
// slot. Logouts spent closing a session during the lookahead step are
// marked consumed instead of being removed from the slice being iterated.
func ReconstructSessions(logins, logouts []domain.Event) []domain.Session {
	merged := make([]flatEvent, 0, len(logins)+len(logouts))
	for _, event := range logins {
		merged = append(merged, flatEvent{event.UserID(), event.Timestamp(), event.ID(), domain.EventTypeLogin})
	}
	for _, event := range logouts {
		merged = append(merged, flatEvent{event.UserID(), event.Timestamp(), event.ID(), domain.EventTypeLogout})
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].timestamp < merged[j].timestamp
	})

	var users []string
	byUser := make(map[string][]flatEvent)
	for _, event := range merged {
		if _, ok := byUser[event.userID]; !ok {
			users = append(users, event.userID)
		}
		byUser[event.userID] = append(byUser[event.userID], event)
	}

	var sessions []domain.Session
	for _, user := range users {
		sessions = append(sessions, reconstructUser(user, byUser[user])...)
	}
	return sessions
}

func reconstructUser(userID string, events []flatEvent) []domain.Session {
	var sessions []domain.Session
	consumed := make([]bool, len(events))

	open := false
	var start int64

	emit := func(end int64) {
		sessions = append(sessions, domain.Session{
			UserID:         userID,
			StartTimestamp: start,
			EndTimestamp:   end,
			Duration:       end - start,
		})
		open = false
	}

	for i, event := range events {
		if consumed[i] {
			continue
		}

		switch event.kind {
		case domain.EventTypeLogin:
			if open {
				// A login over an open session closes it with the first
				// still-available logout after the session's start, wherever
				// that logout sits in the sequence. A logout that already
				// closed a session on the direct path below was never
				// consumed, so it remains a candidate here. Logouts earlier
				// than this login can match too, as long as they follow the
				// open session's start. If nothing matches, the open session
				// is discarded unemitted.
				for j, candidate := range events {
					if consumed[j] || candidate.kind != domain.EventTypeLogout {
						continue
					}
					if candidate.timestamp > start {
						consumed[j] = true
						emit(candidate.timestamp)
						break
					}
				}
			}
			start = event.timestamp
			open = true

		case domain.EventTypeLogout:
			// Closes the open session, if any. A logout with no open
			// session is ignored.
			if open {
				emit(event.timestamp)
			}
		}
	}

	if open {
		// Trailing open session: force-close at the user's last remaining
		// event. That can be the opening login itself, which yields a
		// zero-duration session.
		for i := len(events) - 1; i >= 0; i-- {
			if !consumed[i] {
				emit(events[i].timestamp)
				break
			}
		}
	}

	return sessions
}
