package app

import (
	"sync"

	"github.com/dkeye/Huddle/internal/domain"
)

// Roster is the latest fetched participant set. No reconciliation
// beyond replace-wholesale on refresh.
type Roster struct {
	mu    sync.RWMutex
	items []domain.Participant
}

func NewRoster() *Roster { return &Roster{} }

func (r *Roster) Replace(items []domain.Participant) {
	r.mu.Lock()
	r.items = append([]domain.Participant(nil), items...)
	r.mu.Unlock()
}

func (r *Roster) Clear() { r.Replace(nil) }

func (r *Roster) Snapshot() []domain.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Participant(nil), r.items...)
}

func (r *Roster) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Find returns the roster entry for user, derived from the raw set on
// every call, never cached.
func Find(roster []domain.Participant, user domain.UserID) (domain.Participant, bool) {
	for _, p := range roster {
		if p.UserID == user {
			return p, true
		}
	}
	return domain.Participant{}, false
}

// IsParticipant reports whether user currently appears in the roster.
func IsParticipant(roster []domain.Participant, user domain.UserID) bool {
	_, ok := Find(roster, user)
	return ok
}

// IsModerator reports whether user holds an admin or owner entry.
// An absent entry means false, not an error.
func IsModerator(roster []domain.Participant, user domain.UserID) bool {
	p, ok := Find(roster, user)
	return ok && p.Role.IsModerator()
}
