package services

import (
	"sort"
	"sync"

	"github.com/Dosada05/tournament-brackets/models"
	"github.com/google/uuid"
)

// tournamentEntry guards one live tournament. Resolutions take the write lock,
// every read works on a clone taken under the read lock.
type tournamentEntry struct {
	mu         sync.RWMutex
	tournament *models.Tournament
}

// snapshot copies the tournament so callers never observe a bracket mid-resolution.
func (e *tournamentEntry) snapshot() *models.Tournament {
	e.mu.RLock()
	defer e.mu.RUnlock()
	t := *e.tournament
	if t.Bracket != nil {
		t.Bracket = t.Bracket.Clone()
	}
	if t.CompletedAt != nil {
		completedAt := *t.CompletedAt
		t.CompletedAt = &completedAt
	}
	return &t
}

// TournamentRegistry keeps the tournaments served by this process in memory.
type TournamentRegistry struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*tournamentEntry
}

func NewTournamentRegistry() *TournamentRegistry {
	return &TournamentRegistry{entries: make(map[uuid.UUID]*tournamentEntry)}
}

func (r *TournamentRegistry) add(t *models.Tournament) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[t.ID] = &tournamentEntry{tournament: t}
}

func (r *TournamentRegistry) get(id uuid.UUID) (*tournamentEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

func (r *TournamentRegistry) remove(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return false
	}
	delete(r.entries, id)
	return true
}

// list returns the entries ordered by creation time, oldest first.
func (r *TournamentRegistry) list() []*tournamentEntry {
	r.mu.RLock()
	entries := make([]*tournamentEntry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].tournament, entries[j].tournament
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID.String() < b.ID.String()
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return entries
}
