package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/metrics"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/realtime"
	"github.com/google/uuid"
)

type MatchFilter struct {
	Side      *brackets.Side
	ReadyOnly bool
}

// ResolveMatchInput lists the seeds of the match participants, best placement first.
type ResolveMatchInput struct {
	Placements []int `json:"placements"`
}

// MatchResolvedPayload is broadcast to viewers after every resolution.
type MatchResolvedPayload struct {
	TournamentID uuid.UUID       `json:"tournament_id"`
	Match        *brackets.Match `json:"match"`
	Completed    bool            `json:"completed"`
}

type MatchService interface {
	ListMatches(ctx context.Context, tournamentID uuid.UUID, filter MatchFilter) ([]*brackets.Match, error)
	ReadyMatches(ctx context.Context, tournamentID uuid.UUID) ([]*brackets.Match, error)
	ResolveMatch(ctx context.Context, tournamentID uuid.UUID, matchID int, input ResolveMatchInput) (*brackets.Match, error)
	Standings(ctx context.Context, tournamentID uuid.UUID) ([]models.Standing, error)
}

type matchService struct {
	registry    *TournamentRegistry
	metrics     metrics.BracketMetrics
	broadcaster Broadcaster
	logger      *slog.Logger
	now         func() time.Time
}

func NewMatchService(
	registry *TournamentRegistry,
	bracketMetrics metrics.BracketMetrics,
	broadcaster Broadcaster,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		registry:    registry,
		metrics:     bracketMetrics,
		broadcaster: broadcaster,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *matchService) ListMatches(ctx context.Context, tournamentID uuid.UUID, filter MatchFilter) ([]*brackets.Match, error) {
	entry, ok := s.registry.get(tournamentID)
	if !ok {
		return nil, ErrTournamentNotFound
	}
	t := entry.snapshot()

	matches := make([]*brackets.Match, 0)
	for _, m := range t.Bracket.AllMatches() {
		if filter.Side != nil && m.Side != *filter.Side {
			continue
		}
		if filter.ReadyOnly && (m.Resolved || !m.Ready()) {
			continue
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// ReadyMatches returns the unresolved matches whose participants are all known.
func (s *matchService) ReadyMatches(ctx context.Context, tournamentID uuid.UUID) ([]*brackets.Match, error) {
	return s.ListMatches(ctx, tournamentID, MatchFilter{ReadyOnly: true})
}

func (s *matchService) ResolveMatch(ctx context.Context, tournamentID uuid.UUID, matchID int, input ResolveMatchInput) (*brackets.Match, error) {
	entry, ok := s.registry.get(tournamentID)
	if !ok {
		return nil, ErrTournamentNotFound
	}

	entry.mu.Lock()
	t := entry.tournament
	m, ok := t.Bracket.Match(matchID)
	if !ok {
		entry.mu.Unlock()
		return nil, ErrMatchNotFound
	}
	if m.Resolved {
		entry.mu.Unlock()
		return nil, ErrMatchAlreadyResolved
	}
	if !m.Ready() {
		entry.mu.Unlock()
		return nil, ErrMatchNotReady
	}

	placements, err := placementsFromSeeds(m, input.Placements)
	if err != nil {
		entry.mu.Unlock()
		return nil, err
	}
	if err := t.Bracket.Resolve(matchID, placements); err != nil {
		entry.mu.Unlock()
		return nil, fmt.Errorf("failed to resolve match %d: %w", matchID, err)
	}

	completed := false
	if t.Bracket.Completed() && t.Status != models.StatusCompleted {
		completedAt := s.now().UTC()
		t.Status = models.StatusCompleted
		t.CompletedAt = &completedAt
		completed = true
	}
	side := string(m.Side)
	bracketType := t.Format.BracketType
	entry.mu.Unlock()

	// The entry may leave the registry concurrently; everything broadcast below
	// comes from this one snapshot.
	snapshot := entry.snapshot()
	resolved, _ := snapshot.Bracket.Match(matchID)

	s.metrics.RecordMatchResolved(side)
	s.logger.Info("match resolved",
		slog.String("tournament_id", tournamentID.String()),
		slog.Int("match_id", matchID),
		slog.String("side", side))

	room := realtime.RoomForTournament(tournamentID.String())
	s.broadcaster.BroadcastToRoom(room, realtime.Message{
		Type: realtime.MessageMatchResolved,
		Payload: MatchResolvedPayload{
			TournamentID: tournamentID,
			Match:        resolved,
			Completed:    completed,
		},
	})

	if completed {
		s.metrics.RecordTournamentCompleted(bracketType)
		s.logger.Info("tournament completed", slog.String("tournament_id", tournamentID.String()))
		standings := standingsOf(snapshot.Bracket)
		s.broadcaster.BroadcastToRoom(room, realtime.Message{
			Type: realtime.MessageTournamentCompleted,
			Payload: map[string]interface{}{
				"tournament_id": tournamentID,
				"standings":     standings,
			},
		})
	}

	return resolved, nil
}

// placementsFromSeeds maps the submitted seeds onto the entrants of the match.
// Every participant must be named exactly once.
func placementsFromSeeds(m *brackets.Match, seeds []int) ([]*brackets.Entrant, error) {
	if len(seeds) != len(m.Participants) {
		return nil, fmt.Errorf("%w: expected %d placements, got %d", ErrInvalidPlacement, len(m.Participants), len(seeds))
	}

	bySeed := make(map[int]*brackets.Entrant, len(m.Participants))
	for _, p := range m.Participants {
		bySeed[p.Entrant.Seed] = p.Entrant
	}

	placements := make([]*brackets.Entrant, len(seeds))
	for i, seed := range seeds {
		e, ok := bySeed[seed]
		if !ok {
			return nil, fmt.Errorf("%w: seed %d is not a participant of match %d or is listed twice", ErrInvalidPlacement, seed, m.ID)
		}
		placements[i] = e
		delete(bySeed, seed)
	}
	return placements, nil
}

func (s *matchService) Standings(ctx context.Context, tournamentID uuid.UUID) ([]models.Standing, error) {
	entry, ok := s.registry.get(tournamentID)
	if !ok {
		return nil, ErrTournamentNotFound
	}
	return standingsOf(entry.snapshot().Bracket), nil
}

func standingsOf(b *brackets.Bracket) []models.Standing {
	exited := b.Standings()
	standings := make([]models.Standing, 0, len(exited))
	for _, e := range exited {
		standings = append(standings, models.Standing{Place: *e.ExitedAs + 1, Entrant: e})
	}
	return standings
}
