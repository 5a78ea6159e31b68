package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/metrics"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/realtime"
	"github.com/google/uuid"
)

type CreateTournamentInput struct {
	Name     string                  `json:"name"`
	Format   models.Format           `json:"format"`
	Entrants []brackets.EntrantInput `json:"entrants"`
}

type TournamentService interface {
	CreateTournament(ctx context.Context, createdBy string, input CreateTournamentInput) (*models.Tournament, error)
	GetTournament(ctx context.Context, id uuid.UUID) (*models.Tournament, error)
	ListTournaments(ctx context.Context) ([]models.TournamentSummary, error)
	DeleteTournament(ctx context.Context, id uuid.UUID) error
}

// Broadcaster pushes bracket updates to live viewers.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message realtime.Message)
}

// Limits bounds what a single CreateTournament call may allocate.
type Limits struct {
	MaxEntrants  int
	MaxFieldSize int
}

type tournamentService struct {
	registry    *TournamentRegistry
	limits      Limits
	metrics     metrics.BracketMetrics
	broadcaster Broadcaster
	logger      *slog.Logger
	now         func() time.Time
}

func NewTournamentService(
	registry *TournamentRegistry,
	limits Limits,
	bracketMetrics metrics.BracketMetrics,
	broadcaster Broadcaster,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		registry:    registry,
		limits:      limits,
		metrics:     bracketMetrics,
		broadcaster: broadcaster,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, createdBy string, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	if s.limits.MaxEntrants > 0 && len(input.Entrants) > s.limits.MaxEntrants {
		return nil, fmt.Errorf("%w: %d entrants, limit is %d", ErrTooManyEntrants, len(input.Entrants), s.limits.MaxEntrants)
	}
	for i, e := range input.Entrants {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("%w: entrant #%d", ErrEntrantNameRequired, i+1)
		}
	}

	format := input.Format.WithDefaults()
	generator, err := brackets.NewGenerator(format.BracketType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	started := s.now()
	bracket, err := generator.GenerateBracket(ctx, brackets.GenerateBracketParams{
		Entrants:             input.Entrants,
		WinnersPerMatch:      format.WinnersPerMatch,
		ParticipantsPerMatch: format.ParticipantsPerMatch,
		MaxFieldSize:         s.limits.MaxFieldSize,
	})
	if err != nil {
		s.metrics.RecordBracketBuildError(generator.GetName())
		s.logger.Warn("bracket generation rejected",
			slog.String("bracket_type", generator.GetName()),
			slog.Int("entrants", len(input.Entrants)),
			slog.Any("error", err))
		if errors.Is(err, brackets.ErrFieldTooLarge) {
			return nil, fmt.Errorf("%w: %w", ErrTooManyEntrants, err)
		}
		if isConfigurationError(err) {
			return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
		}
		return nil, fmt.Errorf("failed to generate %s bracket: %w", generator.GetName(), err)
	}

	matches := len(bracket.AllMatches())
	s.metrics.RecordBracketBuilt(generator.GetName(), matches, bracket.ElidedCount(), s.now().Sub(started))

	tournament := &models.Tournament{
		ID:        uuid.New(),
		Name:      name,
		Format:    format,
		Status:    models.StatusActive,
		CreatedBy: createdBy,
		CreatedAt: s.now().UTC(),
		Bracket:   bracket,
	}
	s.registry.add(tournament)

	s.logger.Info("tournament created",
		slog.String("tournament_id", tournament.ID.String()),
		slog.String("bracket_type", format.BracketType),
		slog.Int("entrants", len(input.Entrants)),
		slog.Int("matches", matches),
		slog.Int("elided", bracket.ElidedCount()))

	return s.GetTournament(ctx, tournament.ID)
}

func isConfigurationError(err error) bool {
	return errors.Is(err, brackets.ErrInvalidMatchShape) ||
		errors.Is(err, brackets.ErrNotEnoughEntrants) ||
		errors.Is(err, brackets.ErrInvalidRoundSize) ||
		errors.Is(err, brackets.ErrUnconvergingBlueprint)
}

func (s *tournamentService) GetTournament(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	entry, ok := s.registry.get(id)
	if !ok {
		return nil, ErrTournamentNotFound
	}
	return entry.snapshot(), nil
}

func (s *tournamentService) ListTournaments(ctx context.Context) ([]models.TournamentSummary, error) {
	entries := s.registry.list()
	summaries := make([]models.TournamentSummary, 0, len(entries))
	for _, e := range entries {
		e.mu.RLock()
		t := e.tournament
		entrants := 0
		for _, en := range t.Bracket.Entrants {
			if !en.IsDummy {
				entrants++
			}
		}
		summaries = append(summaries, models.TournamentSummary{
			ID:           t.ID,
			Name:         t.Name,
			Format:       t.Format,
			Status:       t.Status,
			EntrantCount: entrants,
			CreatedAt:    t.CreatedAt,
		})
		e.mu.RUnlock()
	}
	return summaries, nil
}

func (s *tournamentService) DeleteTournament(ctx context.Context, id uuid.UUID) error {
	if !s.registry.remove(id) {
		return ErrTournamentNotFound
	}
	s.broadcaster.BroadcastToRoom(realtime.RoomForTournament(id.String()), realtime.Message{
		Type:    realtime.MessageTournamentDeleted,
		Payload: map[string]string{"tournament_id": id.String()},
	})
	s.logger.Info("tournament deleted", slog.String("tournament_id", id.String()))
	return nil
}
