package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

const (
	minFlag     = "min"
	maxFlag     = "max"
	workersFlag = "workers"
)

type sweepFailure struct {
	entrants int
	err      error
}

func sweepCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "sweep",
		Usage: "Build and play out a bracket for every entrant count in a range",
		Flags: append([]cli.Flag{
			&cli.IntFlag{Name: minFlag, Value: 2, Usage: "Smallest entrant count"},
			&cli.IntFlag{Name: maxFlag, Value: 64, Usage: "Largest entrant count"},
			&cli.IntFlag{Name: workersFlag, Value: runtime.NumCPU(), Usage: "Brackets checked in parallel"},
		}, shapeFlags()...),
		Action: func(cCtx *cli.Context) error {
			lo, hi := cCtx.Int(minFlag), cCtx.Int(maxFlag)
			if lo < 2 || hi < lo {
				return fmt.Errorf("invalid range %d..%d", lo, hi)
			}
			format := formatFromFlags(cCtx)
			cfg := brackets.Config{
				WinnersPerMatch:      format.WinnersPerMatch,
				ParticipantsPerMatch: format.ParticipantsPerMatch,
				DoubleElimination:    format.IsDoubleElimination(),
			}

			var (
				mu       sync.Mutex
				failures []sweepFailure
			)
			g, ctx := errgroup.WithContext(cCtx.Context)
			g.SetLimit(max(1, cCtx.Int(workersFlag)))
			for n := lo; n <= hi; n++ {
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					if err := checkBracket(ctx, n, cfg); err != nil {
						mu.Lock()
						failures = append(failures, sweepFailure{entrants: n, err: err})
						mu.Unlock()
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			sort.Slice(failures, func(i, j int) bool { return failures[i].entrants < failures[j].entrants })
			for _, f := range failures {
				logger.Error("bracket check failed",
					slog.Int("entrants", f.entrants),
					slog.String("bracket_type", format.BracketType),
					slog.Any("error", f.err))
			}
			logger.Info("sweep finished",
				slog.Int("checked", hi-lo+1),
				slog.Int("failed", len(failures)),
				slog.String("bracket_type", format.BracketType),
				slog.Int("participants_per_match", cfg.ParticipantsPerMatch),
				slog.Int("winners_per_match", cfg.WinnersPerMatch))
			if len(failures) > 0 {
				return fmt.Errorf("%d of %d brackets failed", len(failures), hi-lo+1)
			}
			return nil
		},
	}
}

// checkBracket builds a bracket for n entrants, verifies its links and plays
// it out with the better seed always winning.
func checkBracket(ctx context.Context, n int, cfg brackets.Config) error {
	inputs := make([]brackets.EntrantInput, n)
	for i := range inputs {
		inputs[i] = brackets.EntrantInput{Name: fmt.Sprintf("entrant-%d", i+1), Seed: float64(i)}
	}

	b, err := brackets.New(inputs, cfg)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	if err := b.Verify(); err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	if err := playBySeed(ctx, b); err != nil {
		return err
	}
	if !b.Completed() {
		return errors.New("play-through stalled before the grand finals")
	}
	if got := len(b.Standings()); got != n {
		return fmt.Errorf("%d of %d entrants received a placement", got, n)
	}
	if champion := b.Standings()[0]; champion.Seed != 0 {
		return fmt.Errorf("champion is seed %d, want the top seed", champion.Seed)
	}
	return nil
}

func playBySeed(ctx context.Context, b *brackets.Bracket) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		progressed := false
		for _, m := range b.AllMatches() {
			if m.Resolved || !m.Ready() {
				continue
			}
			placements := make([]*brackets.Entrant, len(m.Participants))
			for i, p := range m.Participants {
				placements[i] = p.Entrant
			}
			sort.Slice(placements, func(i, j int) bool { return placements[i].Seed < placements[j].Seed })
			if err := b.Resolve(m.ID, placements); err != nil {
				return fmt.Errorf("resolve match %d: %w", m.ID, err)
			}
			progressed = true
		}
		if !progressed {
			return nil
		}
	}
}
