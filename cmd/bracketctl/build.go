package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/roster"
	"github.com/urfave/cli/v2"
)

const (
	rosterFlag       = "roster"
	randomFlag       = "random"
	doubleFlag       = "double"
	winnersFlag      = "winners"
	participantsFlag = "participants"
	jsonFlag         = "json"
	saveFlag         = "save"
)

func shapeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  doubleFlag,
			Usage: "Build a double elimination bracket",
		},
		&cli.IntFlag{
			Name:  winnersFlag,
			Usage: "Winners per match",
			Value: models.DefaultWinnersPerMatch,
		},
		&cli.IntFlag{
			Name:  participantsFlag,
			Usage: "Participants per match",
			Value: models.DefaultParticipantsPerMatch,
		},
	}
}

func formatFromFlags(cCtx *cli.Context) models.Format {
	f := models.Format{
		BracketType:          brackets.BracketTypeSingleElimination,
		WinnersPerMatch:      cCtx.Int(winnersFlag),
		ParticipantsPerMatch: cCtx.Int(participantsFlag),
	}
	if cCtx.Bool(doubleFlag) {
		f.BracketType = brackets.BracketTypeDoubleElimination
	}
	return f
}

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Build a bracket from a roster file or random entrants and print it",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    rosterFlag,
				Aliases: []string{"r"},
				Usage:   "Path to a YAML or JSON roster",
			},
			&cli.IntFlag{
				Name:  randomFlag,
				Usage: "Generate this many entrants with random names",
			},
			&cli.BoolFlag{
				Name:  jsonFlag,
				Usage: "Print the bracket as JSON",
			},
			&cli.StringFlag{
				Name:  saveFlag,
				Usage: "Write the roster the bracket was built from to this YAML file",
			},
		}, shapeFlags()...),
		Action: func(cCtx *cli.Context) error {
			var r *roster.Roster
			switch {
			case cCtx.IsSet(rosterFlag):
				loaded, err := roster.Load(cCtx.String(rosterFlag))
				if err != nil {
					return err
				}
				r = loaded
				// Shape flags override the roster only when given explicitly.
				if cCtx.IsSet(doubleFlag) || cCtx.IsSet(winnersFlag) || cCtx.IsSet(participantsFlag) {
					r.Format = formatFromFlags(cCtx)
				}
			case cCtx.Int(randomFlag) > 0:
				r = roster.Random(cCtx.Int(randomFlag), formatFromFlags(cCtx))
			default:
				return errors.New("either --roster or --random is required")
			}

			b, err := brackets.New(r.Entrants, r.Config())
			if err != nil {
				return fmt.Errorf("build bracket: %w", err)
			}
			if path := cCtx.String(saveFlag); path != "" {
				if err := r.Save(path); err != nil {
					return err
				}
			}

			out := cCtx.App.Writer
			if cCtx.Bool(jsonFlag) {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Name    string            `json:"name"`
					Format  models.Format     `json:"format"`
					Bracket *brackets.Bracket `json:"bracket"`
				}{r.Name, r.Format, b})
			}
			printOutline(out, r.Name, b)
			return nil
		},
	}
}

func printOutline(w io.Writer, name string, b *brackets.Bracket) {
	if name != "" {
		fmt.Fprintf(w, "%s\n", name)
	}
	fmt.Fprintf(w, "%d entrants, %d per match, %d advance, %d matches (%d byes elided)\n",
		len(b.Entrants), b.ParticipantsPerMatch, b.WinnersPerMatch, len(b.AllMatches()), b.ElidedCount())

	section := func(title string, matches []*brackets.Match) {
		if len(matches) == 0 {
			return
		}
		fmt.Fprintf(w, "\n%s\n", title)
		round := -1
		for _, m := range matches {
			if m.Round != round {
				round = m.Round
				fmt.Fprintf(w, "  round %d\n", round+1)
			}
			fmt.Fprintf(w, "    m%-4d %s\n", m.ID, matchLine(m))
		}
	}
	section("Upper bracket", b.UpperMatches)
	section("Lower bracket", b.LowerMatches)
	if b.GrandFinals != nil {
		section("Grand finals", []*brackets.Match{b.GrandFinals})
	}
}

func matchLine(m *brackets.Match) string {
	names := make([]string, len(m.Participants))
	for i, p := range m.Participants {
		switch {
		case p.Entrant != nil:
			names[i] = fmt.Sprintf("%s (#%d)", p.Entrant.Name, p.Entrant.Seed+1)
		case p.From != nil:
			names[i] = fmt.Sprintf("m%d.%d", p.From.MatchID, p.From.Slot+1)
		default:
			names[i] = "?"
		}
	}

	var targets []string
	for i, r := range m.Results {
		if r.To != nil {
			targets = append(targets, fmt.Sprintf("%d->m%d", i+1, r.To.MatchID))
		}
	}
	line := strings.Join(names, " vs ")
	if len(targets) > 0 {
		line += "  [" + strings.Join(targets, " ") + "]"
	}
	return line
}
