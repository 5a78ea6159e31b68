package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := &cli.App{
		Name:     "bracketctl",
		Writer:   &out,
		Commands: []*cli.Command{buildCommand(), sweepCommand(logger), tokenCommand()},
	}
	err := app.Run(append([]string{"bracketctl"}, args...))
	return out.String(), err
}

func TestCheckBracket(t *testing.T) {
	configs := []brackets.Config{
		{WinnersPerMatch: 1, ParticipantsPerMatch: 2},
		{WinnersPerMatch: 1, ParticipantsPerMatch: 2, DoubleElimination: true},
		{WinnersPerMatch: 2, ParticipantsPerMatch: 4},
	}
	for _, cfg := range configs {
		for _, n := range []int{2, 5, 8, 13} {
			require.NoError(t, checkBracket(context.Background(), n, cfg), "n=%d cfg=%+v", n, cfg)
		}
	}
}

func TestBuildCommand_Outline(t *testing.T) {
	out, err := runApp(t, "build", "--random", "5", "--double")
	require.NoError(t, err)
	assert.Contains(t, out, "Upper bracket")
	assert.Contains(t, out, "Lower bracket")
	assert.Contains(t, out, "Grand finals")
	assert.Contains(t, out, "(5 byes elided)")
}

func TestBuildCommand_JSONFromRoster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	doc := "name: Tiny\nentrants:\n  - name: a\n  - name: b\n  - name: c\n  - name: d\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	out, err := runApp(t, "build", "--roster", path, "--json")
	require.NoError(t, err)

	var decoded struct {
		Name    string `json:"name"`
		Bracket struct {
			UpperMatches []json.RawMessage `json:"upper_matches"`
		} `json:"bracket"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "Tiny", decoded.Name)
	assert.Len(t, decoded.Bracket.UpperMatches, 2)
}

func TestBuildCommand_SaveRandomRoster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "random.yaml")
	_, err := runApp(t, "build", "--random", "6", "--winners", "2", "--participants", "4", "--save", path)
	require.NoError(t, err)

	saved, err := roster.Load(path)
	require.NoError(t, err)
	require.Len(t, saved.Entrants, 6)
	assert.Equal(t, 2, saved.Format.WinnersPerMatch)
	assert.Equal(t, 4, saved.Format.ParticipantsPerMatch)
	for i, e := range saved.Entrants {
		assert.Equal(t, float64(i), e.Seed)
	}

	// The saved file rebuilds the same bracket.
	fromRandom, err := runApp(t, "build", "--roster", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(fromRandom, saved.Name+"\n"))
	assert.Contains(t, fromRandom, saved.Entrants[0].Name+" (#1)")
}

func TestBuildCommand_RequiresInput(t *testing.T) {
	_, err := runApp(t, "build")
	require.Error(t, err)
}

func TestSweepCommand(t *testing.T) {
	_, err := runApp(t, "sweep", "--min", "2", "--max", "20", "--double")
	require.NoError(t, err)

	_, err = runApp(t, "sweep", "--min", "5", "--max", "3")
	require.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	out, err := runApp(t, "token", "--secret", "dev-secret", "--subject", "sam")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(strings.TrimSpace(out), "."))

	_, err = runApp(t, "token", "--secret", "dev-secret", "--role", "overlord")
	require.Error(t, err)
}
