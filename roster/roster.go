// Package roster reads tournament rosters from YAML (or JSON) files.
package roster

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/models"
	petname "github.com/dustinkirkland/golang-petname"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyRoster   = errors.New("roster has no entrants")
	ErrUnnamedEntry  = errors.New("roster entrant has no name")
	ErrDuplicateName = errors.New("roster entrant name is used twice")
)

// Roster is a tournament definition as kept in a file.
type Roster struct {
	Name     string                  `yaml:"name" json:"name"`
	Format   models.Format           `yaml:"format" json:"format"`
	Entrants []brackets.EntrantInput `yaml:"entrants" json:"entrants"`
}

// Load reads and validates the roster at path.
func Load(path string) (*Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	r, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("roster %s: %w", path, err)
	}
	return r, nil
}

// Parse decodes a roster. Unknown keys are rejected. Entrants without an
// explicit seed keep their file order.
func Parse(r io.Reader) (*Roster, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var out Roster
	if err := dec.Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyRoster
		}
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	out.Format = out.Format.WithDefaults()
	return &out, nil
}

func (r *Roster) Validate() error {
	if len(r.Entrants) == 0 {
		return ErrEmptyRoster
	}
	seen := make(map[string]int, len(r.Entrants))
	for i, e := range r.Entrants {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return fmt.Errorf("%w: entry #%d", ErrUnnamedEntry, i+1)
		}
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("%w: %q (entries #%d and #%d)", ErrDuplicateName, name, prev+1, i+1)
		}
		seen[name] = i
	}
	return nil
}

// Config returns the core bracket configuration for the roster's format.
func (r *Roster) Config() brackets.Config {
	f := r.Format.WithDefaults()
	return brackets.Config{
		WinnersPerMatch:      f.WinnersPerMatch,
		ParticipantsPerMatch: f.ParticipantsPerMatch,
		DoubleElimination:    f.IsDoubleElimination(),
	}
}

// Random builds a roster of n entrants with generated names, seeded in order.
func Random(n int, format models.Format) *Roster {
	r := &Roster{
		Name:     petname.Generate(2, " "),
		Format:   format.WithDefaults(),
		Entrants: make([]brackets.EntrantInput, 0, n),
	}
	seen := make(map[string]bool, n)
	for len(r.Entrants) < n {
		name := petname.Generate(2, "-")
		if seen[name] {
			name = fmt.Sprintf("%s-%d", name, len(r.Entrants)+1)
		}
		seen[name] = true
		r.Entrants = append(r.Entrants, brackets.EntrantInput{Name: name, Seed: float64(len(r.Entrants))})
	}
	return r
}

// Save writes the roster to path as YAML, replacing any existing file.
func (r *Roster) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create roster: %w", err)
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode writes the roster as YAML.
func (r *Roster) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode roster: %w", err)
	}
	return enc.Close()
}
