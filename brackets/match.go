package brackets

import "fmt"

type Side string

const (
	SideUpper       Side = "upper"
	SideLower       Side = "lower"
	SideGrandFinals Side = "grand_finals"
)

// SlotRef addresses one participant or result slot of a match in the bracket arena.
type SlotRef struct {
	MatchID int `json:"match_id"`
	Slot    int `json:"slot"`
}

// Participant is an input slot of a match. A first-round slot carries its
// entrant directly; every other slot is fed From a result of an earlier match
// and receives its entrant when that match is resolved.
type Participant struct {
	From            *SlotRef `json:"from,omitempty"`
	Entrant         *Entrant `json:"entrant,omitempty"`
	TheoreticalSeed int      `json:"theoretical_seed"`
}

// Result is an output slot of a match. To is nil when the slot is a final
// placement. Draw is only a rendering hint.
type Result struct {
	Draw    bool     `json:"draw"`
	To      *SlotRef `json:"to,omitempty"`
	Entrant *Entrant `json:"entrant,omitempty"`
}

type Match struct {
	ID           int           `json:"id"`
	Round        int           `json:"round"`
	Side         Side          `json:"side"`
	Participants []Participant `json:"participants"`
	Results      []Result      `json:"results"`
	Resolved     bool          `json:"resolved"`
}

func newMatch(id, round int, side Side, participants []Participant) *Match {
	return &Match{
		ID:           id,
		Round:        round,
		Side:         side,
		Participants: participants,
		Results:      make([]Result, len(participants)),
	}
}

// Ready reports whether every participant slot already holds an entrant.
func (m *Match) Ready() bool {
	for _, p := range m.Participants {
		if p.Entrant == nil {
			return false
		}
	}
	return true
}

// Terminal reports whether no result of the match feeds another match.
func (m *Match) Terminal() bool {
	for _, r := range m.Results {
		if r.To != nil {
			return false
		}
	}
	return true
}

func (m *Match) allResultsLinked() bool {
	for _, r := range m.Results {
		if r.To == nil {
			return false
		}
	}
	return true
}

// Resolve records the outcome of a match. placements lists one entrant per
// result slot, best placement first. Each entrant is written into its result
// and pushed into the downstream participant slot; entrants without a
// downstream slot get their final placement from the match's theoretical seeds.
// Whether placements is a permutation of the match's participants is left to
// the caller.
func (b *Bracket) Resolve(matchID int, placements []*Entrant) error {
	m, ok := b.Match(matchID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrMatchNotFound, matchID)
	}
	if len(placements) != len(m.Results) {
		return fmt.Errorf("%w: match %d has %d slots, got %d", ErrPlacementCount, matchID, len(m.Results), len(placements))
	}

	m.Resolved = true
	for i, e := range placements {
		res := &m.Results[i]
		res.Entrant = e
		if res.To != nil {
			b.arena[res.To.MatchID].Participants[res.To.Slot].Entrant = e
			continue
		}
		if e != nil {
			e.markExited(m.Participants[i].TheoreticalSeed)
		}
	}
	return nil
}
