package brackets

import (
	"fmt"
	"sort"
)

type Config struct {
	WinnersPerMatch      int  `json:"winners_per_match" yaml:"winners_per_match"`
	ParticipantsPerMatch int  `json:"participants_per_match" yaml:"participants_per_match"`
	DoubleElimination    bool `json:"double_elimination" yaml:"double_elimination"`
	// MaxFieldSize caps the padded field, BYEs included. Zero means no cap.
	MaxFieldSize int `json:"-" yaml:"-"`
}

// Bracket is the fully linked match graph of an elimination tournament.
// Its topology never changes after New returns; only match resolution state
// and entrant data are written while the tournament is played.
type Bracket struct {
	Entrants             []*Entrant `json:"entrants"`
	WinnersPerMatch      int        `json:"winners_per_match"`
	ParticipantsPerMatch int        `json:"participants_per_match"`
	DoubleElimination    bool       `json:"double_elimination"`
	UpperMatches         []*Match   `json:"upper_matches"`
	LowerMatches         []*Match   `json:"lower_matches,omitempty"`
	GrandFinals          *Match     `json:"grand_finals"`

	// arena holds every constructed match by ID; elided matches are nil.
	arena []*Match
}

// New assembles a bracket for the given entrants.
func New(inputs []EntrantInput, cfg Config) (*Bracket, error) {
	ppm, wpm := cfg.ParticipantsPerMatch, cfg.WinnersPerMatch
	if len(inputs) < 2 {
		if err := validateShape(ppm, wpm); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: got %d", ErrNotEnoughEntrants, len(inputs))
	}
	size, err := FieldSize(len(inputs), ppm, wpm)
	if err != nil {
		return nil, err
	}
	if cfg.MaxFieldSize > 0 && size > cfg.MaxFieldSize {
		return nil, fmt.Errorf("%w: %d slots for %d entrants, limit is %d", ErrFieldTooLarge, size, len(inputs), cfg.MaxFieldSize)
	}

	b := &Bracket{
		WinnersPerMatch:      wpm,
		ParticipantsPerMatch: ppm,
		DoubleElimination:    cfg.DoubleElimination,
	}

	entrants := normalizeEntrants(inputs)
	n := len(entrants)
	seeds := make([]int, size)
	for i := 0; i < size; i++ {
		if i < n {
			seeds[i] = i
			continue
		}
		entrants = append(entrants, newBye(i))
		seeds[i] = NoSeed
	}
	b.Entrants = entrants

	upper, err := b.buildUpperRounds(seeds)
	if err != nil {
		return nil, err
	}

	var lower []*Round
	if cfg.DoubleElimination {
		lower, err = b.buildLowerRounds(upper, size)
		if err != nil {
			return nil, err
		}
	}

	finals, err := b.buildGrandFinals(upper, lower)
	if err != nil {
		return nil, err
	}

	ordered := append(append([]*Round{}, upper...), lower...)
	if finals != upper[len(upper)-1] {
		ordered = append(ordered, finals)
	}
	if err := b.materialize(ordered); err != nil {
		return nil, err
	}

	b.elideRedundant()
	b.collect(finals)
	return b, nil
}

// FieldSize is the smallest participantsPerMatch*ratio^k that fits n entrants,
// where ratio is participantsPerMatch/winnersPerMatch. Slots past n are BYEs.
func FieldSize(n, participantsPerMatch, winnersPerMatch int) (int, error) {
	if err := validateShape(participantsPerMatch, winnersPerMatch); err != nil {
		return 0, err
	}
	ratio := participantsPerMatch / winnersPerMatch
	size := participantsPerMatch
	for size < n {
		size *= ratio
	}
	return size, nil
}

func (b *Bracket) roundOptions() RoundOptions {
	return RoundOptions{
		ParticipantsPerMatch: b.ParticipantsPerMatch,
		WinnersPerMatch:      b.WinnersPerMatch,
		AutoPad:              true,
	}
}

func (b *Bracket) buildUpperRounds(seeds []int) ([]*Round, error) {
	first, err := BuildRound(seeds, b.roundOptions())
	if err != nil {
		return nil, fmt.Errorf("upper round 1: %w", err)
	}
	first.side = SideUpper
	rounds := []*Round{first}

	for {
		prev := rounds[len(rounds)-1]
		winners := len(prev.WinnerSeeds)
		if winners < b.ParticipantsPerMatch || winners >= countSeeds(prev.ParticipantSeeds) {
			break
		}
		next, err := BuildRound(prev.WinnerSeeds, b.roundOptions())
		if err != nil {
			return nil, fmt.Errorf("upper round %d: %w", len(rounds)+1, err)
		}
		next.side = SideUpper
		next.RoundNum = len(rounds)
		next.fedFrom = []feed{{round: prev, kind: feedWinners}}
		rounds = append(rounds, next)
	}
	return rounds, nil
}

func (b *Bracket) buildLowerRounds(upper []*Round, size int) ([]*Round, error) {
	ppm, wpm := b.ParticipantsPerMatch, b.WinnersPerMatch
	firstRoundLosers := size / ppm * (ppm - wpm)

	blueprint, err := LosersBlueprint(firstRoundLosers, ppm, wpm)
	if err != nil {
		return nil, err
	}

	opts := b.roundOptions()
	opts.AutoPad = false

	var rounds []*Round
	nextUpper := 1
	for i, plan := range blueprint {
		var seeds []int
		var fedFrom []feed
		var consumed *Round

		switch {
		case i == 0:
			consumed = upper[0]
			seeds = append(seeds, consumed.LoserSeeds...)
			fedFrom = []feed{{round: consumed, kind: feedLosers}}
		case plan.Half:
			prev := rounds[i-1]
			seeds = append(seeds, prev.WinnerSeeds...)
			fedFrom = []feed{{round: prev, kind: feedWinners}}
		default:
			if nextUpper >= len(upper) {
				return nil, fmt.Errorf("%w: lower round %d has no upper round left to draw losers from", ErrMissingLinkage, i+1)
			}
			prev := rounds[i-1]
			consumed = upper[nextUpper]
			nextUpper++
			seeds = append(seeds, prev.WinnerSeeds...)
			seeds = append(seeds, consumed.LoserSeeds...)
			fedFrom = []feed{{round: prev, kind: feedWinners}, {round: consumed, kind: feedLosers}}
		}

		opts.Placeholders = plan.Participants - len(seeds)
		if opts.Placeholders < 0 {
			return nil, fmt.Errorf("%w: lower round %d planned for %d participants but receives %d",
				ErrMissingLinkage, i+1, plan.Participants, len(seeds))
		}
		round, err := BuildRound(seeds, opts)
		if err != nil {
			return nil, fmt.Errorf("lower round %d: %w", i+1, err)
		}
		round.side = SideLower
		round.RoundNum = i
		round.fedFrom = fedFrom
		if consumed != nil {
			consumed.RoundNum = i
		}
		rounds = append(rounds, round)
	}

	if nextUpper != len(upper) {
		return nil, fmt.Errorf("%w: losers of %d upper rounds never reach the lower bracket",
			ErrMissingLinkage, len(upper)-nextUpper)
	}
	return rounds, nil
}

func (b *Bracket) buildGrandFinals(upper, lower []*Round) (*Round, error) {
	lastUpper := upper[len(upper)-1]
	if len(lower) == 0 {
		lastUpper.side = SideGrandFinals
		return lastUpper, nil
	}
	lastLower := lower[len(lower)-1]

	seeds := append(append([]int{}, lastUpper.WinnerSeeds...), lastLower.WinnerSeeds...)
	finals, err := BuildRound(seeds, RoundOptions{
		ParticipantsPerMatch: len(seeds),
		WinnersPerMatch:      1,
	})
	if err != nil {
		return nil, fmt.Errorf("grand finals: %w", err)
	}
	finals.side = SideGrandFinals
	finals.fedFrom = []feed{{round: lastUpper, kind: feedWinners}, {round: lastLower, kind: feedWinners}}
	finals.RoundNum = max(lastUpper.RoundNum, lastLower.RoundNum) + 1
	return finals, nil
}

// materialize creates the match objects of every round in order and links each
// participant slot to the result slot that feeds it.
func (b *Bracket) materialize(rounds []*Round) error {
	for _, round := range rounds {
		for _, group := range round.MatchGroups {
			id := len(b.arena)
			participants := make([]Participant, len(group))

			for slot, seed := range group {
				participants[slot].TheoreticalSeed = seed
				if round.fedFrom == nil {
					participants[slot].Entrant = b.Entrants[seed]
					continue
				}
				src, pos, err := traceSeed(round, seed)
				if err != nil {
					return err
				}
				participants[slot].From = &SlotRef{MatchID: src.ID, Slot: pos}
				src.Results[pos].To = &SlotRef{MatchID: id, Slot: slot}
				src.Results[0].Draw = true
			}

			m := newMatch(id, round.RoundNum, round.side, participants)
			b.arena = append(b.arena, m)
			round.matches = append(round.matches, m)
		}
	}
	return nil
}

func traceSeed(round *Round, seed int) (*Match, int, error) {
	for _, f := range round.fedFrom {
		if group, pos, ok := f.round.locate(seed, f.kind); ok {
			return f.round.matches[group], pos, nil
		}
	}
	return nil, 0, fmt.Errorf("%w: seed %d in %s round %d", ErrMissingLinkage, seed, round.side, round.RoundNum)
}

// redundant reports whether a match has no losing outcome to decide and only
// forwards its participants.
func (b *Bracket) redundant(m *Match) bool {
	return len(m.Participants) <= b.WinnersPerMatch && m.allResultsLinked()
}

// elideRedundant removes bye-through matches, wiring each of their inputs
// straight into the slot the match would have forwarded it to. Matches are
// visited in creation order so chains of redundant matches collapse fully.
func (b *Bracket) elideRedundant() {
	for id, m := range b.arena {
		if m == nil || !b.redundant(m) {
			continue
		}
		for slot, p := range m.Participants {
			dest := *m.Results[slot].To
			target := &b.arena[dest.MatchID].Participants[dest.Slot]
			if p.From == nil {
				target.Entrant = p.Entrant
				target.From = nil
				continue
			}
			src := b.arena[p.From.MatchID]
			src.Results[p.From.Slot].To = &SlotRef{MatchID: dest.MatchID, Slot: dest.Slot}
			src.Results[0].Draw = true
			target.From = &SlotRef{MatchID: p.From.MatchID, Slot: p.From.Slot}
		}
		b.arena[id] = nil
	}
}

func (b *Bracket) collect(finals *Round) {
	for _, m := range b.arena {
		if m == nil {
			continue
		}
		switch m.Side {
		case SideUpper:
			b.UpperMatches = append(b.UpperMatches, m)
		case SideLower:
			b.LowerMatches = append(b.LowerMatches, m)
		}
	}
	for _, m := range finals.matches {
		if b.arena[m.ID] != nil {
			b.GrandFinals = m
		}
	}
}

// AllMatches returns upper bracket, lower bracket and grand finals matches in that order.
func (b *Bracket) AllMatches() []*Match {
	all := make([]*Match, 0, len(b.UpperMatches)+len(b.LowerMatches)+1)
	all = append(all, b.UpperMatches...)
	all = append(all, b.LowerMatches...)
	if b.GrandFinals != nil {
		all = append(all, b.GrandFinals)
	}
	return all
}

// Match looks up a match by ID. Elided matches are not found.
func (b *Bracket) Match(id int) (*Match, bool) {
	if id < 0 || id >= len(b.arena) || b.arena[id] == nil {
		return nil, false
	}
	return b.arena[id], true
}

// Completed reports whether the grand finals have been resolved.
func (b *Bracket) Completed() bool {
	return b.GrandFinals != nil && b.GrandFinals.Resolved
}

// Standings returns the entrants that already have a final placement, best first.
func (b *Bracket) Standings() []*Entrant {
	var out []*Entrant
	for _, e := range b.Entrants {
		if !e.IsDummy && e.Exited() {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].ExitedAs < *out[j].ExitedAs
	})
	return out
}

func countSeeds(seeds []int) int {
	n := 0
	for _, s := range seeds {
		if s != NoSeed {
			n++
		}
	}
	return n
}

// ElidedCount is the number of bye-through matches removed during assembly.
func (b *Bracket) ElidedCount() int {
	n := 0
	for _, m := range b.arena {
		if m == nil {
			n++
		}
	}
	return n
}
