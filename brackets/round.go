package brackets

import (
	"fmt"
	"sort"
)

// NoSeed marks an empty slot in a seed list. It never ends up in a match.
const NoSeed = -1

// RoundOptions configures BuildRound. AutoPad pads the seed list up to the
// next multiple of ParticipantsPerMatch; otherwise exactly Placeholders empty
// slots are appended and the result must divide evenly.
type RoundOptions struct {
	ParticipantsPerMatch int
	WinnersPerMatch      int
	Placeholders         int
	AutoPad              bool
}

type feedKind int

const (
	feedWinners feedKind = iota
	feedLosers
)

// feed records that a round takes either the winners or the losers of an earlier round.
type feed struct {
	round *Round
	kind  feedKind
}

// Round is a construction-time plan for one round of matches. It only lives
// while a bracket is being assembled.
type Round struct {
	ParticipantSeeds []int
	MatchGroups      [][]int
	WinnerSeeds      []int
	LoserSeeds       []int
	RoundNum         int

	side            Side
	winnersPerMatch int
	fedFrom         []feed
	matches         []*Match
}

// BuildRound partitions seeds into the matches of a single round.
//
// Seeds are sorted ascending and the flat position i+j*numMatches is placed in
// match i for the first WinnersPerMatch rows and in the mirrored match
// numMatches-1-i for the rest, which keeps the best seeds apart for as long as
// possible. Empty slots are dropped and every group is sorted again, so the
// position inside a group decides whether a seed is expected to win or lose.
func BuildRound(seeds []int, opts RoundOptions) (*Round, error) {
	ppm, wpm := opts.ParticipantsPerMatch, opts.WinnersPerMatch
	if ppm < 1 || wpm < 1 || wpm > ppm {
		return nil, fmt.Errorf("%w: %d winners of %d participants", ErrInvalidMatchShape, wpm, ppm)
	}

	padded := make([]int, len(seeds), len(seeds)+ppm)
	copy(padded, seeds)
	sort.Slice(padded, func(i, j int) bool {
		a, b := padded[i], padded[j]
		if a == NoSeed || b == NoSeed {
			return b == NoSeed && a != NoSeed
		}
		return a < b
	})

	switch {
	case opts.AutoPad:
		for len(padded)%ppm != 0 {
			padded = append(padded, NoSeed)
		}
	case opts.Placeholders > 0:
		for i := 0; i < opts.Placeholders; i++ {
			padded = append(padded, NoSeed)
		}
	}
	if len(padded)%ppm != 0 {
		return nil, fmt.Errorf("%w: %d seeds for matches of %d", ErrInvalidRoundSize, len(padded), ppm)
	}

	numMatches := len(padded) / ppm
	groups := make([][]int, numMatches)
	for i := 0; i < numMatches; i++ {
		for j := 0; j < ppm; j++ {
			seed := padded[i+j*numMatches]
			if seed == NoSeed {
				continue
			}
			target := i
			if j >= wpm {
				target = numMatches - 1 - i
			}
			groups[target] = append(groups[target], seed)
		}
	}

	round := &Round{ParticipantSeeds: padded, winnersPerMatch: wpm}
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		sort.Ints(g)
		round.MatchGroups = append(round.MatchGroups, g)
		for pos, seed := range g {
			if pos < wpm {
				round.WinnerSeeds = append(round.WinnerSeeds, seed)
			} else {
				round.LoserSeeds = append(round.LoserSeeds, seed)
			}
		}
	}
	return round, nil
}

// locate finds the group and position of seed among the seeds this round hands
// on as kind.
func (r *Round) locate(seed int, kind feedKind) (group, pos int, ok bool) {
	for gi, g := range r.MatchGroups {
		for pi, s := range g {
			if s != seed {
				continue
			}
			if (pi < r.winnersPerMatch) == (kind == feedWinners) {
				return gi, pi, true
			}
			return 0, 0, false
		}
	}
	return 0, 0, false
}
