package brackets

import "fmt"

// maxBlueprintIterations bounds the planner. Every supported shape converges
// in a few dozen steps even for very large fields.
const maxBlueprintIterations = 128

// BlueprintRound describes one lower bracket round ahead of construction.
// A half round only consolidates lower bracket survivors; a full round also
// takes in the losers of the next upper bracket round.
type BlueprintRound struct {
	Participants int  `json:"participants"`
	Half         bool `json:"half"`
}

// LosersBlueprint plans the lower bracket for a field whose first upper round
// sends firstRoundLosers entrants down. Rounds are returned first to last.
//
// The plan is simulated backwards from a terminal round shaped like a single
// match. At each step the round feeding the current one needs
// survivors*ratio participants; if the upper bracket would deliver at least
// that many fresh losers at the next depth there is no room for survivors and
// the round becomes a half round, otherwise it is a full round and the upper
// depth advances.
func LosersBlueprint(firstRoundLosers, participantsPerMatch, winnersPerMatch int) ([]BlueprintRound, error) {
	ppm, wpm := participantsPerMatch, winnersPerMatch
	if err := validateShape(ppm, wpm); err != nil {
		return nil, err
	}
	if firstRoundLosers < 1 {
		return nil, fmt.Errorf("%w: %d first round losers", ErrUnconvergingBlueprint, firstRoundLosers)
	}

	ratio := ppm / wpm
	losersPerMatch := ppm - wpm

	// fresh is the number of losers the upper round at depth d (0 = upper
	// final) sends down.
	fresh := func(d int) int {
		n := losersPerMatch
		for i := 0; i < d; i++ {
			n *= ratio
		}
		return n
	}

	if firstRoundLosers <= fresh(0) {
		return []BlueprintRound{{Participants: roundUp(firstRoundLosers, ppm)}}, nil
	}

	rounds := []BlueprintRound{{Participants: ppm}}
	depth := 0
	survivors := ppm - fresh(0)

	for iter := 0; ; iter++ {
		if iter >= maxBlueprintIterations {
			return nil, fmt.Errorf("%w: %d first round losers with %d of %d advancing after %d iterations",
				ErrUnconvergingBlueprint, firstRoundLosers, wpm, ppm, iter)
		}

		required := survivors * ratio
		incoming := fresh(depth + 1)

		if incoming >= firstRoundLosers {
			// Shallowest depth: the first lower round takes the first upper round's losers.
			if incoming <= required {
				rounds = append(rounds, BlueprintRound{Participants: required})
				break
			}
			rounds = append(rounds, BlueprintRound{Participants: required, Half: true})
			survivors = required
			continue
		}

		if incoming >= required {
			rounds = append(rounds, BlueprintRound{Participants: required, Half: true})
			survivors = required
			continue
		}

		rounds = append(rounds, BlueprintRound{Participants: required})
		depth++
		survivors = required - incoming
	}

	for i, j := 0, len(rounds)-1; i < j; i, j = i+1, j-1 {
		rounds[i], rounds[j] = rounds[j], rounds[i]
	}
	rounds[len(rounds)-1].Half = false
	return rounds, nil
}

func validateShape(ppm, wpm int) error {
	if ppm < 2 || wpm < 1 || wpm >= ppm || ppm%wpm != 0 {
		return fmt.Errorf("%w: %d winners of %d participants", ErrInvalidMatchShape, wpm, ppm)
	}
	return nil
}

func roundUp(n, multiple int) int {
	if rem := n % multiple; rem != 0 {
		return n + multiple - rem
	}
	return n
}
