package brackets

import (
	"errors"
	"fmt"
)

// ErrInconsistentLinks is returned by Verify when a participant and the result
// feeding it do not point at each other.
var ErrInconsistentLinks = errors.New("bracket links are inconsistent")

// Verify checks the structural invariants of an assembled bracket: every
// forward link has a matching back link, no exposed match only forwards its
// participants, and every non-terminal match feeds an exposed match.
func (b *Bracket) Verify() error {
	for _, m := range b.AllMatches() {
		if b.redundant(m) {
			return fmt.Errorf("%w: match %d forwards every participant", ErrInconsistentLinks, m.ID)
		}
		for slot, res := range m.Results {
			if res.To == nil {
				continue
			}
			dst, ok := b.Match(res.To.MatchID)
			if !ok {
				return fmt.Errorf("%w: match %d result %d feeds missing match %d",
					ErrInconsistentLinks, m.ID, slot, res.To.MatchID)
			}
			if res.To.Slot < 0 || res.To.Slot >= len(dst.Participants) {
				return fmt.Errorf("%w: match %d result %d feeds slot %d of match %d",
					ErrInconsistentLinks, m.ID, slot, res.To.Slot, dst.ID)
			}
			from := dst.Participants[res.To.Slot].From
			if from == nil || from.MatchID != m.ID || from.Slot != slot {
				return fmt.Errorf("%w: match %d slot %d is not fed back by match %d result %d",
					ErrInconsistentLinks, dst.ID, res.To.Slot, m.ID, slot)
			}
		}
		for slot, p := range m.Participants {
			if p.From == nil {
				if p.Entrant == nil {
					return fmt.Errorf("%w: match %d slot %d has no source", ErrInconsistentLinks, m.ID, slot)
				}
				continue
			}
			src, ok := b.Match(p.From.MatchID)
			if !ok {
				return fmt.Errorf("%w: match %d slot %d is fed by missing match %d",
					ErrInconsistentLinks, m.ID, slot, p.From.MatchID)
			}
			if p.From.Slot < 0 || p.From.Slot >= len(src.Results) {
				return fmt.Errorf("%w: match %d slot %d is fed by result %d of match %d",
					ErrInconsistentLinks, m.ID, slot, p.From.Slot, src.ID)
			}
			to := src.Results[p.From.Slot].To
			if to == nil || to.MatchID != m.ID || to.Slot != slot {
				return fmt.Errorf("%w: match %d result %d does not feed match %d slot %d",
					ErrInconsistentLinks, src.ID, p.From.Slot, m.ID, slot)
			}
		}
	}
	return nil
}
