package brackets

// Clone returns a deep copy of the bracket. Entrants shared between slots stay
// shared inside the copy.
func (b *Bracket) Clone() *Bracket {
	entrants := make(map[*Entrant]*Entrant, len(b.Entrants))
	remap := func(e *Entrant) *Entrant {
		if e == nil {
			return nil
		}
		if c, ok := entrants[e]; ok {
			return c
		}
		c := *e
		if e.ExitedAs != nil {
			v := *e.ExitedAs
			c.ExitedAs = &v
		}
		if e.Media != nil {
			media := *e.Media
			c.Media = &media
		}
		entrants[e] = &c
		return &c
	}

	out := &Bracket{
		Entrants:             make([]*Entrant, len(b.Entrants)),
		WinnersPerMatch:      b.WinnersPerMatch,
		ParticipantsPerMatch: b.ParticipantsPerMatch,
		DoubleElimination:    b.DoubleElimination,
		arena:                make([]*Match, len(b.arena)),
	}
	for i, e := range b.Entrants {
		out.Entrants[i] = remap(e)
	}

	for id, m := range b.arena {
		if m == nil {
			continue
		}
		c := &Match{
			ID:           m.ID,
			Round:        m.Round,
			Side:         m.Side,
			Resolved:     m.Resolved,
			Participants: make([]Participant, len(m.Participants)),
			Results:      make([]Result, len(m.Results)),
		}
		for i, p := range m.Participants {
			c.Participants[i] = Participant{From: cloneRef(p.From), Entrant: remap(p.Entrant), TheoreticalSeed: p.TheoreticalSeed}
		}
		for i, r := range m.Results {
			c.Results[i] = Result{Draw: r.Draw, To: cloneRef(r.To), Entrant: remap(r.Entrant)}
		}
		out.arena[id] = c
	}

	for _, m := range b.UpperMatches {
		out.UpperMatches = append(out.UpperMatches, out.arena[m.ID])
	}
	for _, m := range b.LowerMatches {
		out.LowerMatches = append(out.LowerMatches, out.arena[m.ID])
	}
	if b.GrandFinals != nil {
		out.GrandFinals = out.arena[b.GrandFinals.ID]
	}
	return out
}

func cloneRef(ref *SlotRef) *SlotRef {
	if ref == nil {
		return nil
	}
	c := *ref
	return &c
}
