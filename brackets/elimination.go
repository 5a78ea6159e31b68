package brackets

import "context"

type eliminationGenerator struct {
	name   string
	double bool
}

func NewSingleEliminationGenerator() BracketGenerator {
	return &eliminationGenerator{name: BracketTypeSingleElimination}
}

func NewDoubleEliminationGenerator() BracketGenerator {
	return &eliminationGenerator{name: BracketTypeDoubleElimination, double: true}
}

func (g *eliminationGenerator) GetName() string {
	return g.name
}

func (g *eliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Bracket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return New(params.Entrants, Config{
		WinnersPerMatch:      params.WinnersPerMatch,
		ParticipantsPerMatch: params.ParticipantsPerMatch,
		DoubleElimination:    g.double,
		MaxFieldSize:         params.MaxFieldSize,
	})
}
