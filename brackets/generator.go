package brackets

import (
	"context"
	"errors"
	"fmt"
)

const (
	BracketTypeSingleElimination = "SingleElimination"
	BracketTypeDoubleElimination = "DoubleElimination"
)

var ErrUnsupportedBracketType = errors.New("unsupported bracket type")

type GenerateBracketParams struct {
	Entrants             []EntrantInput
	WinnersPerMatch      int
	ParticipantsPerMatch int
	MaxFieldSize         int
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Bracket, error)

	GetName() string
}

// NewGenerator returns the generator registered for bracketType.
func NewGenerator(bracketType string) (BracketGenerator, error) {
	switch bracketType {
	case BracketTypeSingleElimination:
		return NewSingleEliminationGenerator(), nil
	case BracketTypeDoubleElimination:
		return NewDoubleEliminationGenerator(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBracketType, bracketType)
	}
}
