package brackets

import "errors"

var (
	// ErrInvalidRoundSize is returned when a round demands an exact fit and the seed count does not divide evenly.
	ErrInvalidRoundSize = errors.New("number of seeds is not a multiple of participants per match")
	// ErrUnconvergingBlueprint is returned when the losers blueprint exceeds its iteration ceiling.
	ErrUnconvergingBlueprint = errors.New("losers bracket blueprint does not converge")
	// ErrMissingLinkage means a seed could not be traced back to any feeding round.
	ErrMissingLinkage = errors.New("seed missing from every feeding round")

	ErrInvalidMatchShape = errors.New("invalid winners/participants per match combination")
	ErrNotEnoughEntrants = errors.New("not enough entrants to build a bracket (minimum 2)")
	ErrFieldTooLarge     = errors.New("padded field exceeds the size limit")
	ErrMatchNotFound     = errors.New("match not found")
	ErrPlacementCount    = errors.New("placement count does not match result slots")
)
