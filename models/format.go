package models

import "github.com/Dosada05/tournament-brackets/brackets"

const (
	DefaultWinnersPerMatch      = 1
	DefaultParticipantsPerMatch = 2
)

// Format describes how a tournament bracket is shaped.
type Format struct {
	Name                 string `json:"name,omitempty" yaml:"name,omitempty"`
	BracketType          string `json:"bracket_type" yaml:"bracket_type"` // "SingleElimination" or "DoubleElimination"
	WinnersPerMatch      int    `json:"winners_per_match" yaml:"winners_per_match"`
	ParticipantsPerMatch int    `json:"participants_per_match" yaml:"participants_per_match"`
}

// WithDefaults fills unset fields with a classic one-on-one single elimination format.
func (f Format) WithDefaults() Format {
	if f.BracketType == "" {
		f.BracketType = brackets.BracketTypeSingleElimination
	}
	if f.WinnersPerMatch == 0 {
		f.WinnersPerMatch = DefaultWinnersPerMatch
	}
	if f.ParticipantsPerMatch == 0 {
		f.ParticipantsPerMatch = DefaultParticipantsPerMatch
	}
	return f
}

func (f Format) IsDoubleElimination() bool {
	return f.BracketType == brackets.BracketTypeDoubleElimination
}
