package brackets

import "sort"

// ByeName is the display name of the dummy entrants used to pad a field.
const ByeName = "BYE"

type MediaInfo struct {
	Type string `json:"type" yaml:"type"`
	Src  string `json:"src" yaml:"src"`
}

// EntrantInput is an entrant as submitted for seeding. Seed only defines the
// initial order; lower is better.
type EntrantInput struct {
	Name  string     `json:"name" yaml:"name"`
	Seed  float64    `json:"seed" yaml:"seed"`
	Media *MediaInfo `json:"media,omitempty" yaml:"media,omitempty"`
}

// Entrant is a seeded participant of a bracket. Seed is dense (0..N-1) once the
// bracket is built. ExitedAs records the theoretical seed slot the entrant
// occupied when it left the bracket and is written only once.
type Entrant struct {
	Name     string     `json:"name"`
	Seed     int        `json:"seed"`
	IsDummy  bool       `json:"is_dummy"`
	ExitedAs *int       `json:"exited_as,omitempty"`
	Media    *MediaInfo `json:"media,omitempty"`
}

func newBye(seed int) *Entrant {
	return &Entrant{Name: ByeName, Seed: seed, IsDummy: true}
}

// Exited reports whether the entrant has been given a final placement.
func (e *Entrant) Exited() bool {
	return e.ExitedAs != nil
}

func (e *Entrant) markExited(slot int) {
	if e.ExitedAs != nil {
		return
	}
	s := slot
	e.ExitedAs = &s
}

// normalizeEntrants orders the inputs by seed and reassigns dense seeds.
// Ties keep their submission order.
func normalizeEntrants(inputs []EntrantInput) []*Entrant {
	ordered := make([]EntrantInput, len(inputs))
	copy(ordered, inputs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Seed < ordered[j].Seed
	})

	entrants := make([]*Entrant, len(ordered))
	for i, in := range ordered {
		entrants[i] = &Entrant{Name: in.Name, Seed: i, Media: in.Media}
	}
	return entrants
}
