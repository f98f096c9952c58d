package dto

type AddInput struct {
	Name       string
	ExternalID string
	Tag        string
	Shift      string
	Supervisor string
	Weight     float64
}

// WeightCommand sets one participant's weight; it is how inline weight edits
// reach the store.
type WeightCommand struct {
	ParticipantID string
	Weight        float64
}

type ImportInput struct {
	Text    string
	Replace bool
}

type ImportOutput struct {
	Added   int
	Coerced int
	Skipped int
}

type ParticipantOutput struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ExternalID string  `json:"external_id,omitempty"`
	Tag        string  `json:"tag,omitempty"`
	Shift      string  `json:"shift,omitempty"`
	Supervisor string  `json:"supervisor,omitempty"`
	Weight     float64 `json:"weight"`
}

type DecrementOutput struct {
	Participant ParticipantOutput
	Removed     bool
}
