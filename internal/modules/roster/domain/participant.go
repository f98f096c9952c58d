package domain

import (
	"fmt"
	"strings"
)

const SchemaVersion = 1

// DefaultWeight applies to participants without an explicit weight.
const DefaultWeight = 1

type Participant struct {
	ID         string  `yaml:"id" json:"id"`
	Name       string  `yaml:"name" json:"name"`
	ExternalID string  `yaml:"external_id,omitempty" json:"external_id,omitempty"`
	Tag        string  `yaml:"tag,omitempty" json:"tag,omitempty"`
	Shift      string  `yaml:"shift,omitempty" json:"shift,omitempty"`
	Supervisor string  `yaml:"supervisor,omitempty" json:"supervisor,omitempty"`
	Weight     float64 `yaml:"weight" json:"weight"`
}

func (p Participant) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// EffectiveWeight is the share used by weighted selection. Unset, zero and
// negative weights count as DefaultWeight.
func (p Participant) EffectiveWeight() float64 {
	if p.Weight <= 0 {
		return DefaultWeight
	}
	return p.Weight
}

// NormalizeWeight coerces user-supplied weights: negatives become
// DefaultWeight with coerced=true so callers can log the correction.
func NormalizeWeight(w float64) (normalized float64, coerced bool) {
	if w < 0 {
		return DefaultWeight, true
	}
	if w == 0 {
		return DefaultWeight, false
	}
	return w, false
}

type Roster struct {
	SchemaVersion int           `yaml:"schema_version"`
	Participants  []Participant `yaml:"participants"`
}

func (r Roster) IndexOf(id string) int {
	for i, p := range r.Participants {
		if p.ID == id {
			return i
		}
	}
	return -1
}
