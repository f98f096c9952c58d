package domain

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

type Kind string

const (
	KindTick      Kind = "tick"
	KindSpinStart Kind = "spin_start"
	KindWin       Kind = "win"
)

func (k Kind) Validate() error {
	switch k {
	case KindTick, KindSpinStart, KindWin:
		return nil
	default:
		return fmt.Errorf("unknown cue kind: %s", k)
	}
}

// TickInterval is the shortest gap between two audible ticks. A fast landing
// can pass several cards per second; ticks inside the gap are dropped.
const TickInterval = 45 * time.Millisecond

var (
	ErrPluginDisabled   = errors.New("cue plugin is disabled")
	ErrPluginNotFound   = errors.New("cue plugin not found")
	ErrChecksumMismatch = errors.New("cue plugin checksum mismatch")
	ErrPluginTimeout    = errors.New("cue plugin timeout")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Event is one fire-and-forget cue. Winner is only set for KindWin.
type Event struct {
	Kind   Kind
	At     time.Time
	Winner string
}

type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Binary  string `json:"binary"`
	SHA256  string `json:"sha256"`
	Enabled bool   `json:"enabled"`
	Cues    []Kind `json:"cues"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("cue plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("cue plugin version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("cue plugin binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("cue plugin sha256 must be lowercase 64-char hex")
	}
	if len(m.Cues) == 0 {
		return fmt.Errorf("cue plugin must handle at least one cue")
	}
	seen := map[Kind]struct{}{}
	for _, kind := range m.Cues {
		if err := kind.Validate(); err != nil {
			return err
		}
		if _, ok := seen[kind]; ok {
			return fmt.Errorf("duplicate cue: %s", kind)
		}
		seen[kind] = struct{}{}
	}
	return nil
}

func (m Manifest) Handles(kind Kind) bool {
	for _, k := range m.Cues {
		if k == kind {
			return true
		}
	}
	return false
}

type Metadata struct {
	Name    string
	Version string
	Cues    []Kind
}
