package out

import (
	cuein "spinwheel/internal/modules/cue/port/in"
	wheelout "spinwheel/internal/modules/wheel/port/out"
)

type CuePlayerAdapter struct {
	cues cuein.Player
}

func NewCuePlayerAdapter(cues cuein.Player) wheelout.CuePlayer {
	return &CuePlayerAdapter{cues: cues}
}

func (a *CuePlayerAdapter) PlayTick() { a.cues.PlayTick() }

func (a *CuePlayerAdapter) PlaySpinStart() { a.cues.PlaySpinStart() }

func (a *CuePlayerAdapter) PlayWin(winner string) { a.cues.PlayWin(winner) }
