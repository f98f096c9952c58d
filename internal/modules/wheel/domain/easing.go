package domain

import (
	"fmt"
	"math"
)

// Theme names the easing curve used for a landing.
type Theme string

const (
	ThemeStandard    Theme = "standard"
	ThemeSuspenseful Theme = "suspenseful"
	ThemeDramatic    Theme = "dramatic"
	ThemePlayful     Theme = "playful"
	ThemeFunny       Theme = "funny"
)

func Themes() []Theme {
	return []Theme{ThemeStandard, ThemeSuspenseful, ThemeDramatic, ThemePlayful, ThemeFunny}
}

func ParseTheme(raw string) (Theme, error) {
	if raw == "" {
		return ThemeStandard, nil
	}
	for _, t := range Themes() {
		if string(t) == raw {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown easing theme: %s", raw)
}

const (
	backOvershoot  = 1.70158
	elasticPeriod  = 2 * math.Pi / 3
	exponentialLog = 10
)

// Ease maps progress t in [0,1] to eased progress. Every theme returns
// exactly 0 at t=0 and exactly 1 at t=1; playful and funny overshoot between.
func Ease(theme Theme, t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	switch theme {
	case ThemeSuspenseful:
		return 1 - math.Pow(1-t, 5)
	case ThemeDramatic:
		return 1 - math.Pow(2, -exponentialLog*t)
	case ThemePlayful:
		return math.Pow(2, -10*t)*math.Sin((10*t-0.75)*elasticPeriod) + 1
	case ThemeFunny:
		c3 := backOvershoot + 1
		u := t - 1
		return 1 + c3*u*u*u + backOvershoot*u*u
	default:
		return 1 - math.Pow(1-t, 3)
	}
}
