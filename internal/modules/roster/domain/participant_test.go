package domain_test

import (
	"testing"

	"spinwheel/internal/modules/roster/domain"
)

func TestEffectiveWeightCoercesNonPositive(t *testing.T) {
	t.Parallel()
	cases := map[float64]float64{-3: 1, 0: 1, 0.5: 0.5, 5: 5}
	for in, want := range cases {
		if got := (domain.Participant{Weight: in}).EffectiveWeight(); got != want {
			t.Fatalf("weight %v: expected %v, got %v", in, want, got)
		}
	}
}

func TestNormalizeWeight(t *testing.T) {
	t.Parallel()
	if w, coerced := domain.NormalizeWeight(-2); w != 1 || !coerced {
		t.Fatalf("negative weight should coerce to 1, got %v coerced=%t", w, coerced)
	}
	if w, coerced := domain.NormalizeWeight(0); w != 1 || coerced {
		t.Fatalf("unset weight should default silently, got %v coerced=%t", w, coerced)
	}
	if w, _ := domain.NormalizeWeight(3); w != 3 {
		t.Fatalf("positive weight should pass through, got %v", w)
	}
}

func TestParticipantValidate(t *testing.T) {
	t.Parallel()
	if err := (domain.Participant{ID: "p1", Name: "Alice"}).Validate(); err != nil {
		t.Fatalf("participant should be valid: %v", err)
	}
	if err := (domain.Participant{ID: "p1", Name: "  "}).Validate(); err == nil {
		t.Fatalf("blank name should fail")
	}
	if err := (domain.Participant{Name: "Alice"}).Validate(); err == nil {
		t.Fatalf("missing id should fail")
	}
}
