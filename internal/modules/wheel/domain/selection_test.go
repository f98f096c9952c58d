package domain_test

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spinwheel/internal/modules/wheel/domain"
	apperrors "spinwheel/internal/platform/errors"
)

func roster(weights ...float64) []domain.Participant {
	names := []string{"Alice", "Bob", "Carol", "Dave", "Ethan", "Fay", "Gus"}
	out := make([]domain.Participant, 0, len(weights))
	for i, w := range weights {
		out = append(out, domain.Participant{ID: fmt.Sprintf("p-%d", i), Name: names[i%len(names)], Weight: w})
	}
	return out
}

func TestSelectWinnerEmptyRoster(t *testing.T) {
	t.Parallel()
	_, err := domain.SelectWinner(nil, domain.ModeUniform, domain.NewSeededRNG(1))
	require.True(t, errors.Is(err, apperrors.ErrEmptyRoster))
	_, err = domain.SelectWinner([]domain.Participant{}, domain.ModeWeighted, domain.NewSeededRNG(1))
	require.True(t, errors.Is(err, apperrors.ErrEmptyRoster))
}

func TestUniformSelectionIsUniform(t *testing.T) {
	t.Parallel()
	// Weights must not matter in uniform mode.
	list := roster(1, 1, 2, 1, 5)
	rng := domain.NewSeededRNG(42)
	const draws = 100000
	counts := map[string]int{}
	for i := 0; i < draws; i++ {
		w, err := domain.SelectWinner(list, domain.ModeUniform, rng)
		require.NoError(t, err)
		counts[w.ID]++
	}

	expected := float64(draws) / float64(len(list))
	chi := 0.0
	for _, p := range list {
		diff := float64(counts[p.ID]) - expected
		chi += diff * diff / expected
		assert.InDelta(t, 0.2, float64(counts[p.ID])/draws, 0.01, "participant %s", p.Name)
	}
	// df=4; 25 is far beyond the 0.1% critical value.
	assert.Less(t, chi, 25.0)
}

func TestWeightedSelectionFollowsWeights(t *testing.T) {
	t.Parallel()
	list := roster(1, 1, 2, 1, 5)
	rng := domain.NewSeededRNG(7)
	const draws = 100000
	counts := map[string]int{}
	for i := 0; i < draws; i++ {
		w, err := domain.SelectWinner(list, domain.ModeWeighted, rng)
		require.NoError(t, err)
		counts[w.Name]++
	}
	assert.InDelta(t, 0.5, float64(counts["Ethan"])/draws, 0.01)
	for _, name := range []string{"Alice", "Bob", "Dave"} {
		assert.InDelta(t, 0.1, float64(counts[name])/draws, 0.01, name)
	}
	assert.InDelta(t, 0.2, float64(counts["Carol"])/draws, 0.01)
}

func TestWeightedSelectionCoercesNonPositiveWeights(t *testing.T) {
	t.Parallel()
	list := roster(0, -3, 2)
	rng := domain.NewSeededRNG(11)
	const draws = 40000
	counts := map[string]int{}
	for i := 0; i < draws; i++ {
		w, err := domain.SelectWinner(list, domain.ModeWeighted, rng)
		require.NoError(t, err)
		counts[w.Name]++
	}
	assert.InDelta(t, 0.25, float64(counts["Alice"])/draws, 0.015)
	assert.InDelta(t, 0.25, float64(counts["Bob"])/draws, 0.015)
	assert.InDelta(t, 0.5, float64(counts["Carol"])/draws, 0.015)
}

type fixedRNG struct{ f float64 }

func (r fixedRNG) IntN(int) int      { return 0 }
func (r fixedRNG) Float64() float64 { return r.f }

func TestWeightedSelectionRoundingFallsBackToLast(t *testing.T) {
	t.Parallel()
	list := roster(0.1, 0.2, 0.3)
	w, err := domain.SelectWinner(list, domain.ModeWeighted, fixedRNG{f: math.Nextafter(1, 0)})
	require.NoError(t, err)
	assert.Equal(t, "Carol", w.Name)

	// A draw of exactly 1.0 (out of contract) still never fails.
	w, err = domain.SelectWinner(list, domain.ModeWeighted, fixedRNG{f: 1})
	require.NoError(t, err)
	assert.Equal(t, "Carol", w.Name)
}

func TestShuffleIsNonMutatingPermutation(t *testing.T) {
	t.Parallel()
	list := roster(1, 2, 3, 4, 5, 6, 7)
	before := append([]domain.Participant(nil), list...)
	out := domain.Shuffle(list, domain.NewSeededRNG(3))

	assert.Equal(t, before, list, "input must not be mutated")
	assert.ElementsMatch(t, list, out)
	assert.Empty(t, domain.Shuffle(nil, domain.NewSeededRNG(3)))
}

func TestShuffleIsUniform(t *testing.T) {
	t.Parallel()
	rng := domain.NewSeededRNG(99)
	for n := 2; n <= 5; n++ {
		n := n
		list := roster(make([]float64, n)...)
		perms := factorial(n)
		draws := perms * 1000
		counts := map[string]int{}
		for i := 0; i < draws; i++ {
			counts[key(domain.Shuffle(list, rng))]++
		}
		require.Len(t, counts, perms, "n=%d must reach every ordering", n)

		expected := float64(draws) / float64(perms)
		chi := 0.0
		for _, c := range counts {
			diff := float64(c) - expected
			chi += diff * diff / expected
		}
		df := float64(perms - 1)
		assert.Less(t, chi, df+6*math.Sqrt(2*df)+10, "n=%d", n)
	}
}

func factorial(n int) int {
	if n <= 1 {
		return 1
	}
	return n * factorial(n-1)
}

func key(list []domain.Participant) string {
	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	return strings.Join(ids, ",")
}

func TestParseModeAndTheme(t *testing.T) {
	t.Parallel()
	mode, err := domain.ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, domain.ModeUniform, mode)
	_, err = domain.ParseMode("rigged")
	assert.Error(t, err)

	theme, err := domain.ParseTheme("")
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeStandard, theme)
	theme, err = domain.ParseTheme("funny")
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeFunny, theme)
	_, err = domain.ParseTheme("sad")
	assert.Error(t, err)
}
