package wheel

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	wheeldto "spinwheel/internal/modules/wheel/dto"
)

func sampleCards(n int) []wheeldto.Card {
	names := []string{"Ana", "Bo", "Cyd", "Dee", "Eli", "Fay"}
	cards := make([]wheeldto.Card, n)
	for i := range cards {
		cards[i] = wheeldto.Card{ID: names[i%len(names)] + string(rune('0'+i)), Name: names[i%len(names)]}
	}
	return cards
}

func targetPosition(snap wheeldto.Snapshot, i int) float64 {
	item := snap.CardWidth + snap.Gap
	return -(float64(i) * item) - item/2 + snap.Gap/2 + snap.MarkerOffset
}

func TestTargetCardSitsUnderMarker(t *testing.T) {
	t.Parallel()
	cache := newGlyphCache(glyphCacheLen)
	cards := sampleCards(40)
	for _, width := range []int{40, 61, 80, 121} {
		for _, target := range []int{0, 3, 17, 33} {
			snap := wheeldto.Snapshot{CardWidth: 16, Gap: 2}
			snap.Position = targetPosition(snap, target)
			f := layoutTrack(cards, snap, width, false, cache)
			if got := f.underMarker(); got != target {
				t.Fatalf("width %d: marker over card %d, want %d", width, got, target)
			}
		}
	}
}

func TestMarkerOffsetShiftsTrack(t *testing.T) {
	t.Parallel()
	cache := newGlyphCache(glyphCacheLen)
	snap := wheeldto.Snapshot{CardWidth: 16, Gap: 2, MarkerOffset: 9}
	snap.Position = targetPosition(snap, 5)
	f := layoutTrack(sampleCards(20), snap, 80, false, cache)
	if got := f.underMarker(); got != 5 {
		t.Fatalf("marker over card %d, want 5", got)
	}
}

func TestRowsAreExactlyWidth(t *testing.T) {
	t.Parallel()
	cache := newGlyphCache(glyphCacheLen)
	snap := wheeldto.Snapshot{CardWidth: 12, Gap: 1, Position: -7.4}
	f := layoutTrack(sampleCards(30), snap, 50, false, cache)
	for i, row := range f.plain() {
		if n := len([]rune(row)); n != 50 {
			t.Fatalf("row %d has %d cells", i, n)
		}
	}
	if !strings.Contains(f.plain()[1], "Ana") {
		t.Fatalf("name row missing first card: %q", f.plain()[1])
	}
}

func TestLayoutCardTruncatesLongNames(t *testing.T) {
	t.Parallel()
	g := layoutCard(wheeldto.Card{Name: "Bartholomew Fitzgerald", Tag: "Operations"}, 10, false)
	for r, row := range g {
		if len(row) != 10 {
			t.Fatalf("row %d has %d cells", r, len(row))
		}
	}
	var mid strings.Builder
	for _, c := range g[1] {
		mid.WriteRune(c.r)
	}
	if got := mid.String(); got != "│Barthol…│" {
		t.Fatalf("mid row = %q", got)
	}
}

func TestWinnerHighlightOnlyWhenRevealed(t *testing.T) {
	t.Parallel()
	cache := newGlyphCache(glyphCacheLen)
	cards := sampleCards(10)
	cards[4].Winner = true
	snap := wheeldto.Snapshot{CardWidth: 16, Gap: 2}
	snap.Position = targetPosition(snap, 4)

	hidden := layoutTrack(cards, snap, 60, false, cache)
	shown := layoutTrack(cards, snap, 60, true, cache)
	if k := hidden.rows[1][30].kind; k == cellWinner {
		t.Fatal("winner highlighted before reveal")
	}
	if k := shown.rows[1][30].kind; k != cellWinner {
		t.Fatalf("winner cell kind = %d after reveal", k)
	}
}

func TestGlyphCacheReusesLayouts(t *testing.T) {
	t.Parallel()
	cache := newGlyphCache(glyphCacheLen)
	snap := wheeldto.Snapshot{CardWidth: 16, Gap: 2}
	cards := sampleCards(6)
	for i := 0; i < 30; i++ {
		snap.Position -= 1.5
		layoutTrack(cards, snap, 200, false, cache)
	}
	if got := cache.Len(); got != len(cards) {
		t.Fatalf("cache holds %d glyphs, want %d", got, len(cards))
	}
}

type wheelStub struct {
	surface  *Surface
	spins    []wheeldto.SpinInput
	dismissN int
}

func (w *wheelStub) Spin(_ context.Context, in wheeldto.SpinInput) error {
	w.spins = append(w.spins, in)
	w.surface.SetBusy(true)
	return nil
}

func (w *wheelStub) Dismiss(context.Context) error {
	w.dismissN++
	return nil
}

func (w *wheelStub) Snapshot() wheeldto.Snapshot {
	return wheeldto.Snapshot{Phase: "Idle", CardWidth: 16, Gap: 2}
}

func TestSpaceSpinsThenDismissesReveal(t *testing.T) {
	t.Parallel()
	surface := NewSurface()
	stub := &wheelStub{surface: surface}
	m := New(stub, surface, Options{Event: "Raffle", Themes: []string{"standard", "dramatic"}, Duration: 3 * time.Second})
	m.SetPrize(" Mug ")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if len(stub.spins) != 1 {
		t.Fatalf("spins = %d", len(stub.spins))
	}
	want := wheeldto.SpinInput{Duration: 3 * time.Second, Theme: "standard", Prize: "Mug"}
	if stub.spins[0] != want {
		t.Fatalf("spin input = %+v", stub.spins[0])
	}

	surface.Reveal(wheeldto.Reveal{WinnerName: "Ana", Prize: "Mug"})
	surface.SetBusy(false)
	if !strings.Contains(m.View(), "Ana") {
		t.Fatal("reveal not rendered")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if stub.dismissN != 1 || len(stub.spins) != 1 {
		t.Fatalf("dismiss=%d spins=%d", stub.dismissN, len(stub.spins))
	}
	if _, ok := surface.Revealed(); ok {
		t.Fatal("reveal still shown after dismiss")
	}
}

func TestThemeCycleAndValidation(t *testing.T) {
	t.Parallel()
	surface := NewSurface()
	m := New(&wheelStub{surface: surface}, surface, Options{Themes: []string{"standard", "dramatic", "funny"}})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if m.Theme() != "dramatic" {
		t.Fatalf("theme = %s", m.Theme())
	}
	if err := m.SetTheme("wobbly"); err == nil {
		t.Fatal("unknown theme accepted")
	}
	if err := m.SetTheme("funny"); err != nil || m.Theme() != "funny" {
		t.Fatalf("SetTheme(funny) = %v, theme %s", err, m.Theme())
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}})
	if m.Duration() != 0 {
		t.Fatalf("duration went negative: %s", m.Duration())
	}
}
