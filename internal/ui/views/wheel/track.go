package wheel

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lru "github.com/hashicorp/golang-lru/v2"

	wheeldto "spinwheel/internal/modules/wheel/dto"
	"spinwheel/internal/ui/theme"
)

const (
	cardRows      = 3
	glyphCacheLen = 512
)

type cellKind uint8

const (
	cellBlank cellKind = iota
	cellEdge
	cellBody
	cellWinner
)

var cellStyles = map[cellKind]lipgloss.Style{
	cellEdge:   theme.CardEdge,
	cellBody:   theme.Card,
	cellWinner: theme.CardWinner,
}

type cell struct {
	r    rune
	kind cellKind
}

type glyph [cardRows][]cell

// glyphCache keeps laid-out cards so a frame only copies cells.
type glyphCache struct {
	lru *lru.Cache[string, glyph]
}

func newGlyphCache(size int) *glyphCache {
	c, err := lru.New[string, glyph](size)
	if err != nil {
		return &glyphCache{}
	}
	return &glyphCache{lru: c}
}

func (c *glyphCache) get(card wheeldto.Card, width int, highlight bool) glyph {
	if c.lru == nil {
		return layoutCard(card, width, highlight)
	}
	key := fmt.Sprintf("%s\x00%s\x00%s\x00%d\x00%t", card.ID, card.Name, card.Tag, width, highlight)
	if g, ok := c.lru.Get(key); ok {
		return g
	}
	g := layoutCard(card, width, highlight)
	c.lru.Add(key, g)
	return g
}

func (c *glyphCache) Len() int {
	if c.lru == nil {
		return 0
	}
	return c.lru.Len()
}

func layoutCard(card wheeldto.Card, width int, highlight bool) glyph {
	if width < 4 {
		width = 4
	}
	inner := width - 2
	body := cellBody
	if highlight {
		body = cellWinner
	}

	var g glyph
	top := []cell{{'╭', cellEdge}}
	label := []rune{}
	if card.Tag != "" {
		label = truncate([]rune(" "+card.Tag+" "), inner)
	}
	for _, r := range label {
		top = append(top, cell{r, cellEdge})
	}
	for len(top) < width-1 {
		top = append(top, cell{'─', cellEdge})
	}
	g[0] = append(top, cell{'╮', cellEdge})

	name := truncate([]rune(card.Name), inner)
	left := (inner - len(name)) / 2
	mid := []cell{{'│', cellEdge}}
	for i := 0; i < left; i++ {
		mid = append(mid, cell{' ', body})
	}
	for _, r := range name {
		mid = append(mid, cell{r, body})
	}
	for len(mid) < width-1 {
		mid = append(mid, cell{' ', body})
	}
	g[1] = append(mid, cell{'│', cellEdge})

	bottom := []cell{{'╰', cellEdge}}
	for len(bottom) < width-1 {
		bottom = append(bottom, cell{'─', cellEdge})
	}
	g[2] = append(bottom, cell{'╯', cellEdge})
	return g
}

func truncate(runes []rune, n int) []rune {
	if len(runes) <= n {
		return runes
	}
	if n <= 1 {
		return runes[:n]
	}
	out := make([]rune, 0, n)
	out = append(out, runes[:n-1]...)
	return append(out, '…')
}

// trackFrame is one drawing of the track: the marker row, the card rows and
// the marker row again, each exactly width cells.
type trackFrame struct {
	width int
	rows  [cardRows][]cell
	// owner maps each column to the card index drawn there, or -1.
	owner []int
}

// layoutTrack places every visible card. The marker sits in the middle
// column; MarkerOffset shifts the track relative to it.
func layoutTrack(cards []wheeldto.Card, snap wheeldto.Snapshot, width int, highlight bool, cache *glyphCache) trackFrame {
	f := trackFrame{width: width, owner: make([]int, max(width, 0))}
	for x := range f.owner {
		f.owner[x] = -1
	}
	for r := range f.rows {
		f.rows[r] = make([]cell, max(width, 0))
		for x := range f.rows[r] {
			f.rows[r][x] = cell{' ', cellBlank}
		}
	}
	item := snap.CardWidth + snap.Gap
	cw := int(math.Round(snap.CardWidth))
	if width <= 0 || item <= 0 || cw <= 0 {
		return f
	}
	shift := float64(width/2) - snap.MarkerOffset + 0.5
	for i, card := range cards {
		left := int(math.Floor(snap.Position + float64(i)*item + shift))
		if left >= width {
			break
		}
		if left+cw <= 0 {
			continue
		}
		g := cache.get(card, cw, highlight && card.Winner)
		for x := max(left, 0); x < min(left+cw, width); x++ {
			f.owner[x] = i
		}
		for r := 0; r < cardRows; r++ {
			for x, c := range g[r] {
				col := left + x
				if col >= 0 && col < width {
					f.rows[r][col] = c
				}
			}
		}
	}
	return f
}

// plain returns the frame without styling, for tests and logs.
func (f trackFrame) plain() []string {
	out := make([]string, 0, cardRows)
	for _, row := range f.rows {
		var sb strings.Builder
		for _, c := range row {
			sb.WriteRune(c.r)
		}
		out = append(out, sb.String())
	}
	return out
}

// underMarker returns the index of the card in the marker column, or -1.
func (f trackFrame) underMarker() int {
	if f.width <= 0 {
		return -1
	}
	return f.owner[f.width/2]
}

func (f trackFrame) View() string {
	if f.width <= 0 {
		return ""
	}
	marker := strings.Repeat(" ", f.width/2)
	lines := []string{marker + theme.Marker.Render("▼")}
	for _, row := range f.rows {
		lines = append(lines, renderRow(row))
	}
	lines = append(lines, marker+theme.Marker.Render("▲"))
	return strings.Join(lines, "\n")
}

func renderRow(row []cell) string {
	var sb strings.Builder
	var run strings.Builder
	kind := cellBlank
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if style, ok := cellStyles[kind]; ok {
			sb.WriteString(style.Render(run.String()))
		} else {
			sb.WriteString(run.String())
		}
		run.Reset()
	}
	for _, c := range row {
		if c.kind != kind {
			flush()
			kind = c.kind
		}
		run.WriteRune(c.r)
	}
	flush()
	return sb.String()
}
