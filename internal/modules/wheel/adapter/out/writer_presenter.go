package out

import (
	"fmt"
	"io"

	"spinwheel/internal/modules/wheel/dto"
	wheelout "spinwheel/internal/modules/wheel/port/out"
)

// WriterPresenter is the headless presentation surface used by `spin`.
type WriterPresenter struct {
	out      io.Writer
	revealed *dto.Reveal
	cards    int
}

func NewWriterPresenter(out io.Writer) *WriterPresenter {
	return &WriterPresenter{out: out}
}

var _ wheelout.Presenter = (*WriterPresenter)(nil)

func (p *WriterPresenter) Render(cards []dto.Card) {
	p.cards = len(cards)
}

func (p *WriterPresenter) Reveal(r dto.Reveal) {
	p.revealed = &r
	line := fmt.Sprintf("Winner: %s", r.WinnerName)
	if r.WinnerTag != "" {
		line += fmt.Sprintf(" (%s)", r.WinnerTag)
	}
	if r.Prize != "" {
		line += fmt.Sprintf(" wins %s", r.Prize)
	}
	fmt.Fprintln(p.out, line)
}

func (p *WriterPresenter) Notice(text string) {
	fmt.Fprintln(p.out, text)
}

func (p *WriterPresenter) SetBusy(bool) {}

// Revealed returns the last reveal, if any.
func (p *WriterPresenter) Revealed() (dto.Reveal, bool) {
	if p.revealed == nil {
		return dto.Reveal{}, false
	}
	return *p.revealed, true
}

func (p *WriterPresenter) CardCount() int { return p.cards }
