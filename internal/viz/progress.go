package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/ctmcsim/internal/collision"
)

const (
	barWidth     = 40
	historyWidth = 40
)

// RoundMsg reports a finished round to a Progress model.
type RoundMsg collision.RoundResult

// DoneMsg ends a Progress model.
type DoneMsg struct {
	Err error
}

// Progress is a Bubble Tea model following a running experiment.
type Progress struct {
	title   string
	total   int
	done    int
	tally   *collision.Tally
	history map[collision.Outcome][]float64
	started time.Time

	finished  bool
	cancelled bool
	err       error
}

func NewProgress(title string, total int, b2max float64) Progress {
	return Progress{
		title:   title,
		total:   total,
		tally:   collision.NewTally(b2max),
		history: make(map[collision.Outcome][]float64),
		started: time.Now(),
	}
}

func (m Progress) Init() tea.Cmd { return nil }

func (m Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		}

	case RoundMsg:
		m.done++
		m.tally.Add(collision.RoundResult(msg))
		if msg.Status == collision.StatusOK {
			ok := float64(m.tally.Successful())
			for _, o := range collision.Outcomes() {
				if m.tally.Count(o) == 0 {
					continue
				}
				h := append(m.history[o], float64(m.tally.Count(o))/ok)
				if len(h) > historyWidth {
					h = h[len(h)-historyWidth:]
				}
				m.history[o] = h
			}
		}

	case DoneMsg:
		m.finished = true
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

func (m Progress) View() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(m.title))
	b.WriteString("\n")

	fraction := 0.0
	if m.total > 0 {
		fraction = float64(m.done) / float64(m.total)
	}
	b.WriteString(fmt.Sprintf("%s %d/%d  %s\n\n",
		ProgressBar(fraction, barWidth), m.done, m.total, time.Since(m.started).Round(time.Second)))

	for _, o := range collision.Outcomes() {
		n := m.tally.Count(o)
		if n == 0 {
			continue
		}
		rate := float64(n) / float64(m.tally.Successful())
		b.WriteString(LabelStyle.Render(o.String()))
		b.WriteString(ValueStyle.Render(fmt.Sprintf("%6d  %.4f  ", n, rate)))
		b.WriteString(SparkHigh.Render(Sparkline(m.history[o], historyWidth)))
		b.WriteString("\n")
	}
	if failed := m.tally.Failed(); failed > 0 {
		b.WriteString(LabelStyle.Render("failed"))
		b.WriteString(SparkLow.Render(fmt.Sprintf("%6d", failed)))
		b.WriteString("\n")
	}

	switch {
	case m.err != nil:
		b.WriteString("\n" + SparkLow.Render(m.err.Error()) + "\n")
	case m.finished:
		b.WriteString("\n" + Subtle.Render("done") + "\n")
	default:
		b.WriteString("\n" + Subtle.Render("q to stop after the running rounds") + "\n")
	}
	return b.String()
}

func (m Progress) Done() int               { return m.done }
func (m Progress) Cancelled() bool         { return m.cancelled }
func (m Progress) Finished() bool          { return m.finished }
func (m Progress) Tally() *collision.Tally { return m.tally }
