package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/ctmcsim/internal/collision"
	"github.com/san-kum/ctmcsim/internal/storage"
)

var channelColumns = []string{"channel", "count", "P", "±", "σ [a0²]", "±", "σ [1e-16 cm²]", "±"}

// RenderSummary formats the metadata and channel table of a run.
func RenderSummary(meta *storage.RunMetadata) string {
	var b strings.Builder

	title := fmt.Sprintf("%s (%s, %s) + %.1f keV q=%g", meta.Target, meta.Configuration, meta.Model, meta.EnergyKeV, meta.Charge)
	b.WriteString(HeaderStyle.Render(title))
	b.WriteString("\n")

	line := func(label, value string) {
		b.WriteString(LabelStyle.Render(label) + ValueStyle.Render(value) + "\n")
	}
	line("run", meta.ID)
	line("started", meta.Timestamp.Format("2006-01-02 15:04:05"))
	line("duration", fmt.Sprintf("%.2fs", meta.Duration))
	line("rounds", fmt.Sprintf("%d (%d ok, %d failed)", meta.Rounds, meta.Successful, meta.Failed))
	line("b2max", fmt.Sprintf("%g a0²", meta.B2Max))
	line("seed", fmt.Sprintf("%d", meta.Seed))
	if meta.Tally != nil && meta.Tally.Extended > 0 {
		line("extended", fmt.Sprintf("%d", meta.Tally.Extended))
	}
	if meta.Tally != nil {
		if failures := failureLine(meta.Tally); failures != "" {
			line("failures", failures)
		}
	}

	b.WriteString("\n")
	b.WriteString(ChannelTable(meta.CrossSections))
	return b.String()
}

func failureLine(t *collision.Tally) string {
	var parts []string
	for s := collision.StatusOK; s <= collision.StatusUnhandledOutcome; s++ {
		if s.Failed() && t.Statuses[s] > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", s, t.Statuses[s]))
		}
	}
	return strings.Join(parts, " ")
}

// ChannelTable lays out one row per observed channel.
func ChannelTable(estimates []collision.ChannelEstimate) string {
	if len(estimates) == 0 {
		return Subtle.Render("no successful rounds") + "\n"
	}

	rows := [][]string{channelColumns}
	for _, e := range estimates {
		rows = append(rows, []string{
			e.Outcome.String(),
			fmt.Sprintf("%d", e.Count),
			fmt.Sprintf("%.4f", e.Rate),
			fmt.Sprintf("%.4f", e.RateErr),
			fmt.Sprintf("%.4g", e.Sigma),
			fmt.Sprintf("%.2g", e.SigmaErr),
			fmt.Sprintf("%.4g", e.Sigma16),
			fmt.Sprintf("%.2g", e.Sigma16Err),
		})
	}

	widths := make([]int, len(channelColumns))
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			style := lipgloss.NewStyle().Width(widths[i]).Align(lipgloss.Right)
			if i == 0 {
				style = style.Align(lipgloss.Left)
			}
			if r == 0 {
				style = style.Bold(true).Foreground(CurrentTheme.Primary)
			} else {
				style = style.Foreground(CurrentTheme.Text)
			}
			cells[i] = style.Render(cell)
		}
		b.WriteString(strings.Join(cells, "  "))
		b.WriteString("\n")
	}
	return Panel.Render(strings.TrimRight(b.String(), "\n"))
}
