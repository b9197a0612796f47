package viz

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/ctmcsim/internal/collision"
	"github.com/san-kum/ctmcsim/internal/storage"
)

func sampleRounds() []collision.RoundResult {
	outcomes := []collision.Outcome{collision.Elastic, collision.Ionization, collision.Elastic, collision.Capture}
	var rounds []collision.RoundResult
	for i, o := range outcomes {
		rounds = append(rounds, collision.RoundResult{
			Round:           i,
			ImpactParameter: float64(i) + 0.5,
			Outcome:         o,
			Status:          collision.StatusOK,
			EnergyError:     math.Pow(10, -float64(10+i)),
		})
	}
	rounds = append(rounds, collision.RoundResult{Round: 4, Status: collision.StatusDistanceNotReached})
	return rounds
}

func TestRunningRate(t *testing.T) {
	got := RunningRate(sampleRounds(), collision.Elastic)
	want := []float64{1, 0.5, 2.0 / 3, 0.5}
	if len(got) != len(want) {
		t.Fatalf("RunningRate = %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("RunningRate[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPlotsHandleEmptyInput(t *testing.T) {
	if got := ImpactHistogram(nil, collision.NoOutcome, 10, DefaultPlotSize); got != noData {
		t.Errorf("ImpactHistogram(nil) = %q", got)
	}
	if got := RateConvergence(nil, collision.Capture, DefaultPlotSize); got != noData {
		t.Errorf("RateConvergence(nil) = %q", got)
	}
	if got := EnergyErrors(nil, DefaultPlotSize); got != noData {
		t.Errorf("EnergyErrors(nil) = %q", got)
	}
}

func TestPlotsCaptions(t *testing.T) {
	rounds := sampleRounds()

	if got := ImpactHistogram(rounds, collision.NoOutcome, 4, DefaultPlotSize); !strings.Contains(got, "4 rounds") {
		t.Errorf("histogram caption missing round count:\n%s", got)
	}
	if got := RateConvergence(rounds, collision.Capture, DefaultPlotSize); !strings.Contains(got, "P(capture) = 0.2500") {
		t.Errorf("convergence caption wrong:\n%s", got)
	}
	if got := EnergyErrors(rounds, DefaultPlotSize); !strings.Contains(got, "max -10.0") {
		t.Errorf("energy caption wrong:\n%s", got)
	}
}

func TestRenderSummary(t *testing.T) {
	tally := collision.NewTally(25)
	for _, r := range sampleRounds() {
		tally.Add(r)
	}
	meta := &storage.RunMetadata{
		ID:            "H_1",
		Timestamp:     time.Now(),
		Target:        "H",
		Configuration: "H",
		Model:         "kepler",
		EnergyKeV:     50,
		Charge:        1,
		B2Max:         25,
		Rounds:        5,
		Successful:    tally.Successful(),
		Failed:        tally.Failed(),
		Tally:         tally,
		CrossSections: tally.Estimates(),
	}

	out := RenderSummary(meta)
	for _, want := range []string{"elastic", "ionization", "capture", "distance-not-reached=1", "H_1"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "molecule") {
		t.Errorf("summary lists an unobserved channel:\n%s", out)
	}
}

func TestChannelTableEmpty(t *testing.T) {
	if out := ChannelTable(nil); !strings.Contains(out, "no successful rounds") {
		t.Errorf("ChannelTable(nil) = %q", out)
	}
}

func TestCanvasLine(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Fit(0, 8, 0, 8)
	c.Line(0, 0, 8, 8)

	lit := 0
	for _, row := range c.Grid {
		for _, r := range row {
			if r != brailleBlank {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatal("line left the canvas blank")
	}

	c.Set(-1, 0)
	c.Set(100, 100)
}

func TestViewProject(t *testing.T) {
	x, y := View{}.Project(r3.Vec{X: 3, Y: 2, Z: 1})
	if x != 1 || y != 2 {
		t.Errorf("zero view projected to (%v, %v), want (1, 2)", x, y)
	}

	x, _ = View{Azimuth: math.Pi / 2}.Project(r3.Vec{X: 3, Y: 2, Z: 1})
	if math.Abs(x+3) > 1e-12 {
		t.Errorf("quarter turn projected x to %v, want -3", x)
	}
}

func TestBodyPaths(t *testing.T) {
	header := []string{"time", "x0", "y0", "z0", "x1", "y1", "z1"}
	rows := [][]float64{
		{0, 0, 1, -10, 0, 0, 0},
		{1, 0, 1, -9, 0.1, 0, 0},
	}

	paths, err := BodyPaths(header, rows)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 || len(paths[0]) != 2 {
		t.Fatalf("BodyPaths returned %d paths", len(paths))
	}
	if paths[0][1].Z != -9 || paths[1][1].X != 0.1 {
		t.Errorf("unexpected paths %v", paths)
	}

	if out := RenderTrajectory(paths, View{}, 20, 6); strings.Count(out, "\n") != 7 {
		t.Errorf("trajectory has %d lines", strings.Count(out, "\n"))
	}

	if _, err := BodyPaths([]string{"time"}, rows); err == nil {
		t.Error("expected error without position columns")
	}
}

func TestProgress(t *testing.T) {
	var m tea.Model = NewProgress("run", 5, 25)
	for _, r := range sampleRounds() {
		m, _ = m.Update(RoundMsg(r))
	}

	p := m.(Progress)
	if p.Done() != 5 || p.Tally().Successful() != 4 || p.Tally().Failed() != 1 {
		t.Fatalf("progress counted %d done, %d ok, %d failed", p.Done(), p.Tally().Successful(), p.Tally().Failed())
	}
	if view := p.View(); !strings.Contains(view, "5/5") || !strings.Contains(view, "failed") {
		t.Errorf("unexpected view:\n%s", view)
	}

	m, cmd := m.Update(DoneMsg{Err: errors.New("boom")})
	if cmd == nil || !m.(Progress).Finished() {
		t.Error("DoneMsg should finish and quit")
	}

	_, cmd = NewProgress("run", 1, 1).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 1, 2, -1}, 10); got != "▁██▁" {
		t.Errorf("Sparkline = %q", got)
	}
	if got := Sparkline([]float64{0, 0.5, 1}, 2); len([]rune(got)) != 2 {
		t.Errorf("Sparkline did not keep the last values: %q", got)
	}
}

func TestThemes(t *testing.T) {
	defer SetTheme(ThemeDefault.Name)

	SetTheme("retro")
	if CurrentTheme.Name != "retro" {
		t.Errorf("SetTheme(retro) left %s", CurrentTheme.Name)
	}
	if GetTheme("nope").Name != ThemeDefault.Name {
		t.Error("unknown theme should fall back to default")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("ThemeNames length mismatch")
	}
}
