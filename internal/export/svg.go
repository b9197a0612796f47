// Package export renders run data as standalone SVG documents.
package export

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/ctmcsim/internal/viz"
)

// ErrEmpty is returned when there is nothing to draw.
var ErrEmpty = errors.New("export: nothing to draw")

// Palette cycles through body and series colours.
var Palette = []string{"#00ff9c", "#ff6b6b", "#4dabf7", "#ffd43b", "#da77f2", "#ff922b"}

func colour(i int) string { return Palette[i%len(Palette)] }

type bounds struct {
	minX, maxX, minY, maxY float64
}

func newBounds() bounds {
	return bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
}

func (b *bounds) add(x, y float64) {
	b.minX = math.Min(b.minX, x)
	b.maxX = math.Max(b.maxX, x)
	b.minY = math.Min(b.minY, y)
	b.maxY = math.Max(b.maxY, y)
}

// pad widens b by 10% on each side; degenerate ranges become unit ranges.
func (b *bounds) pad() {
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
}

// square grows the shorter side so both axes share one scale.
func (b *bounds) square(width, height int) {
	sx := (b.maxX - b.minX) / float64(width)
	sy := (b.maxY - b.minY) / float64(height)
	if sx > sy {
		grow := (sx*float64(height) - (b.maxY - b.minY)) / 2
		b.minY -= grow
		b.maxY += grow
	} else {
		grow := (sy*float64(width) - (b.maxX - b.minX)) / 2
		b.minX -= grow
		b.maxX += grow
	}
}

func (b bounds) pixel(x, y float64, width, height int) (float64, float64) {
	px := (x - b.minX) / (b.maxX - b.minX) * float64(width)
	py := float64(height) - (y-b.minY)/(b.maxY-b.minY)*float64(height)
	return px, py
}

func header(sb *strings.Builder, width, height int) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))
}

func path(sb *strings.Builder, pts [][2]float64, stroke string) {
	if len(pts) < 2 {
		return
	}
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke))
	for i, p := range pts {
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", p[0], p[1]))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", p[0], p[1]))
		}
	}
	sb.WriteString("\"/>\n")
}

// TrajectorySVG projects every body path through view and draws one
// stroke per body. With a positive view.Radius, points projecting outside
// the box of that half-width are dropped. Returns "" when nothing is
// drawable.
func TrajectorySVG(paths [][]r3.Vec, view viz.View, width, height int) string {
	projected := make([][][2]float64, len(paths))
	b := newBounds()
	n := 0
	for i, p := range paths {
		for _, pt := range p {
			x, y := view.Project(pt)
			if view.Radius > 0 && (math.Abs(x) > view.Radius || math.Abs(y) > view.Radius) {
				continue
			}
			projected[i] = append(projected[i], [2]float64{x, y})
			b.add(x, y)
			n++
		}
	}
	if n < 2 {
		return ""
	}
	b.pad()
	b.square(width, height)

	var sb strings.Builder
	header(&sb, width, height)
	for i, pts := range projected {
		for j := range pts {
			pts[j][0], pts[j][1] = b.pixel(pts[j][0], pts[j][1], width, height)
		}
		path(&sb, pts, colour(i))
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// Series is one named curve over a shared x axis.
type Series struct {
	Name   string
	Values []float64
}

// CurveSVG draws each series against xs with a legend in the top-left
// corner. Series shorter than xs are drawn up to their length.
func CurveSVG(xs []float64, series []Series, width, height int) string {
	if len(xs) < 2 || len(series) == 0 {
		return ""
	}
	b := newBounds()
	for _, s := range series {
		for i, v := range s.Values {
			if i < len(xs) {
				b.add(xs[i], v)
			}
		}
	}
	b.minY = math.Min(b.minY, 0)
	b.pad()

	var sb strings.Builder
	header(&sb, width, height)
	for k, s := range series {
		var pts [][2]float64
		for i, v := range s.Values {
			if i >= len(xs) {
				break
			}
			x, y := b.pixel(xs[i], v, width, height)
			pts = append(pts, [2]float64{x, y})
		}
		path(&sb, pts, colour(k))
		sb.WriteString(fmt.Sprintf(`<text x="8" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, 16+14*k, colour(k), s.Name))
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// WriteFile writes an SVG document to path.
func WriteFile(name, svg string) error {
	if svg == "" {
		return ErrEmpty
	}
	return os.WriteFile(name, []byte(svg), 0644)
}
