package viz

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// View is an orthographic camera. Azimuth turns about the y axis and
// Elevation tilts about the screen's horizontal axis; the zero view looks
// down the x axis at the y-z plane with z, the beam axis, to the right.
type View struct {
	Azimuth   float64
	Elevation float64
	// Radius, if positive, clips the plotted region to a box around the
	// origin of that half-width.
	Radius float64
}

// Project returns screen coordinates of p.
func (v View) Project(p r3.Vec) (x, y float64) {
	ca, sa := math.Cos(v.Azimuth), math.Sin(v.Azimuth)
	p = r3.Vec{X: p.X*ca + p.Z*sa, Y: p.Y, Z: -p.X*sa + p.Z*ca}
	ce, se := math.Cos(v.Elevation), math.Sin(v.Elevation)
	p = r3.Vec{X: p.X*ce - p.Y*se, Y: p.X*se + p.Y*ce, Z: p.Z}
	return p.Z, p.Y
}

// BodyPaths extracts per-body position series from a track table written
// with positions (columns x0, y0, z0, x1, ...).
func BodyPaths(header []string, rows [][]float64) ([][]r3.Vec, error) {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	var paths [][]r3.Vec
	for b := 0; ; b++ {
		ix, okx := col[fmt.Sprintf("x%d", b)]
		iy, oky := col[fmt.Sprintf("y%d", b)]
		iz, okz := col[fmt.Sprintf("z%d", b)]
		if !okx || !oky || !okz {
			break
		}
		path := make([]r3.Vec, len(rows))
		for i, row := range rows {
			path[i] = r3.Vec{X: row[ix], Y: row[iy], Z: row[iz]}
		}
		paths = append(paths, path)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("viz: track has no body position columns")
	}
	return paths, nil
}

// RenderTrajectory draws every path on a width x height Braille canvas.
func RenderTrajectory(paths [][]r3.Vec, view View, width, height int) string {
	c := NewCanvas(width, height)

	inside := func(x, y float64) bool {
		return view.Radius <= 0 || (math.Abs(x) <= view.Radius && math.Abs(y) <= view.Radius)
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, path := range paths {
		for _, p := range path {
			x, y := view.Project(p)
			if !inside(x, y) {
				continue
			}
			minX, maxX = math.Min(minX, x), math.Max(maxX, x)
			minY, maxY = math.Min(minY, y), math.Max(maxY, y)
		}
	}
	if math.IsInf(minX, 0) {
		return c.String()
	}
	c.Fit(minX, maxX, minY, maxY)

	for _, path := range paths {
		for i := 1; i < len(path); i++ {
			x0, y0 := view.Project(path[i-1])
			x1, y1 := view.Project(path[i])
			if inside(x0, y0) && inside(x1, y1) {
				c.Line(x0, y0, x1, y1)
			}
		}
		if len(path) == 1 {
			c.Plot(view.Project(path[0]))
		}
	}

	var b strings.Builder
	b.WriteString(Subtle.Render(fmt.Sprintf("z [%.2f, %.2f]  y [%.2f, %.2f]", minX, maxX, minY, maxY)))
	b.WriteString("\n")
	b.WriteString(c.String())
	return b.String()
}
