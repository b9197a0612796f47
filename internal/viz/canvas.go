package viz

import (
	"math"
	"strings"
)

// Braille patterns hold 2x4 dots per cell:
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a Braille dot grid of Width x Height cells, i.e. 2*Width by
// 4*Height dots, mapped onto a rectangle of world coordinates.
type Canvas struct {
	Width, Height int
	Grid          [][]rune

	minX, maxX float64
	minY, maxY float64
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		maxX:   1,
		maxY:   1,
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
	return c
}

// Fit sets the world rectangle, widening the shorter side so both axes
// share one scale.
func (c *Canvas) Fit(minX, maxX, minY, maxY float64) {
	if maxX <= minX {
		minX, maxX = minX-1, minX+1
	}
	if maxY <= minY {
		minY, maxY = minY-1, minY+1
	}

	dotsX, dotsY := float64(2*c.Width), float64(4*c.Height)
	scale := math.Max((maxX-minX)/dotsX, (maxY-minY)/dotsY)
	cx, cy := 0.5*(minX+maxX), 0.5*(minY+maxY)
	c.minX, c.maxX = cx-0.5*scale*dotsX, cx+0.5*scale*dotsX
	c.minY, c.maxY = cy-0.5*scale*dotsY, cy+0.5*scale*dotsY
}

// dot maps world coordinates to dot coordinates, y pointing down.
func (c *Canvas) dot(x, y float64) (int, int) {
	px := (x - c.minX) / (c.maxX - c.minX) * float64(2*c.Width)
	py := (c.maxY - y) / (c.maxY - c.minY) * float64(4*c.Height)
	return int(math.Floor(px)), int(math.Floor(py))
}

// Set sets the dot at (x, y) in dot coordinates.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Plot sets the dot nearest to the world point (x, y).
func (c *Canvas) Plot(x, y float64) {
	c.Set(c.dot(x, y))
}

// Line joins two world points.
func (c *Canvas) Line(x0, y0, x1, y1 float64) {
	a, b := c.dot(x0, y0)
	p, q := c.dot(x1, y1)
	c.DrawLine(a, b, p, q)
}

// DrawLine draws a line between dot coordinates using Bresenham's
// algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
