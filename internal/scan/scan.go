// Package scan runs a collision experiment at every point of a parameter
// grid.
package scan

import (
	"context"
	"fmt"
	"sort"

	"github.com/san-kum/ctmcsim/internal/collision"
)

// Parameters a grid may vary.
const (
	ParamEnergy = "energy"
	ParamB2Max  = "b2max"
	ParamCharge = "charge"
	ParamRounds = "rounds"
)

// Apply sets the named parameter on cfg.
func Apply(cfg *collision.Config, name string, value float64) error {
	switch name {
	case ParamEnergy:
		cfg.Projectile.EnergyKeV = value
	case ParamB2Max:
		cfg.B2Max = value
	case ParamCharge:
		cfg.Projectile.Charge = value
	case ParamRounds:
		cfg.Rounds = int(value)
	default:
		return fmt.Errorf("scan: unknown parameter %q", name)
	}
	return nil
}

// Point is one finished grid point.
type Point struct {
	Params    map[string]float64          `json:"params"`
	Estimates []collision.ChannelEstimate `json:"estimates"`
	Result    *collision.Result           `json:"-"`
}

// Sigma16 is the cross section of o at p in 1e-16 cm^2.
func (p Point) Sigma16(o collision.Outcome) (float64, float64) {
	for _, e := range p.Estimates {
		if e.Outcome == o {
			return e.Sigma16, e.Sigma16Err
		}
	}
	return 0, 0
}

type Grid struct {
	paramNames []string
	ranges     [][]float64
}

func NewGrid(params []string, ranges [][]float64) (*Grid, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("scan: %d parameters, %d ranges", len(params), len(ranges))
	}
	probe := collision.DefaultConfig()
	for i, name := range params {
		if err := Apply(&probe, name, 0); err != nil {
			return nil, err
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("scan: empty range for %s", name)
		}
	}
	return &Grid{paramNames: params, ranges: ranges}, nil
}

func (g *Grid) Params() []string { return append([]string(nil), g.paramNames...) }

// Size is the number of grid points.
func (g *Grid) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Run plays an experiment built from base at every grid point, the last
// parameter varying fastest. onPoint, if set, sees each point as it
// finishes. The first failing point stops the scan.
func (g *Grid) Run(ctx context.Context, base collision.Config, onPoint func(Point), opts ...collision.Option) ([]Point, error) {
	points := make([]Point, 0, g.Size())
	err := g.runRecursive(ctx, 0, make(map[string]float64), base, opts, func(p Point) {
		points = append(points, p)
		if onPoint != nil {
			onPoint(p)
		}
	})
	return points, err
}

func (g *Grid) runRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base collision.Config,
	opts []collision.Option,
	emit func(Point),
) error {
	if depth == len(g.paramNames) {
		if err := ctx.Err(); err != nil {
			return err
		}

		cfg := base
		for name, v := range current {
			if err := Apply(&cfg, name, v); err != nil {
				return err
			}
		}

		exp, err := collision.New(cfg, opts...)
		if err != nil {
			return fmt.Errorf("scan %v: %w", current, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return fmt.Errorf("scan %v: %w", current, err)
		}

		emit(Point{Params: current, Estimates: result.Tally.Estimates(), Result: result})
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.runRecursive(ctx, depth+1, newParams, base, opts, emit); err != nil {
			return err
		}
	}
	return nil
}

// Best returns the point with the largest cross section for o.
func Best(points []Point, o collision.Outcome) (Point, bool) {
	best, found := Point{}, false
	bestSigma := -1.0
	for _, p := range points {
		if s, _ := p.Sigma16(o); s > bestSigma {
			best, bestSigma, found = p, s, true
		}
	}
	return best, found
}

// Channels lists every outcome observed at any point, in display order.
func Channels(points []Point) []collision.Outcome {
	seen := make(map[collision.Outcome]bool)
	for _, p := range points {
		for _, e := range p.Estimates {
			seen[e.Outcome] = true
		}
	}
	out := make([]collision.Outcome, 0, len(seen))
	for o := range seen {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
