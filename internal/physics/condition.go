package physics

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/ctmcsim/internal/dynamo"
)

// DistanceCondition fires once bodies A and B are farther apart than
// Threshold.
type DistanceCondition struct {
	A, B      BodyID
	Threshold float64
}

func NewDistanceCondition(a, b BodyID, threshold float64) DistanceCondition {
	return DistanceCondition{A: a, B: b, Threshold: threshold}
}

// Distance between A and B in phase x.
func (c DistanceCondition) Distance(x dynamo.State) float64 {
	return r3.Norm(r3.Sub(position(x, c.A), position(x, c.B)))
}

// Evaluate implements dynamo.Condition.
func (c DistanceCondition) Evaluate(x dynamo.State, t float64) bool {
	return c.Distance(x) > c.Threshold
}
