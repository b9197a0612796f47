package integrators

import (
	"math"

	"github.com/san-kum/ctmcsim/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

const (
	stepperOrder = 5
	errorOrder   = 4
)

// RK45 is a Dormand-Prince 5(4) stepper with error control on a mixed
// absolute/relative tolerance:
//
//	err = max_i |e_i| / (abs + rel*(|x_i| + dt*|dx_i|))
//
// A step is accepted when err <= 1.
type RK45 struct {
	AbsTol float64
	RelTol float64

	safety   float64
	minScale float64
	maxScale float64

	k       [7]dynamo.State
	scratch dynamo.State
}

func NewRK45(absTol, relTol float64) *RK45 {
	return &RK45{
		AbsTol:   absTol,
		RelTol:   relTol,
		safety:   0.9,
		minScale: 0.2,
		maxScale: 5.0,
	}
}

func (r *RK45) ensureScratch(n int) {
	if len(r.scratch) != n {
		for i := range r.k {
			r.k[i] = make(dynamo.State, n)
		}
		r.scratch = make(dynamo.State, n)
	}
}

// Step advances by dt without error control.
func (r *RK45) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	xNew, _ := r.stages(dyn, x, t, dt)
	return xNew
}

// TryStep implements dynamo.AdaptiveIntegrator.
func (r *RK45) TryStep(dyn dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, float64, bool) {
	xNew, errMax := r.stages(dyn, x, t, dt)

	if math.IsNaN(errMax) || errMax > 1 {
		scale := r.minScale
		if !math.IsNaN(errMax) {
			scale = math.Max(r.minScale, r.safety*math.Pow(errMax, -1.0/(errorOrder-1)))
		}
		return x, dt * scale, false
	}

	dtNew := dt
	if errMax < 0.5 {
		errMax = math.Max(math.Pow(r.maxScale, -stepperOrder), errMax)
		dtNew = dt * r.safety * math.Pow(errMax, -1.0/stepperOrder)
	}
	return xNew, dtNew, true
}

// stages evaluates the seven Dormand-Prince stages and returns the fifth
// order solution together with the scaled error norm.
func (r *RK45) stages(dyn dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, float64) {
	n := len(x)
	r.ensureScratch(n)
	k := &r.k
	s := r.scratch

	copy(k[0], dyn.Derive(x, t))

	for i := 0; i < n; i++ {
		s[i] = x[i] + dt*b21*k[0][i]
	}
	copy(k[1], dyn.Derive(s, t+a2*dt))

	for i := 0; i < n; i++ {
		s[i] = x[i] + dt*(b31*k[0][i]+b32*k[1][i])
	}
	copy(k[2], dyn.Derive(s, t+a3*dt))

	for i := 0; i < n; i++ {
		s[i] = x[i] + dt*(b41*k[0][i]+b42*k[1][i]+b43*k[2][i])
	}
	copy(k[3], dyn.Derive(s, t+a4*dt))

	for i := 0; i < n; i++ {
		s[i] = x[i] + dt*(b51*k[0][i]+b52*k[1][i]+b53*k[2][i]+b54*k[3][i])
	}
	copy(k[4], dyn.Derive(s, t+a5*dt))

	for i := 0; i < n; i++ {
		s[i] = x[i] + dt*(b61*k[0][i]+b62*k[1][i]+b63*k[2][i]+b64*k[3][i]+b65*k[4][i])
	}
	copy(k[5], dyn.Derive(s, t+dt))

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(c1*k[0][i]+c3*k[2][i]+c4*k[3][i]+c5*k[4][i]+c6*k[5][i])
	}

	copy(k[6], dyn.Derive(xNew, t+dt))

	errMax := 0.0
	for i := 0; i < n; i++ {
		errEst := dt * (dc1*k[0][i] + dc3*k[2][i] + dc4*k[3][i] + dc5*k[4][i] + dc6*k[5][i] + dc7*k[6][i])
		scale := r.AbsTol + r.RelTol*(math.Abs(x[i])+math.Abs(dt*k[0][i]))
		errMax = math.Max(errMax, math.Abs(errEst)/scale)
	}

	return xNew, errMax
}
