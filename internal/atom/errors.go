package atom

import "errors"

var (
	// ErrInvalidConfiguration indicates an electron configuration the
	// chosen model cannot represent.
	ErrInvalidConfiguration = errors.New("atom: invalid electron configuration")

	// ErrInteractionsExist indicates a second CreateInteractions call
	// without ClearInteractions in between.
	ErrInteractionsExist = errors.New("atom: interactions already created")

	// ErrSamplerExhausted indicates the Kepler solver failed to converge
	// within the restart budget.
	ErrSamplerExhausted = errors.New("atom: kepler solver did not converge")

	// ErrUnknownOrbit indicates an orbital not occupied in this atom.
	ErrUnknownOrbit = errors.New("atom: unknown orbit")
)
