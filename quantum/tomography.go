package quantum

import (
	"math"
	"math/rand/v2"
)

// BlochVector holds the Pauli expectation values of one qubit.
type BlochVector struct {
	X, Y, Z float64
}

// Length is 1 for a pure single-qubit state and shorter for mixed or noisy estimates.
func (b BlochVector) Length() float64 {
	return math.Sqrt(b.X*b.X + b.Y*b.Y + b.Z*b.Z)
}

// Qubit returns the pure state pointing along b.
func (b BlochVector) Qubit() Qubit {
	l := b.Length()
	if l < normEpsilon {
		return Zero()
	}
	theta := math.Acos(math.Max(-1, math.Min(1, b.Z/l)))
	phi := math.Atan2(b.Y, b.X)
	return FromBloch(theta, phi)
}

// Preparation drives a fresh register into the state to be characterised.
type Preparation func(r *Register) error

// Tomography estimates the Bloch vector of one qubit. The preparation runs
// three times on independent registers: unchanged for Z, followed by H for X,
// and followed by S† then H for Y. Each run samples the |0⟩ population and
// uses p₀ = (1 + ⟨axis⟩)/2.
func Tomography(numQubits, qubit int, prepare Preparation, shots int, rng *rand.Rand) (BlochVector, error) {
	if qubit < 0 || qubit >= numQubits {
		return BlochVector{}, &InvalidQubitIndexError{Index: qubit, Size: numQubits}
	}
	if prepare == nil {
		return BlochVector{}, invalidParameterf("nil preparation")
	}
	if shots < 1 {
		return BlochVector{}, measurementErrorf("shots must be positive, got %d", shots)
	}
	if rng == nil {
		return BlochVector{}, invalidParameterf("nil random generator")
	}

	bases := [][]Gate{
		{H()},
		{Sdg(), H()},
		nil,
	}
	var components [3]float64
	for i, basis := range bases {
		r, err := NewRegister(numQubits)
		if err != nil {
			return BlochVector{}, err
		}
		if err := prepare(r); err != nil {
			return BlochVector{}, err
		}
		for _, g := range basis {
			if err := r.ApplySingleGate(g, qubit); err != nil {
				return BlochVector{}, err
			}
		}
		stats, err := MeasureQubits(r, []int{qubit}, shots, rng)
		if err != nil {
			return BlochVector{}, err
		}
		components[i] = 2*stats.Probability("0") - 1
	}
	return BlochVector{X: components[0], Y: components[1], Z: components[2]}, nil
}
