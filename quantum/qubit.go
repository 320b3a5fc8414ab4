package quantum

import (
	"math"
	"math/cmplx"
)

// normEpsilon is the norm below which a vector is treated as degenerate.
const normEpsilon = 1e-10

// Qubit is a standalone single-qubit state α|0⟩ + β|1⟩. It is a diagnostic
// value type and is not used by Register.
type Qubit struct {
	Alpha complex128
	Beta  complex128
}

// Zero returns |0⟩.
func Zero() Qubit { return Qubit{Alpha: 1} }

// One returns |1⟩.
func One() Qubit { return Qubit{Beta: 1} }

// Plus returns (|0⟩ + |1⟩)/√2.
func Plus() Qubit { return Qubit{Alpha: complex(1/math.Sqrt2, 0), Beta: complex(1/math.Sqrt2, 0)} }

// Minus returns (|0⟩ - |1⟩)/√2.
func Minus() Qubit { return Qubit{Alpha: complex(1/math.Sqrt2, 0), Beta: complex(-1/math.Sqrt2, 0)} }

// PlusI returns (|0⟩ + i|1⟩)/√2.
func PlusI() Qubit { return Qubit{Alpha: complex(1/math.Sqrt2, 0), Beta: complex(0, 1/math.Sqrt2)} }

// MinusI returns (|0⟩ - i|1⟩)/√2.
func MinusI() Qubit { return Qubit{Alpha: complex(1/math.Sqrt2, 0), Beta: complex(0, -1/math.Sqrt2)} }

// FromBloch builds cos(θ/2)|0⟩ + e^{iφ}sin(θ/2)|1⟩.
func FromBloch(theta, phi float64) Qubit {
	return Qubit{
		Alpha: complex(math.Cos(theta/2), 0),
		Beta:  cmplx.Rect(math.Sin(theta/2), phi),
	}
}

// ToBloch returns the polar and azimuthal angles of q after removing the
// global phase carried by α. φ is reported in [0, 2π).
func (q Qubit) ToBloch() (theta, phi float64) {
	alpha, beta := q.Alpha, q.Beta
	if cmplx.Abs(alpha) > normEpsilon {
		phase := cmplx.Rect(1, -cmplx.Phase(alpha))
		alpha *= phase
		beta *= phase
	}
	re := math.Max(-1, math.Min(1, real(alpha)))
	theta = 2 * math.Acos(re)
	if cmplx.Abs(beta) > normEpsilon {
		phi = cmplx.Phase(beta)
	}
	if phi < 0 {
		phi += 2 * math.Pi
	}
	if phi >= 2*math.Pi {
		phi -= 2 * math.Pi
	}
	return theta, phi
}

// Norm returns sqrt(|α|² + |β|²).
func (q Qubit) Norm() float64 {
	return math.Sqrt(absSq(q.Alpha) + absSq(q.Beta))
}

// IsNormalized reports whether |α|² + |β|² is within 1e-10 of one.
func (q Qubit) IsNormalized() bool {
	return math.Abs(absSq(q.Alpha)+absSq(q.Beta)-1) < normEpsilon
}

// Normalize scales q to unit norm. A degenerate (near-zero) vector is returned
// unchanged.
func (q Qubit) Normalize() Qubit {
	n := q.Norm()
	if n <= normEpsilon {
		return q
	}
	s := complex(1/n, 0)
	return Qubit{Alpha: q.Alpha * s, Beta: q.Beta * s}
}

// Probabilities returns P(0) and P(1).
func (q Qubit) Probabilities() (p0, p1 float64) {
	return absSq(q.Alpha), absSq(q.Beta)
}

// Fidelity returns |⟨q|other⟩|².
func (q Qubit) Fidelity(other Qubit) float64 {
	inner := cmplx.Conj(q.Alpha)*other.Alpha + cmplx.Conj(q.Beta)*other.Beta
	return absSq(inner)
}

// Apply returns g·q. g must be a single-qubit gate.
func (q Qubit) Apply(g Gate) (Qubit, error) {
	if g.Arity() != 1 {
		return q, &DimensionMismatchError{Expected: 1, Actual: g.Arity()}
	}
	m := g.matrix
	return Qubit{
		Alpha: m[0]*q.Alpha + m[1]*q.Beta,
		Beta:  m[2]*q.Alpha + m[3]*q.Beta,
	}, nil
}

func absSq(c complex128) float64 {
	return real(c)*real(c) + imag(c)*imag(c)
}
