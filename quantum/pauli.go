package quantum

import (
	"math/bits"
	"math/cmplx"
	"strings"
)

// maxDensePauliQubits bounds PauliMatrix, which materialises a 4^n matrix.
const maxDensePauliQubits = 10

// pauliMasks decodes a Pauli string. Character k acts on qubit n-1-k, the
// order of the Kronecker product P_0 ⊗ P_1 ⊗ … ⊗ P_{n-1}.
func pauliMasks(pauli string, numQubits int) (xMask, zMask, numY int, err error) {
	if len(pauli) != numQubits {
		return 0, 0, 0, invalidParameterf("pauli string %q has length %d, register has %d qubits", pauli, len(pauli), numQubits)
	}
	for k := range len(pauli) {
		ch := pauli[k]
		if 'a' <= ch && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		bit := 1 << (numQubits - 1 - k)
		switch ch {
		case 'I':
		case 'X':
			xMask |= bit
		case 'Y':
			xMask |= bit
			zMask |= bit
			numY++
		case 'Z':
			zMask |= bit
		default:
			return 0, 0, 0, invalidParameterf("pauli string %q has invalid character %q", pauli, ch)
		}
	}
	return xMask, zMask, numY, nil
}

// ExpectationPauli returns Re⟨ψ|P|ψ⟩ for a Pauli string over the alphabet
// {I,X,Y,Z} (case-insensitive), one character per qubit.
//
// A Pauli string maps |i⟩ to c(i)|i ⊕ x⟩ with c(i) = i^{#Y}·(-1)^{popcount(i & z)},
// so the expectation is a single pass over the state with no operator matrix.
func ExpectationPauli(r *Register, pauli string) (float64, error) {
	xMask, zMask, numY, err := pauliMasks(pauli, r.numQubits)
	if err != nil {
		return 0, err
	}
	yPhase := complex(1, 0)
	for range numY % 4 {
		yPhase *= 1i
	}
	var acc complex128
	for i, a := range r.amps {
		if a == 0 {
			continue
		}
		c := yPhase
		if bits.OnesCount(uint(i&zMask))%2 == 1 {
			c = -c
		}
		acc += cmplx.Conj(r.amps[i^xMask]) * c * a
	}
	return real(acc), nil
}

// VariancePauli returns 1 - ⟨P⟩², valid because every Pauli string squares to I.
func VariancePauli(r *Register, pauli string) (float64, error) {
	e, err := ExpectationPauli(r, pauli)
	if err != nil {
		return 0, err
	}
	return 1 - e*e, nil
}

// PauliTerm is one weighted Pauli string of an observable.
type PauliTerm struct {
	Coefficient float64
	Pauli       string
}

// PauliSum is a Hermitian observable written as a real combination of Pauli strings.
type PauliSum []PauliTerm

// ExpectationHamiltonian returns Σ c_k ⟨P_k⟩.
func ExpectationHamiltonian(r *Register, h PauliSum) (float64, error) {
	var total float64
	for _, term := range h {
		e, err := ExpectationPauli(r, term.Pauli)
		if err != nil {
			return 0, err
		}
		total += term.Coefficient * e
	}
	return total, nil
}

var pauliMatrices = map[rune][]complex128{
	'I': {1, 0, 0, 1},
	'X': {0, 1, 1, 0},
	'Y': {0, -1i, 1i, 0},
	'Z': {1, 0, 0, -1},
}

// PauliMatrix materialises the dense 2^n×2^n Kronecker product of a Pauli
// string. It exists as a cross-check for small registers; ExpectationPauli
// never builds it.
func PauliMatrix(pauli string) ([]complex128, error) {
	if len(pauli) == 0 || len(pauli) > maxDensePauliQubits {
		return nil, invalidParameterf("dense pauli matrix needs 1..%d qubits, got %d", maxDensePauliQubits, len(pauli))
	}
	out := []complex128{1}
	dim := 1
	for _, ch := range strings.ToUpper(pauli) {
		p, ok := pauliMatrices[ch]
		if !ok {
			return nil, invalidParameterf("pauli string %q has invalid character %q", pauli, ch)
		}
		out = kron(out, dim, p, 2)
		dim *= 2
	}
	return out, nil
}

// kron returns the Kronecker product of a (da×da) and b (db×db).
func kron(a []complex128, da int, b []complex128, db int) []complex128 {
	d := da * db
	out := make([]complex128, d*d)
	for ar := range da {
		for ac := range da {
			av := a[ar*da+ac]
			if av == 0 {
				continue
			}
			for br := range db {
				for bc := range db {
					out[(ar*db+br)*d+ac*db+bc] = av * b[br*db+bc]
				}
			}
		}
	}
	return out
}

// ExpectationDense computes Re⟨ψ|M|ψ⟩ for a dense row-major operator.
func ExpectationDense(r *Register, m []complex128) (float64, error) {
	dim := len(r.amps)
	if len(m) != dim*dim {
		return 0, &DimensionMismatchError{Expected: dim * dim, Actual: len(m)}
	}
	var acc complex128
	for row := range dim {
		var mv complex128
		for col := range dim {
			mv += m[row*dim+col] * r.amps[col]
		}
		acc += cmplx.Conj(r.amps[row]) * mv
	}
	return real(acc), nil
}
