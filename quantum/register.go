package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand/v2"
)

// MaxQubits is the soft ceiling on register size. A register of n qubits holds
// 2^n amplitudes at 16 bytes each, so 28 qubits already needs 4 GiB.
const MaxQubits = 28

// Register owns a dense state vector of 2^n amplitudes. Bit b of a basis
// index is the value of qubit b.
//
// A Register is not safe for concurrent use. Independent registers may be
// driven from separate goroutines.
type Register struct {
	amps      []complex128
	numQubits int
}

// NewRegister allocates an n-qubit register in |0…0⟩.
func NewRegister(numQubits int) (*Register, error) {
	if numQubits < 1 || numQubits > MaxQubits {
		return nil, invalidDimension(numQubits)
	}
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &Register{amps: amps, numQubits: numQubits}, nil
}

// NewRegisterFromAmplitudes copies amps into a new register. The length must
// be a power of two and the vector must have unit norm within 1e-6.
func NewRegisterFromAmplitudes(amps []complex128) (*Register, error) {
	n := 0
	for 1<<n < len(amps) {
		n++
	}
	if len(amps) < 2 || 1<<n != len(amps) {
		return nil, &DimensionMismatchError{Expected: 1 << max(n, 1), Actual: len(amps)}
	}
	if n > MaxQubits {
		return nil, invalidDimension(n)
	}
	r := &Register{amps: make([]complex128, len(amps)), numQubits: n}
	copy(r.amps, amps)
	if norm := r.Norm(); math.Abs(norm-1) > 1e-6 {
		return nil, invalidStatef("amplitudes have norm %g", norm)
	}
	return r, nil
}

func invalidDimension(n int) error {
	return fmt.Errorf("%w: register size %d outside [1, %d]", ErrDimensionMismatch, n, MaxQubits)
}

// NumQubits returns n.
func (r *Register) NumQubits() int { return r.numQubits }

// Dim returns 2^n.
func (r *Register) Dim() int { return len(r.amps) }

// Amplitudes returns a copy of the state vector.
func (r *Register) Amplitudes() []complex128 {
	out := make([]complex128, len(r.amps))
	copy(out, r.amps)
	return out
}

// Amplitude returns the amplitude of basis state index.
func (r *Register) Amplitude(index int) (complex128, error) {
	if index < 0 || index >= len(r.amps) {
		return 0, &DimensionMismatchError{Expected: len(r.amps), Actual: index}
	}
	return r.amps[index], nil
}

// Clone returns an independent copy of the register.
func (r *Register) Clone() *Register {
	return &Register{amps: r.Amplitudes(), numQubits: r.numQubits}
}

// ──────────────────────────── Validation ────────────────────────────

func (r *Register) checkQubit(q int) error {
	if q < 0 || q >= r.numQubits {
		return &InvalidQubitIndexError{Index: q, Size: r.numQubits}
	}
	return nil
}

// checkTargets validates range first, then distinctness.
func (r *Register) checkTargets(targets []int) error {
	for _, q := range targets {
		if err := r.checkQubit(q); err != nil {
			return err
		}
	}
	for i := range targets {
		for j := i + 1; j < len(targets); j++ {
			if targets[i] == targets[j] {
				return &SameQubitIndexError{I: targets[i], J: targets[j]}
			}
		}
	}
	return nil
}

// ──────────────────────────── Gate application ────────────────────────────

// ApplyGate applies g to the listed targets, dispatching on arity.
func (r *Register) ApplyGate(g Gate, targets ...int) error {
	if g.arity < 1 || g.arity > 3 {
		return invalidParameterf("gate %q has arity %d", g.name, g.arity)
	}
	if len(targets) != g.arity {
		return &DimensionMismatchError{Expected: g.arity, Actual: len(targets)}
	}
	switch g.arity {
	case 1:
		return r.ApplySingleGate(g, targets[0])
	case 2:
		return r.ApplyTwoQubitGate(g, targets[0], targets[1])
	default:
		return r.ApplyThreeQubitGate(g, targets[0], targets[1], targets[2])
	}
}

// ApplySingleGate applies a 2×2 gate to qubit q. Each index pair differing
// only in bit q is visited once and updated in place.
func (r *Register) ApplySingleGate(g Gate, q int) error {
	if g.arity != 1 {
		return &DimensionMismatchError{Expected: 1, Actual: g.arity}
	}
	if err := r.checkQubit(q); err != nil {
		return err
	}
	m00, m01, m10, m11 := g.matrix[0], g.matrix[1], g.matrix[2], g.matrix[3]
	bit := 1 << q
	n := len(r.amps)
	for base := 0; base < n; base += bit << 1 {
		for i0 := base; i0 < base+bit; i0++ {
			i1 := i0 | bit
			a0, a1 := r.amps[i0], r.amps[i1]
			r.amps[i0] = m00*a0 + m01*a1
			r.amps[i1] = m10*a0 + m11*a1
		}
	}
	return nil
}

// ApplyTwoQubitGate applies a 4×4 gate with q0 as the most significant local bit.
func (r *Register) ApplyTwoQubitGate(g Gate, q0, q1 int) error {
	if g.arity != 2 {
		return &DimensionMismatchError{Expected: 2, Actual: g.arity}
	}
	if err := r.checkTargets([]int{q0, q1}); err != nil {
		return err
	}
	var offsets [4]int
	localOffsets(offsets[:], q0, q1)
	r.applyLocal(g.matrix, offsets[:], 1<<q0|1<<q1)
	return nil
}

// ApplyThreeQubitGate applies an 8×8 gate with q0 as the most significant local bit.
func (r *Register) ApplyThreeQubitGate(g Gate, q0, q1, q2 int) error {
	if g.arity != 3 {
		return &DimensionMismatchError{Expected: 3, Actual: g.arity}
	}
	if err := r.checkTargets([]int{q0, q1, q2}); err != nil {
		return err
	}
	var offsets [8]int
	localOffsets(offsets[:], q0, q1, q2)
	r.applyLocal(g.matrix, offsets[:], 1<<q0|1<<q1|1<<q2)
	return nil
}

// localOffsets fills offsets[l] with the global bit pattern of local index l.
// targets[0] maps to the highest local bit.
func localOffsets(offsets []int, targets ...int) {
	k := len(targets)
	for l := range offsets {
		off := 0
		for t, q := range targets {
			if l>>(k-1-t)&1 == 1 {
				off |= 1 << q
			}
		}
		offsets[l] = off
	}
}

// applyLocal multiplies every 2^k-amplitude group sharing the non-target bits
// by m. Scratch space lives on the stack.
func (r *Register) applyLocal(m []complex128, offsets []int, mask int) {
	dim := len(offsets)
	var in [8]complex128
	for base := range r.amps {
		if base&mask != 0 {
			continue
		}
		for l := range dim {
			in[l] = r.amps[base|offsets[l]]
		}
		for row := range dim {
			var acc complex128
			rowStart := row * dim
			for col := range dim {
				acc += m[rowStart+col] * in[col]
			}
			r.amps[base|offsets[row]] = acc
		}
	}
}

// ApplyCircuit replays every instruction in order. The first failing
// instruction aborts the replay; earlier instructions stay applied and the
// register should be discarded.
func (r *Register) ApplyCircuit(c *Circuit) error {
	if c.numQubits > r.numQubits {
		return &DimensionMismatchError{Expected: r.numQubits, Actual: c.numQubits}
	}
	for i, inst := range c.instructions {
		if err := r.ApplyGate(inst.Gate, inst.Targets...); err != nil {
			logger().Debug("circuit replay aborted", "instruction", i, "gate", inst.Gate.name, "err", err)
			return err
		}
	}
	return nil
}

// ──────────────────────────── Probabilities ────────────────────────────

// Probabilities returns |amp_i|² for every basis state.
func (r *Register) Probabilities() []float64 {
	out := make([]float64, len(r.amps))
	for i, a := range r.amps {
		out[i] = absSq(a)
	}
	return out
}

// ProbabilityOfOne returns the marginal probability of qubit q reading 1.
func (r *Register) ProbabilityOfOne(q int) (float64, error) {
	if err := r.checkQubit(q); err != nil {
		return 0, err
	}
	return r.probabilityOne(q), nil
}

func (r *Register) probabilityOne(q int) float64 {
	bit := 1 << q
	var p1 float64
	for i, a := range r.amps {
		if i&bit != 0 {
			p1 += absSq(a)
		}
	}
	return p1
}

// QubitProbability pairs the marginal outcome probabilities of one qubit.
type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

// QubitProbabilities returns the marginals of every qubit.
func (r *Register) QubitProbabilities() []QubitProbability {
	probs := make([]QubitProbability, r.numQubits)
	for i, a := range r.amps {
		p := absSq(a)
		for q := range r.numQubits {
			if i&(1<<q) != 0 {
				probs[q].Prob1 += p
			} else {
				probs[q].Prob0 += p
			}
		}
	}
	return probs
}

// Norm returns sqrt(Σ|amp_i|²).
func (r *Register) Norm() float64 {
	var sum float64
	for _, a := range r.amps {
		sum += absSq(a)
	}
	return math.Sqrt(sum)
}

// Normalize rescales the state to unit norm. A vector with norm below 1e-10
// cannot be recovered and yields a *NormalizationError.
func (r *Register) Normalize() error {
	norm := r.Norm()
	if norm < normEpsilon || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return &NormalizationError{Norm: norm}
	}
	if norm == 1 {
		return nil
	}
	s := complex(1/norm, 0)
	for i := range r.amps {
		r.amps[i] *= s
	}
	return nil
}

// Fidelity returns |⟨r|other⟩|².
func (r *Register) Fidelity(other *Register) (float64, error) {
	if other.numQubits != r.numQubits {
		return 0, &DimensionMismatchError{Expected: r.numQubits, Actual: other.numQubits}
	}
	var inner complex128
	for i, a := range r.amps {
		inner += cmplx.Conj(a) * other.amps[i]
	}
	return absSq(inner), nil
}

// ──────────────────────────── Collapse ────────────────────────────

// Measure samples qubit q from its marginal distribution, projects the state
// onto the observed value and renormalizes. The register is changed.
func (r *Register) Measure(q int, rng *rand.Rand) (int, error) {
	if err := r.checkQubit(q); err != nil {
		return 0, err
	}
	if rng == nil {
		return 0, invalidParameterf("nil random generator")
	}
	p1 := r.probabilityOne(q)
	outcome := 0
	if rng.Float64() < p1 {
		outcome = 1
	}
	if err := r.collapse(q, outcome); err != nil {
		return 0, err
	}
	return outcome, nil
}

// MeasureAll collapses every qubit by sampling one basis state.
func (r *Register) MeasureAll(rng *rand.Rand) (MeasurementResult, error) {
	if rng == nil {
		return MeasurementResult{}, invalidParameterf("nil random generator")
	}
	index := sampleIndex(r.amps, rng.Float64())
	for i := range r.amps {
		if i != index {
			r.amps[i] = 0
		}
	}
	if err := r.Normalize(); err != nil {
		return MeasurementResult{}, err
	}
	qubits := allQubitsDescending(r.numQubits)
	return MeasurementResult{Qubits: qubits, Bitstring: extractBits(index, qubits)}, nil
}

// Reset measures qubit q and flips it to |0⟩ when it read 1.
func (r *Register) Reset(q int, rng *rand.Rand) error {
	outcome, err := r.Measure(q, rng)
	if err != nil {
		return err
	}
	if outcome == 1 {
		return r.ApplySingleGate(X(), q)
	}
	return nil
}

// collapse zeroes amplitudes inconsistent with qubit q == outcome and renormalizes.
func (r *Register) collapse(q, outcome int) error {
	bit := 1 << q
	for i := range r.amps {
		if (i&bit != 0) != (outcome == 1) {
			r.amps[i] = 0
		}
	}
	return r.Normalize()
}

// sampleIndex walks the cumulative distribution and returns the first index
// whose running total exceeds u. Rounding leftovers fall to the last
// non-zero amplitude.
func sampleIndex(amps []complex128, u float64) int {
	var cum float64
	last := 0
	for i, a := range amps {
		p := absSq(a)
		if p == 0 {
			continue
		}
		last = i
		cum += p
		if cum > u {
			return i
		}
	}
	return last
}
