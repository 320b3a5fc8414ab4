package quantum

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

func TestMeasureHadamardStatistics(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))
	r, err := NewRegister(1)
	require.NoError(t, err)
	require.NoError(t, r.ApplyGate(H(), 0))

	stats, err := MeasureQubits(r, []int{0}, 10000, rng)
	require.NoError(t, err)
	require.Equal(t, 10000, stats.Shots)
	require.InDelta(t, 0.5, stats.Probability("0"), 0.05, spew.Sdump(stats))
	require.InDelta(t, 0.5, stats.Probability("1"), 0.05)

	// Sampling leaves the register untouched.
	require.InDelta(t, 0.5, r.Probabilities()[0], 1e-12)
}

func TestMeasureQubitsBitOrder(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	r, _ := NewRegister(3)
	require.NoError(t, r.ApplyGate(X(), 0))

	stats, err := MeasureQubits(r, []int{0, 2}, 5, rng)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"10": 5}, stats.Counts)

	stats, err = MeasureQubits(r, []int{2, 0}, 5, rng)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"01": 5}, stats.Counts)

	stats, err = MeasureAll(r, 5, rng)
	require.NoError(t, err)
	require.Equal(t, []int{2, 1, 0}, stats.Qubits)
	require.Equal(t, map[string]int{"001": 5}, stats.Counts)
}

func TestMeasureBellCorrelations(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	r := bellRegister(t)
	stats, err := MeasureAll(r, 2000, rng)
	require.NoError(t, err)
	require.Zero(t, stats.Counts["01"])
	require.Zero(t, stats.Counts["10"])
	require.InDelta(t, 0.5, stats.Probability("11"), 0.05)
	require.Equal(t, []string{"00", "11"}, stats.Outcomes())
}

func TestMeasureQubitsValidation(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	r, _ := NewRegister(2)

	_, err := MeasureQubits(r, nil, 10, rng)
	require.ErrorIs(t, err, ErrMeasurement)
	_, err = MeasureQubits(r, []int{0}, 0, rng)
	require.ErrorIs(t, err, ErrMeasurement)
	_, err = MeasureQubits(r, []int{2}, 10, rng)
	require.ErrorIs(t, err, ErrInvalidQubitIndex)
	_, err = MeasureQubits(r, []int{1, 1}, 10, rng)
	require.ErrorIs(t, err, ErrSameQubitIndex)
	_, err = MeasureQubits(r, []int{0}, 10, nil)
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestStatisticsHelpers(t *testing.T) {
	s := &MeasurementStatistics{Qubits: []int{0}, Shots: 4, Counts: map[string]int{"0": 2, "1": 2}}
	best, n := s.MostFrequent()
	require.Equal(t, "0", best)
	require.Equal(t, 2, n)

	other := &MeasurementStatistics{Qubits: []int{0}, Shots: 2, Counts: map[string]int{"1": 2}}
	require.NoError(t, s.Merge(other))
	require.Equal(t, 6, s.Shots)
	require.InDelta(t, 4.0/6, s.Probabilities()["1"], 1e-12)

	mismatch := &MeasurementStatistics{Qubits: []int{1}, Counts: map[string]int{}}
	require.ErrorIs(t, s.Merge(mismatch), ErrMeasurement)

	empty := &MeasurementStatistics{}
	require.Zero(t, empty.Probability("0"))
}

func TestExpectationPauli(t *testing.T) {
	r, _ := NewRegister(1)
	z, err := ExpectationPauli(r, "Z")
	require.NoError(t, err)
	require.InDelta(t, 1, z, 1e-12)
	x, err := ExpectationPauli(r, "x")
	require.NoError(t, err)
	require.InDelta(t, 0, x, 1e-12)

	require.NoError(t, r.ApplyGate(H(), 0))
	require.NoError(t, r.ApplyGate(S(), 0))
	y, err := ExpectationPauli(r, "Y")
	require.NoError(t, err)
	require.InDelta(t, 1, y, 1e-12)

	v, err := VariancePauli(r, "Z")
	require.NoError(t, err)
	require.InDelta(t, 1, v, 1e-12)

	_, err = ExpectationPauli(r, "ZZ")
	require.ErrorIs(t, err, ErrInvalidParameter)
	_, err = ExpectationPauli(r, "Q")
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestPauliStringOrder(t *testing.T) {
	// |q1 q0⟩ = |01⟩: the first character acts on qubit 1.
	r, _ := NewRegister(2)
	require.NoError(t, r.ApplyGate(X(), 0))
	e, err := ExpectationPauli(r, "ZI")
	require.NoError(t, err)
	require.InDelta(t, 1, e, 1e-12)
	e, err = ExpectationPauli(r, "IZ")
	require.NoError(t, err)
	require.InDelta(t, -1, e, 1e-12)
}

func TestExpectationMatchesDense(t *testing.T) {
	rng := rand.New(rand.NewPCG(17, 23))
	r, _ := NewRegister(3)
	for range 25 {
		g := randomGate(rng)
		require.NoError(t, r.ApplyGate(g, rng.Perm(3)[:g.Arity()]...))
	}
	for _, p := range []string{"XYZ", "ZZI", "IYX", "YYY", "XIX"} {
		sparse, err := ExpectationPauli(r, p)
		require.NoError(t, err)
		m, err := PauliMatrix(p)
		require.NoError(t, err)
		dense, err := ExpectationDense(r, m)
		require.NoError(t, err)
		require.InDelta(t, dense, sparse, 1e-10, p)
	}

	_, err := PauliMatrix("")
	require.ErrorIs(t, err, ErrInvalidParameter)
	_, err = ExpectationDense(r, []complex128{1})
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestExpectationHamiltonian(t *testing.T) {
	r := bellRegister(t)
	h := PauliSum{
		{Coefficient: 0.5, Pauli: "ZZ"},
		{Coefficient: -0.25, Pauli: "XX"},
		{Coefficient: 2, Pauli: "ZI"},
	}
	e, err := ExpectationHamiltonian(r, h)
	require.NoError(t, err)
	require.InDelta(t, 0.25, e, 1e-12)
}

func TestTomography(t *testing.T) {
	rng := rand.New(rand.NewPCG(8, 8))
	prepare := func(r *Register) error {
		return r.ApplyGate(Ry(math.Pi/3), 1)
	}
	b, err := Tomography(2, 1, prepare, 20000, rng)
	require.NoError(t, err)
	require.InDelta(t, math.Sin(math.Pi/3), b.X, 0.05)
	require.InDelta(t, 0, b.Y, 0.05)
	require.InDelta(t, 0.5, b.Z, 0.05)
	require.InDelta(t, 1, b.Length(), 0.05)

	theta, _ := b.Qubit().ToBloch()
	require.InDelta(t, math.Pi/3, theta, 0.1)

	plusI := func(r *Register) error {
		if err := r.ApplyGate(H(), 0); err != nil {
			return err
		}
		return r.ApplyGate(S(), 0)
	}
	b, err = Tomography(1, 0, plusI, 20000, rng)
	require.NoError(t, err)
	require.InDelta(t, 0, b.X, 0.05)
	require.InDelta(t, 1, b.Y, 0.05)
	require.InDelta(t, 0, b.Z, 0.05)
	require.Greater(t, b.Qubit().Fidelity(PlusI()), 0.99)

	_, err = Tomography(2, 2, prepare, 10, rng)
	require.ErrorIs(t, err, ErrInvalidQubitIndex)
	_, err = Tomography(2, 0, nil, 10, rng)
	require.ErrorIs(t, err, ErrInvalidParameter)
	_, err = Tomography(2, 0, prepare, 0, rng)
	require.ErrorIs(t, err, ErrMeasurement)
}
