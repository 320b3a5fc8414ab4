package quantum

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBasisStatesNormalized(t *testing.T) {
	for name, q := range map[string]Qubit{
		"zero":   Zero(),
		"one":    One(),
		"plus":   Plus(),
		"minus":  Minus(),
		"plusI":  PlusI(),
		"minusI": MinusI(),
	} {
		require.True(t, q.IsNormalized(), name)
	}
	p0, p1 := Plus().Probabilities()
	require.InDelta(t, 0.5, p0, 1e-12)
	require.InDelta(t, 0.5, p1, 1e-12)
}

func TestBlochRoundTrip(t *testing.T) {
	cases := []struct{ theta, phi float64 }{
		{0.3, 0.2},
		{math.Pi / 2, math.Pi},
		{2.5, 5.9},
		{1, 0},
	}
	for _, tc := range cases {
		q := FromBloch(tc.theta, tc.phi)
		require.True(t, q.IsNormalized())
		theta, phi := q.ToBloch()
		require.InDelta(t, tc.theta, theta, 1e-9)
		require.InDelta(t, tc.phi, phi, 1e-9)
	}
}

func TestToBlochIgnoresGlobalPhase(t *testing.T) {
	phase := cmplx.Rect(1, 1.234)
	q := Qubit{Alpha: Plus().Alpha * phase, Beta: Plus().Beta * phase}
	theta, phi := q.ToBloch()
	require.InDelta(t, math.Pi/2, theta, 1e-9)
	require.InDelta(t, 0, phi, 1e-9)

	theta, _ = One().ToBloch()
	require.InDelta(t, math.Pi, theta, 1e-9)
}

func TestQubitNormalize(t *testing.T) {
	q := Qubit{Alpha: 3, Beta: 4}.Normalize()
	require.True(t, q.IsNormalized())
	require.InDelta(t, 0.6, real(q.Alpha), 1e-12)

	zero := Qubit{}
	require.Equal(t, zero, zero.Normalize())
}

func TestQubitApplyAndFidelity(t *testing.T) {
	q, err := Zero().Apply(H())
	require.NoError(t, err)
	require.InDelta(t, 1, q.Fidelity(Plus()), 1e-12)
	require.InDelta(t, 0, q.Fidelity(Minus()), 1e-12)

	_, err = Zero().Apply(CNOT())
	require.ErrorIs(t, err, ErrDimensionMismatch)
}
