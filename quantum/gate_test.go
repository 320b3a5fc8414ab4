package quantum

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalogGatesAreUnitary(t *testing.T) {
	for _, name := range Catalog() {
		var g Gate
		var err error
		if rotationNames[name] {
			g, err = Lookup(name, 0.7)
		} else {
			g, err = Lookup(name)
		}
		require.NoError(t, err, name)
		require.Equal(t, name, g.Name())
		require.Less(t, unitaryDeviation(g.Matrix(), g.Dim()), 1e-12, name)
	}
}

func TestLookupAliasesAndErrors(t *testing.T) {
	g, err := Lookup("CNOT")
	require.NoError(t, err)
	require.Equal(t, "cx", g.Name())

	g, err = Lookup("u1", math.Pi)
	require.NoError(t, err)
	require.Equal(t, "p", g.Name())
	theta, ok := g.Param()
	require.True(t, ok)
	require.Equal(t, math.Pi, theta)

	_, err = Lookup("rx")
	require.ErrorIs(t, err, ErrInvalidParameter)
	_, err = Lookup("h", 1)
	require.ErrorIs(t, err, ErrInvalidParameter)
	_, err = Lookup("nope")
	require.ErrorIs(t, err, ErrInvalidParameter)
	_, err = Lookup("rz", math.NaN())
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestMatrixIsCopied(t *testing.T) {
	g := X()
	m := g.Matrix()
	m[0] = 42
	require.Equal(t, complex128(0), g.At(0, 0))
}

func TestDagger(t *testing.T) {
	require.Equal(t, "sdg", S().Dagger().Name())
	require.Equal(t, "t", Tdg().Dagger().Name())
	require.Equal(t, "h", H().Dagger().Name())
	require.Equal(t, "iswapdg", ISWAP().Dagger().Name())

	theta, _ := Rx(0.4).Dagger().Param()
	require.Equal(t, -0.4, theta)

	// U · U† = I for every parameterized gate.
	for _, g := range []Gate{Rx(1.1), Ry(-0.3), Rz(2.2), Phase(0.9)} {
		d := g.Dagger()
		for r := range 2 {
			for c := range 2 {
				var acc complex128
				for k := range 2 {
					acc += g.At(r, k) * d.At(k, c)
				}
				want := complex128(0)
				if r == c {
					want = 1
				}
				require.InDelta(t, real(want), real(acc), 1e-12)
				require.InDelta(t, imag(want), imag(acc), 1e-12)
			}
		}
	}
}

func TestCustomGate(t *testing.T) {
	s := complex(1/math.Sqrt2, 0)
	g, err := Custom("MyH", []complex128{s, s, s, -s})
	require.NoError(t, err)
	require.Equal(t, "myh", g.Name())
	require.Equal(t, KindCustom, g.Kind())
	require.Equal(t, 1, g.Arity())
	require.Equal(t, "myh_dg", g.Dagger().Name())
	require.Equal(t, "myh", g.Dagger().Dagger().Name())

	_, err = Custom("bad", []complex128{1, 1, 0, 1})
	var nu *NonUnitaryGateError
	require.True(t, errors.As(err, &nu))
	require.Equal(t, "bad", nu.Name)
	require.ErrorIs(t, err, ErrNonUnitaryGate)

	_, err = Custom("odd", []complex128{1, 0, 0})
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestRzDiagonal(t *testing.T) {
	g := Rz(math.Pi)
	require.InDelta(t, 0, real(g.At(0, 0)), 1e-12)
	require.InDelta(t, -1, imag(g.At(0, 0)), 1e-12)
	require.InDelta(t, 1, imag(g.At(1, 1)), 1e-12)
	require.Equal(t, complex128(0), g.At(0, 1))
}
