package quantum

import (
	"math"
	"math/cmplx"
	"strings"
)

// unitaryTolerance bounds ‖U†U - I‖ (Frobenius) for accepted custom matrices.
const unitaryTolerance = 1e-8

// GateKind tags the three classes of gate.
type GateKind int

const (
	// KindFixed is a catalog gate without parameters (X, H, CNOT, ...).
	KindFixed GateKind = iota
	// KindParameterized is a catalog rotation carrying one angle.
	KindParameterized
	// KindCustom wraps a caller-supplied unitary matrix.
	KindCustom
)

func (k GateKind) String() string {
	switch k {
	case KindFixed:
		return "fixed"
	case KindParameterized:
		return "parameterized"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Gate is an immutable unitary acting on 1, 2 or 3 target qubits.
//
// Matrices are row-major over the gate's local basis. For a target list
// (t0, t1, t2) the local index is b(t0)<<(k-1) | ... | b(t_{k-1}), i.e. the
// first listed target is the most significant local bit. Register relies on
// this ordering when it pairs amplitudes.
type Gate struct {
	name   string
	kind   GateKind
	arity  int
	matrix []complex128
	param  float64
}

// Name returns the lowercase gate name used in QASM output.
func (g Gate) Name() string { return g.name }

// Kind reports whether the gate is fixed, parameterized or custom.
func (g Gate) Kind() GateKind { return g.kind }

// Arity is the number of target qubits.
func (g Gate) Arity() int { return g.arity }

// Param returns the rotation angle of a parameterized gate and false otherwise.
func (g Gate) Param() (float64, bool) {
	return g.param, g.kind == KindParameterized
}

// Dim is the side length of the gate matrix (2^arity).
func (g Gate) Dim() int { return 1 << g.arity }

// Matrix returns a copy of the row-major unitary.
func (g Gate) Matrix() []complex128 {
	out := make([]complex128, len(g.matrix))
	copy(out, g.matrix)
	return out
}

// At returns matrix element (row, col).
func (g Gate) At(row, col int) complex128 {
	return g.matrix[row*g.Dim()+col]
}

// Dagger returns the adjoint gate.
func (g Gate) Dagger() Gate {
	switch g.kind {
	case KindParameterized:
		return parameterized(g.name, -g.param)
	case KindFixed:
		if name, ok := daggerNames[g.name]; ok {
			return fixedGates[name]()
		}
		return g
	default:
		name := strings.TrimSuffix(g.name, "_dg")
		if name == g.name {
			name += "_dg"
		}
		return Gate{name: name, kind: KindCustom, arity: g.arity, matrix: conjugateTranspose(g.matrix, g.Dim())}
	}
}

// ──────────────────────────── Fixed gates ────────────────────────────

var (
	invSqrt2 = complex(1/math.Sqrt2, 0)
	tPhase   = cmplx.Rect(1, math.Pi/4)
)

// I is the single-qubit identity.
func I() Gate { return fixed("id", 1, 1, 0, 0, 1) }

// X is the Pauli-X (NOT) gate.
func X() Gate { return fixed("x", 1, 0, 1, 1, 0) }

// Y is the Pauli-Y gate.
func Y() Gate { return fixed("y", 1, 0, -1i, 1i, 0) }

// Z is the Pauli-Z gate.
func Z() Gate { return fixed("z", 1, 1, 0, 0, -1) }

// H is the Hadamard gate.
func H() Gate { return fixed("h", 1, invSqrt2, invSqrt2, invSqrt2, -invSqrt2) }

// S is the phase gate diag(1, i).
func S() Gate { return fixed("s", 1, 1, 0, 0, 1i) }

// Sdg is S†.
func Sdg() Gate { return fixed("sdg", 1, 1, 0, 0, -1i) }

// T is diag(1, e^{iπ/4}).
func T() Gate { return fixed("t", 1, 1, 0, 0, tPhase) }

// Tdg is T†.
func Tdg() Gate { return fixed("tdg", 1, 1, 0, 0, cmplx.Conj(tPhase)) }

// CNOT flips the second target when the first is |1⟩. Targets: (control, target).
func CNOT() Gate {
	return fixed("cx", 2,
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
		0, 0, 1, 0)
}

// CZ applies Z to the second target when the first is |1⟩.
func CZ() Gate {
	return fixed("cz", 2,
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, -1)
}

// CY applies Y to the second target when the first is |1⟩.
func CY() Gate {
	return fixed("cy", 2,
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 0, -1i,
		0, 0, 1i, 0)
}

// SWAP exchanges two qubits.
func SWAP() Gate {
	return fixed("swap", 2,
		1, 0, 0, 0,
		0, 0, 1, 0,
		0, 1, 0, 0,
		0, 0, 0, 1)
}

// ISWAP exchanges two qubits and multiplies |01⟩ and |10⟩ by i.
func ISWAP() Gate {
	return fixed("iswap", 2,
		1, 0, 0, 0,
		0, 0, 1i, 0,
		0, 1i, 0, 0,
		0, 0, 0, 1)
}

// ISWAPdg is ISWAP†.
func ISWAPdg() Gate {
	return fixed("iswapdg", 2,
		1, 0, 0, 0,
		0, 0, -1i, 0,
		0, -1i, 0, 0,
		0, 0, 0, 1)
}

// Toffoli flips the third target when the first two are |1⟩.
func Toffoli() Gate {
	m := identity(8)
	m[6*8+6], m[6*8+7] = 0, 1
	m[7*8+6], m[7*8+7] = 1, 0
	return Gate{name: "ccx", kind: KindFixed, arity: 3, matrix: m}
}

// Fredkin swaps the last two targets when the first is |1⟩.
func Fredkin() Gate {
	m := identity(8)
	m[5*8+5], m[5*8+6] = 0, 1
	m[6*8+5], m[6*8+6] = 1, 0
	return Gate{name: "cswap", kind: KindFixed, arity: 3, matrix: m}
}

// ──────────────────────────── Rotations ────────────────────────────

// Rx rotates about the X axis by theta.
func Rx(theta float64) Gate { return parameterized("rx", theta) }

// Ry rotates about the Y axis by theta.
func Ry(theta float64) Gate { return parameterized("ry", theta) }

// Rz rotates about the Z axis by theta: diag(e^{-iθ/2}, e^{iθ/2}).
func Rz(theta float64) Gate { return parameterized("rz", theta) }

// Phase is diag(1, e^{iθ}).
func Phase(theta float64) Gate { return parameterized("p", theta) }

func parameterized(name string, theta float64) Gate {
	c, s := math.Cos(theta/2), math.Sin(theta/2)
	var m []complex128
	switch name {
	case "rx":
		m = []complex128{complex(c, 0), complex(0, -s), complex(0, -s), complex(c, 0)}
	case "ry":
		m = []complex128{complex(c, 0), complex(-s, 0), complex(s, 0), complex(c, 0)}
	case "rz":
		m = []complex128{cmplx.Rect(1, -theta/2), 0, 0, cmplx.Rect(1, theta/2)}
	case "p":
		m = []complex128{1, 0, 0, cmplx.Rect(1, theta)}
	}
	return Gate{name: name, kind: KindParameterized, arity: 1, matrix: m, param: theta}
}

// ──────────────────────────── Custom gates ────────────────────────────

// Custom wraps a caller-supplied row-major unitary of size 2×2, 4×4 or 8×8.
// The matrix is copied and rejected with a *NonUnitaryGateError when
// ‖U†U - I‖ exceeds 1e-8.
func Custom(name string, matrix []complex128) (Gate, error) {
	var arity int
	switch len(matrix) {
	case 4:
		arity = 1
	case 16:
		arity = 2
	case 64:
		arity = 3
	default:
		return Gate{}, invalidParameterf("custom gate %q needs 4, 16 or 64 entries, got %d", name, len(matrix))
	}
	if name == "" {
		return Gate{}, invalidParameterf("custom gate needs a name")
	}
	m := make([]complex128, len(matrix))
	copy(m, matrix)
	if dev := unitaryDeviation(m, 1<<arity); dev > unitaryTolerance || math.IsNaN(dev) {
		return Gate{}, &NonUnitaryGateError{Name: name, Deviation: dev}
	}
	return Gate{name: strings.ToLower(name), kind: KindCustom, arity: arity, matrix: m}, nil
}

// ──────────────────────────── Lookup ────────────────────────────

var fixedGates = map[string]func() Gate{
	"id":      I,
	"x":       X,
	"y":       Y,
	"z":       Z,
	"h":       H,
	"s":       S,
	"sdg":     Sdg,
	"t":       T,
	"tdg":     Tdg,
	"cx":      CNOT,
	"cz":      CZ,
	"cy":      CY,
	"swap":    SWAP,
	"iswap":   ISWAP,
	"iswapdg": ISWAPdg,
	"ccx":     Toffoli,
	"cswap":   Fredkin,
}

var gateAliases = map[string]string{
	"i":       "id",
	"cnot":    "cx",
	"toffoli": "ccx",
	"fredkin": "cswap",
	"u1":      "p",
	"phase":   "p",
}

var daggerNames = map[string]string{
	"s":       "sdg",
	"sdg":     "s",
	"t":       "tdg",
	"tdg":     "t",
	"iswap":   "iswapdg",
	"iswapdg": "iswap",
}

var rotationNames = map[string]bool{"rx": true, "ry": true, "rz": true, "p": true}

// Lookup resolves a catalog gate by its QASM name (case-insensitive).
// Rotations need exactly one parameter; fixed gates take none.
func Lookup(name string, params ...float64) (Gate, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := gateAliases[key]; ok {
		key = alias
	}
	if rotationNames[key] {
		if len(params) != 1 {
			return Gate{}, invalidParameterf("gate %q takes one angle, got %d", name, len(params))
		}
		if math.IsNaN(params[0]) || math.IsInf(params[0], 0) {
			return Gate{}, invalidParameterf("gate %q angle must be finite", name)
		}
		return parameterized(key, params[0]), nil
	}
	ctor, ok := fixedGates[key]
	if !ok {
		return Gate{}, invalidParameterf("unknown gate %q", name)
	}
	if len(params) != 0 {
		return Gate{}, invalidParameterf("gate %q takes no parameters, got %d", name, len(params))
	}
	return ctor(), nil
}

// Catalog returns the names of all fixed gates and rotations.
func Catalog() []string {
	return []string{
		"id", "x", "y", "z", "h", "s", "sdg", "t", "tdg",
		"cx", "cz", "cy", "swap", "iswap", "iswapdg", "ccx", "cswap",
		"rx", "ry", "rz", "p",
	}
}

// ──────────────────────────── Matrix helpers ────────────────────────────

func fixed(name string, arity int, entries ...complex128) Gate {
	return Gate{name: name, kind: KindFixed, arity: arity, matrix: entries}
}

func identity(dim int) []complex128 {
	m := make([]complex128, dim*dim)
	for i := range dim {
		m[i*dim+i] = 1
	}
	return m
}

func conjugateTranspose(m []complex128, dim int) []complex128 {
	out := make([]complex128, len(m))
	for r := range dim {
		for c := range dim {
			out[c*dim+r] = cmplx.Conj(m[r*dim+c])
		}
	}
	return out
}

// unitaryDeviation returns the Frobenius norm of U†U - I.
func unitaryDeviation(m []complex128, dim int) float64 {
	var sum float64
	for r := range dim {
		for c := range dim {
			var acc complex128
			for k := range dim {
				acc += cmplx.Conj(m[k*dim+r]) * m[k*dim+c]
			}
			if r == c {
				acc -= 1
			}
			sum += absSq(acc)
		}
	}
	return math.Sqrt(sum)
}
