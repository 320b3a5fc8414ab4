// Package quantum is a dense state-vector simulator for small registers.
//
// A Register holds 2^n complex amplitudes; bit b of a basis index is the value
// of qubit b. Gates from the catalog (or Custom unitaries) are applied in
// place, either one at a time or by replaying a Circuit. Measurement helpers
// sample without disturbing the register, Register.Measure collapses it, and
// Noise approximates decoherence channels on the pure state.
//
// Randomness is always supplied by the caller as a *rand.Rand so runs are
// reproducible for a fixed seed.
//
//	r, _ := quantum.NewRegister(2)
//	_ = r.ApplyGate(quantum.H(), 0)
//	_ = r.ApplyGate(quantum.CNOT(), 0, 1)
//	stats, _ := quantum.MeasureAll(r, 1000, rand.New(rand.NewPCG(1, 2)))
package quantum
