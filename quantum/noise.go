package quantum

import (
	"math"
	"math/rand/v2"
	"strings"
)

// Channel names one decoherence process.
type Channel int

const (
	ChannelDepolarizing Channel = iota
	ChannelBitFlip
	ChannelPhaseFlip
	ChannelAmplitudeDamping
	ChannelPhaseDamping
	ChannelThermalRelaxation
)

var channelNames = map[Channel]string{
	ChannelDepolarizing:      "depolarizing",
	ChannelBitFlip:           "bit_flip",
	ChannelPhaseFlip:         "phase_flip",
	ChannelAmplitudeDamping:  "amplitude_damping",
	ChannelPhaseDamping:      "phase_damping",
	ChannelThermalRelaxation: "thermal_relaxation",
}

func (c Channel) String() string {
	if name, ok := channelNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseChannel resolves a channel by its String form (case-insensitive).
func ParseChannel(s string) (Channel, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for c, name := range channelNames {
		if name == key {
			return c, nil
		}
	}
	return 0, invalidParameterf("unknown noise channel %q", s)
}

// NoiseModel holds per-operation error rates and relaxation constants.
// T1, T2 and the gate times share one time unit; +Inf disables relaxation.
type NoiseModel struct {
	SingleQubitError    float64
	TwoQubitError       float64
	MeasurementError    float64
	T1                  float64
	T2                  float64
	SingleQubitGateTime float64
	TwoQubitGateTime    float64
	Channels            []Channel
}

// DefaultNoiseModel returns rates typical of a superconducting device, with
// times in microseconds and depolarizing noise active.
func DefaultNoiseModel() NoiseModel {
	return NoiseModel{
		SingleQubitError:    0.001,
		TwoQubitError:       0.01,
		MeasurementError:    0.02,
		T1:                  50,
		T2:                  70,
		SingleQubitGateTime: 0.035,
		TwoQubitGateTime:    0.3,
		Channels:            []Channel{ChannelDepolarizing},
	}
}

// IdealNoiseModel disables every channel.
func IdealNoiseModel() NoiseModel {
	return NoiseModel{T1: math.Inf(1), T2: math.Inf(1)}
}

// Validate checks every rate lies in [0,1], T1 and T2 are positive with
// T2 ≤ 2·T1, and gate times are finite and non-negative.
func (m NoiseModel) Validate() error {
	for name, p := range map[string]float64{
		"single-qubit error": m.SingleQubitError,
		"two-qubit error":    m.TwoQubitError,
		"measurement error":  m.MeasurementError,
	} {
		if err := checkProbability(name, p); err != nil {
			return err
		}
	}
	if !(m.T1 > 0) || !(m.T2 > 0) {
		return invalidParameterf("T1 and T2 must be positive, got %g and %g", m.T1, m.T2)
	}
	if !math.IsInf(m.T1, 1) && m.T2 > 2*m.T1 {
		return invalidParameterf("T2 (%g) exceeds 2·T1 (%g)", m.T2, 2*m.T1)
	}
	for _, gt := range []float64{m.SingleQubitGateTime, m.TwoQubitGateTime} {
		if gt < 0 || math.IsNaN(gt) || math.IsInf(gt, 0) {
			return invalidParameterf("gate times must be finite and non-negative, got %g", gt)
		}
	}
	for _, c := range m.Channels {
		if _, ok := channelNames[c]; !ok {
			return invalidParameterf("unknown noise channel %d", int(c))
		}
	}
	return nil
}

func checkProbability(name string, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return invalidParameterf("%s probability %g outside [0,1]", name, p)
	}
	return nil
}

// Noise applies decoherence directly to a pure state vector. It approximates
// the channels rather than evolving a density matrix: stochastic channels pick
// one Kraus branch per call and amplitude damping is a deterministic
// non-unitary map followed by renormalization.
type Noise struct {
	model NoiseModel
	rng   *rand.Rand
}

// NewNoise binds a validated model to a random generator.
func NewNoise(model NoiseModel, rng *rand.Rand) (*Noise, error) {
	if err := model.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, invalidParameterf("nil random generator")
	}
	model.Channels = append([]Channel(nil), model.Channels...)
	return &Noise{model: model, rng: rng}, nil
}

// Model returns the bound noise model.
func (n *Noise) Model() NoiseModel { return n.model }

func (n *Noise) trial(p float64) bool {
	return n.rng.Float64() < p
}

// ──────────────────────────── Pauli channels ────────────────────────────

// Depolarizing applies X, Y or Z (uniformly) to qubit q with probability p.
func (n *Noise) Depolarizing(r *Register, q int, p float64) error {
	if err := n.check(r, q, p); err != nil {
		return err
	}
	if !n.trial(p) {
		return nil
	}
	var g Gate
	switch n.rng.IntN(3) {
	case 0:
		g = X()
	case 1:
		g = Y()
	default:
		g = Z()
	}
	logger().Debug("noise fired", "channel", ChannelDepolarizing, "qubit", q, "pauli", g.name)
	return r.ApplySingleGate(g, q)
}

// BitFlip applies X to qubit q with probability p.
func (n *Noise) BitFlip(r *Register, q int, p float64) error {
	return n.pauliFlip(r, q, p, ChannelBitFlip, X())
}

// PhaseFlip applies Z to qubit q with probability p.
func (n *Noise) PhaseFlip(r *Register, q int, p float64) error {
	return n.pauliFlip(r, q, p, ChannelPhaseFlip, Z())
}

func (n *Noise) pauliFlip(r *Register, q int, p float64, ch Channel, g Gate) error {
	if err := n.check(r, q, p); err != nil {
		return err
	}
	if !n.trial(p) {
		return nil
	}
	logger().Debug("noise fired", "channel", ch, "qubit", q)
	return r.ApplySingleGate(g, q)
}

// ──────────────────────────── Damping ────────────────────────────

// AmplitudeDamping moves population from |1⟩ to |0⟩ on qubit q:
// amp[i0] += √γ·amp[i1], amp[i1] *= √(1-γ), then renormalizes. It is
// deterministic and acts on the state vector instead of a Kraus sum.
// With γ = 1 the two branches can cancel (for example on |−⟩): the register is
// then left all zeros and a *NormalizationError is returned, so the caller
// must discard it.
func (n *Noise) AmplitudeDamping(r *Register, q int, gamma float64) error {
	if err := n.check(r, q, gamma); err != nil {
		return err
	}
	if gamma == 0 {
		return nil
	}
	decay := complex(math.Sqrt(gamma), 0)
	keep := complex(math.Sqrt(1-gamma), 0)
	bit := 1 << q
	for base := 0; base < len(r.amps); base += bit << 1 {
		for i0 := base; i0 < base+bit; i0++ {
			i1 := i0 | bit
			r.amps[i0] += r.amps[i1] * decay
			r.amps[i1] *= keep
		}
	}
	logger().Debug("noise applied", "channel", ChannelAmplitudeDamping, "qubit", q, "gamma", gamma)
	return r.Normalize()
}

// PhaseDamping applies Rz by a uniformly random angle to qubit q with
// probability γ.
func (n *Noise) PhaseDamping(r *Register, q int, gamma float64) error {
	if err := n.check(r, q, gamma); err != nil {
		return err
	}
	if !n.trial(gamma) {
		return nil
	}
	theta := n.rng.Float64() * 2 * math.Pi
	logger().Debug("noise fired", "channel", ChannelPhaseDamping, "qubit", q, "theta", theta)
	return r.ApplySingleGate(Rz(theta), q)
}

// ThermalRelaxation applies amplitude damping with γ₁ = 1 - e^{-t/T1} and then
// phase damping with the pure-dephasing rate 1/Tφ = 1/T2 - 1/(2·T1).
func (n *Noise) ThermalRelaxation(r *Register, q int, t float64) error {
	if err := r.checkQubit(q); err != nil {
		return err
	}
	if t < 0 || math.IsNaN(t) {
		return invalidParameterf("elapsed time %g is negative", t)
	}
	gamma1, gammaPhi := relaxationRates(n.model.T1, n.model.T2, t)
	if err := n.AmplitudeDamping(r, q, gamma1); err != nil {
		return err
	}
	return n.PhaseDamping(r, q, gammaPhi)
}

// relaxationRates converts T1, T2 and elapsed time into damping parameters.
func relaxationRates(t1, t2, t float64) (gamma1, gammaPhi float64) {
	gamma1 = 1 - math.Exp(-t/t1)
	dephasing := 1/t2 - 1/(2*t1)
	if dephasing > 0 {
		gammaPhi = 1 - math.Exp(-t*dephasing)
	}
	return gamma1, gammaPhi
}

// ──────────────────────────── Readout ────────────────────────────

// ApplyMeasurementNoise flips outcome with the model's measurement error probability.
func (n *Noise) ApplyMeasurementNoise(outcome bool) bool {
	if n.trial(n.model.MeasurementError) {
		return !outcome
	}
	return outcome
}

// ApplyReadoutNoise flips each bit of a bitstring independently.
func (n *Noise) ApplyReadoutNoise(bits string) string {
	if n.model.MeasurementError == 0 {
		return bits
	}
	out := []byte(bits)
	for i, b := range out {
		if n.ApplyMeasurementNoise(b == '1') {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return string(out)
}

// ──────────────────────────── Circuit integration ────────────────────────────

// AfterGate applies the model's active channels to every target of inst,
// using the single- or multi-qubit rate and gate time for the instruction.
func (n *Noise) AfterGate(r *Register, inst Instruction) error {
	p, t := n.model.SingleQubitError, n.model.SingleQubitGateTime
	if len(inst.Targets) > 1 {
		p, t = n.model.TwoQubitError, n.model.TwoQubitGateTime
	}
	for _, q := range inst.Targets {
		for _, ch := range n.model.Channels {
			var err error
			switch ch {
			case ChannelDepolarizing:
				err = n.Depolarizing(r, q, p)
			case ChannelBitFlip:
				err = n.BitFlip(r, q, p)
			case ChannelPhaseFlip:
				err = n.PhaseFlip(r, q, p)
			case ChannelAmplitudeDamping:
				err = n.AmplitudeDamping(r, q, p)
			case ChannelPhaseDamping:
				err = n.PhaseDamping(r, q, p)
			case ChannelThermalRelaxation:
				err = n.ThermalRelaxation(r, q, t)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// RunNoisy replays c on r, applying noise after every instruction. A nil
// noise replays the circuit ideally. Failure semantics match ApplyCircuit.
func RunNoisy(r *Register, c *Circuit, noise *Noise) error {
	if noise == nil {
		return r.ApplyCircuit(c)
	}
	if c.numQubits > r.numQubits {
		return &DimensionMismatchError{Expected: r.numQubits, Actual: c.numQubits}
	}
	for i, inst := range c.instructions {
		if err := r.ApplyGate(inst.Gate, inst.Targets...); err != nil {
			logger().Debug("circuit replay aborted", "instruction", i, "gate", inst.Gate.name, "err", err)
			return err
		}
		if err := noise.AfterGate(r, inst); err != nil {
			return err
		}
	}
	return nil
}

func (n *Noise) check(r *Register, q int, p float64) error {
	if err := r.checkQubit(q); err != nil {
		return err
	}
	return checkProbability("noise", p)
}
