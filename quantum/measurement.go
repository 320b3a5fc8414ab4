package quantum

import (
	"math/rand/v2"
	"sort"
	"strings"
)

// MeasurementResult is one observed outcome. Bitstring[k] is the value of
// Qubits[k].
type MeasurementResult struct {
	Qubits    []int
	Bitstring string
}

// Bit returns the outcome of the k-th measured qubit.
func (m MeasurementResult) Bit(k int) int {
	if m.Bitstring[k] == '1' {
		return 1
	}
	return 0
}

// MeasurementStatistics is the histogram of a multi-shot run.
type MeasurementStatistics struct {
	Qubits []int
	Shots  int
	Counts map[string]int
}

// Probability returns count/shots for one bitstring.
func (s *MeasurementStatistics) Probability(bitstring string) float64 {
	if s.Shots == 0 {
		return 0
	}
	return float64(s.Counts[bitstring]) / float64(s.Shots)
}

// Probabilities returns count/shots for every observed bitstring.
func (s *MeasurementStatistics) Probabilities() map[string]float64 {
	out := make(map[string]float64, len(s.Counts))
	for k := range s.Counts {
		out[k] = s.Probability(k)
	}
	return out
}

// Outcomes returns the observed bitstrings in lexical order.
func (s *MeasurementStatistics) Outcomes() []string {
	keys := make([]string, 0, len(s.Counts))
	for k := range s.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MostFrequent returns the most observed bitstring, lexically smallest on ties.
func (s *MeasurementStatistics) MostFrequent() (string, int) {
	best, bestCount := "", -1
	for _, k := range s.Outcomes() {
		if s.Counts[k] > bestCount {
			best, bestCount = k, s.Counts[k]
		}
	}
	return best, bestCount
}

// Merge adds the counts of other, which must cover the same qubits.
func (s *MeasurementStatistics) Merge(other *MeasurementStatistics) error {
	if len(other.Qubits) != len(s.Qubits) {
		return &DimensionMismatchError{Expected: len(s.Qubits), Actual: len(other.Qubits)}
	}
	for i, q := range s.Qubits {
		if other.Qubits[i] != q {
			return measurementErrorf("cannot merge histograms over different qubits")
		}
	}
	for k, v := range other.Counts {
		s.Counts[k] += v
	}
	s.Shots += other.Shots
	return nil
}

// ──────────────────────────── Sampling ────────────────────────────

type measureConfig struct {
	readout *Noise
}

// MeasureOption tunes a sampling run.
type MeasureOption func(*measureConfig)

// WithReadoutNoise flips each sampled bit with the noise model's measurement
// error probability.
func WithReadoutNoise(n *Noise) MeasureOption {
	return func(c *measureConfig) { c.readout = n }
}

// MeasureQubits samples the full register shots times and histograms the
// outcomes projected onto qubits. The register is not modified.
func MeasureQubits(r *Register, qubits []int, shots int, rng *rand.Rand, opts ...MeasureOption) (*MeasurementStatistics, error) {
	if len(qubits) == 0 {
		return nil, measurementErrorf("no qubits to measure")
	}
	if err := r.checkTargets(qubits); err != nil {
		return nil, err
	}
	if shots < 1 {
		return nil, measurementErrorf("shots must be positive, got %d", shots)
	}
	if rng == nil {
		return nil, invalidParameterf("nil random generator")
	}
	var cfg measureConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	cum := make([]float64, len(r.amps))
	var total float64
	lastNonZero := 0
	for i, a := range r.amps {
		p := absSq(a)
		if p > 0 {
			lastNonZero = i
		}
		total += p
		cum[i] = total
	}
	if total < normEpsilon {
		return nil, &NormalizationError{Norm: total}
	}

	ts := make([]int, len(qubits))
	copy(ts, qubits)
	stats := &MeasurementStatistics{Qubits: ts, Shots: shots, Counts: make(map[string]int)}
	for range shots {
		u := rng.Float64() * total
		index := sort.Search(len(cum), func(i int) bool { return cum[i] > u })
		if index >= len(cum) {
			index = lastNonZero
		}
		bits := extractBits(index, ts)
		if cfg.readout != nil {
			bits = cfg.readout.ApplyReadoutNoise(bits)
		}
		stats.Counts[bits]++
	}
	return stats, nil
}

// MeasureAll samples every qubit; bitstrings read as binary give the basis index.
func MeasureAll(r *Register, shots int, rng *rand.Rand, opts ...MeasureOption) (*MeasurementStatistics, error) {
	return MeasureQubits(r, allQubitsDescending(r.numQubits), shots, rng, opts...)
}

// extractBits writes bit q of index for each q in order, first qubit leftmost.
func extractBits(index int, qubits []int) string {
	var sb strings.Builder
	sb.Grow(len(qubits))
	for _, q := range qubits {
		if index>>q&1 == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func allQubitsDescending(n int) []int {
	qs := make([]int, n)
	for i := range qs {
		qs[i] = n - 1 - i
	}
	return qs
}
