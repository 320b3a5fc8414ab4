package quantum

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Records are plain, JSON-ready views of core values for front ends. They hold
// only numbers, strings and closed enumerations.

// AmplitudeRecord is one complex amplitude.
type AmplitudeRecord struct {
	Re float64 `json:"re"`
	Im float64 `json:"im"`
}

// RegisterRecord snapshots a register.
type RegisterRecord struct {
	RunID         string            `json:"run_id"`
	NumQubits     int               `json:"num_qubits"`
	Amplitudes    []AmplitudeRecord `json:"amplitudes"`
	Probabilities []float64         `json:"probabilities"`
}

// InstructionRecord is one circuit instruction. Kind is "fixed",
// "parameterized" or "custom"; Param is set only for parameterized gates and
// Matrix only for custom ones.
type InstructionRecord struct {
	Gate    string            `json:"gate"`
	Kind    string            `json:"kind"`
	Targets []int             `json:"targets"`
	Param   *float64          `json:"param,omitempty"`
	Matrix  []AmplitudeRecord `json:"matrix,omitempty"`
}

// CircuitRecord snapshots a circuit with its derived metrics.
type CircuitRecord struct {
	NumQubits    int                 `json:"num_qubits"`
	Depth        int                 `json:"depth"`
	GateCount    int                 `json:"gate_count"`
	Instructions []InstructionRecord `json:"instructions"`
}

// MeasurementRecord snapshots a sampling run.
type MeasurementRecord struct {
	RunID         string             `json:"run_id"`
	Qubits        []int              `json:"qubits"`
	Shots         int                `json:"shots"`
	Counts        map[string]int     `json:"counts"`
	Probabilities map[string]float64 `json:"probabilities"`
}

// RunRecord groups everything a front end exports for one simulation run.
type RunRecord struct {
	RunID       string            `json:"run_id"`
	Circuit     CircuitRecord     `json:"circuit"`
	Register    RegisterRecord    `json:"register"`
	Measurement MeasurementRecord `json:"measurement"`
}

// NewRunID returns a fresh identifier for a simulation run.
func NewRunID() string {
	return uuid.New().String()
}

// NewRegisterRecord snapshots r under runID.
func NewRegisterRecord(runID string, r *Register) RegisterRecord {
	rec := RegisterRecord{
		RunID:         runID,
		NumQubits:     r.numQubits,
		Amplitudes:    toAmplitudeRecords(r.amps),
		Probabilities: r.Probabilities(),
	}
	return rec
}

// NewCircuitRecord snapshots c.
func NewCircuitRecord(c *Circuit) CircuitRecord {
	rec := CircuitRecord{
		NumQubits:    c.numQubits,
		Depth:        c.Depth(),
		GateCount:    c.GateCount(),
		Instructions: make([]InstructionRecord, len(c.instructions)),
	}
	for i, inst := range c.instructions {
		ir := InstructionRecord{
			Gate:    inst.Gate.name,
			Kind:    inst.Gate.kind.String(),
			Targets: append([]int(nil), inst.Targets...),
		}
		if theta, ok := inst.Gate.Param(); ok {
			ir.Param = &theta
		}
		if inst.Gate.kind == KindCustom {
			ir.Matrix = toAmplitudeRecords(inst.Gate.matrix)
		}
		rec.Instructions[i] = ir
	}
	return rec
}

// NewMeasurementRecord snapshots sampling statistics under runID.
func NewMeasurementRecord(runID string, s *MeasurementStatistics) MeasurementRecord {
	counts := make(map[string]int, len(s.Counts))
	for k, v := range s.Counts {
		counts[k] = v
	}
	return MeasurementRecord{
		RunID:         runID,
		Qubits:        append([]int(nil), s.Qubits...),
		Shots:         s.Shots,
		Counts:        counts,
		Probabilities: s.Probabilities(),
	}
}

// CircuitFromRecord rebuilds a circuit, validating every instruction again.
func CircuitFromRecord(rec CircuitRecord, opts ...CircuitOption) (*Circuit, error) {
	c, err := NewCircuit(rec.NumQubits, opts...)
	if err != nil {
		return nil, err
	}
	for i, ir := range rec.Instructions {
		g, err := gateFromRecord(ir)
		if err != nil {
			return nil, err
		}
		if err := c.Append(g, ir.Targets...); err != nil {
			logger().Debug("record rejected", "instruction", i, "err", err)
			return nil, err
		}
	}
	return c, nil
}

func gateFromRecord(ir InstructionRecord) (Gate, error) {
	switch ir.Kind {
	case KindFixed.String():
		return Lookup(ir.Gate)
	case KindParameterized.String():
		if ir.Param == nil {
			return Gate{}, invalidParameterf("parameterized gate %q has no param", ir.Gate)
		}
		return Lookup(ir.Gate, *ir.Param)
	case KindCustom.String():
		m := make([]complex128, len(ir.Matrix))
		for i, a := range ir.Matrix {
			m[i] = complex(a.Re, a.Im)
		}
		return Custom(ir.Gate, m)
	default:
		return Gate{}, invalidParameterf("unknown gate kind %q", ir.Kind)
	}
}

// MarshalIndent encodes the record as indented JSON for files.
func (r RunRecord) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

func toAmplitudeRecords(amps []complex128) []AmplitudeRecord {
	out := make([]AmplitudeRecord, len(amps))
	for i, a := range amps {
		out[i] = AmplitudeRecord{Re: real(a), Im: imag(a)}
	}
	return out
}
