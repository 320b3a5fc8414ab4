package quantum

import (
	"encoding/json"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCircuitRecordRoundTrip(t *testing.T) {
	flip, err := Custom("flip", []complex128{0, 1, 1, 0})
	require.NoError(t, err)

	c, _ := NewCircuit(3)
	require.NoError(t, c.Append(H(), 0))
	require.NoError(t, c.Append(Rx(math.Pi/3), 1))
	require.NoError(t, c.Append(Toffoli(), 0, 1, 2))
	require.NoError(t, c.Append(flip, 2))

	rec := NewCircuitRecord(c)
	require.Equal(t, 3, rec.NumQubits)
	require.Equal(t, 4, rec.GateCount)
	require.Equal(t, c.Depth(), rec.Depth)
	require.Equal(t, "parameterized", rec.Instructions[1].Kind)
	require.NotNil(t, rec.Instructions[1].Param)
	require.Nil(t, rec.Instructions[0].Param)
	require.Len(t, rec.Instructions[3].Matrix, 4)

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	var decoded CircuitRecord
	require.NoError(t, json.Unmarshal(data, &decoded))

	c2, err := CircuitFromRecord(decoded)
	require.NoError(t, err)
	a, b := c.Instructions(), c2.Instructions()
	require.Len(t, b, len(a))
	for i := range a {
		require.Equal(t, a[i].Gate.Name(), b[i].Gate.Name())
		require.Equal(t, a[i].Targets, b[i].Targets)
		require.Equal(t, a[i].Gate.Matrix(), b[i].Gate.Matrix())
	}
}

func TestCircuitFromRecordRejectsBadInput(t *testing.T) {
	rec := CircuitRecord{NumQubits: 2, Instructions: []InstructionRecord{{Gate: "rx", Kind: "parameterized", Targets: []int{0}}}}
	_, err := CircuitFromRecord(rec)
	require.ErrorIs(t, err, ErrInvalidParameter)

	rec.Instructions = []InstructionRecord{{Gate: "h", Kind: "mystery", Targets: []int{0}}}
	_, err = CircuitFromRecord(rec)
	require.ErrorIs(t, err, ErrInvalidParameter)

	rec.Instructions = []InstructionRecord{{Gate: "cx", Kind: "fixed", Targets: []int{0, 2}}}
	_, err = CircuitFromRecord(rec)
	require.ErrorIs(t, err, ErrInvalidQubitIndex)

	rec.Instructions = []InstructionRecord{{Gate: "bad", Kind: "custom", Targets: []int{0}, Matrix: []AmplitudeRecord{{Re: 1}, {Re: 1}, {}, {Re: 1}}}}
	_, err = CircuitFromRecord(rec)
	require.ErrorIs(t, err, ErrNonUnitaryGate)
}

func TestRunRecord(t *testing.T) {
	r := bellRegister(t)
	stats, err := MeasureAll(r, 100, rand.New(rand.NewPCG(2, 3)))
	require.NoError(t, err)

	id := NewRunID()
	_, err = uuid.Parse(id)
	require.NoError(t, err)
	require.NotEqual(t, id, NewRunID())

	c, _ := NewCircuit(2)
	run := RunRecord{
		RunID:       id,
		Circuit:     NewCircuitRecord(c),
		Register:    NewRegisterRecord(id, r),
		Measurement: NewMeasurementRecord(id, stats),
	}
	require.Len(t, run.Register.Amplitudes, 4)
	require.InDelta(t, 1/math.Sqrt2, run.Register.Amplitudes[3].Re, 1e-12)
	require.Equal(t, 100, run.Measurement.Shots)

	stats.Counts["00"] = -1
	require.NotEqual(t, -1, run.Measurement.Counts["00"])

	data, err := run.MarshalIndent()
	require.NoError(t, err)
	var decoded RunRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, id, decoded.Measurement.RunID)
	require.Equal(t, []int{1, 0}, decoded.Measurement.Qubits)
}
