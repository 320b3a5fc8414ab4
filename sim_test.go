package main

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"qtermsim/quantum"
)

func TestSingleZ(t *testing.T) {
	require.Equal(t, "IIZ", singleZ(3, 0))
	require.Equal(t, "ZII", singleZ(3, 2))
}

func TestSimulateIdeal(t *testing.T) {
	c, err := quantum.ParseQASM("qreg q[2];\nx q[1];\nh q[0];\n")
	require.NoError(t, err)
	cfg := Config{Shots: 500, Workers: 1, Noise: quantum.IdealNoiseModel()}

	res, err := simulate(c, cfg, false, 3)
	require.NoError(t, err)
	require.InDelta(t, 0, res.expectZ[0], 1e-12)
	require.InDelta(t, -1, res.expectZ[1], 1e-12)
	require.Equal(t, 500, res.stats.Shots)
	for k := range res.stats.Counts {
		require.Equal(t, byte('1'), k[0], "qubit 1 is always set")
	}

	again, err := simulate(c, cfg, false, 3)
	require.NoError(t, err)
	require.Equal(t, res.stats.Counts, again.stats.Counts)
	require.NotEqual(t, res.runID, again.runID)
}

func TestExportRun(t *testing.T) {
	c, _ := quantum.ParseQASM("qreg q[1];\nh q[0];\n")
	cfg := Config{Shots: 10, Workers: 1, Noise: quantum.DefaultNoiseModel()}
	res, err := simulate(c, cfg, true, 1)
	require.NoError(t, err)

	path, err := exportRun(res, t.TempDir())
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var rec quantum.RunRecord
	require.NoError(t, json.Unmarshal(data, &rec))
	require.Equal(t, res.runID, rec.RunID)
	require.Equal(t, 10, rec.Measurement.Shots)
	require.Equal(t, 1, rec.Circuit.GateCount)

	rebuilt, err := quantum.CircuitFromRecord(rec.Circuit)
	require.NoError(t, err)
	require.Equal(t, 1, rebuilt.GateCount())
}
