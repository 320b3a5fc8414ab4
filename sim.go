package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"qtermsim/quantum"
)

// runResult is the outcome of one simulation run shown in the results panel.
type runResult struct {
	runID    string
	noisy    bool
	register *quantum.Register
	stats    *quantum.MeasurementStatistics
	expectZ  []float64
	circuit  quantum.CircuitRecord
}

// simulate runs c from |0…0⟩ and samples cfg.Shots outcomes. Ideal runs
// sample the final state directly; noisy runs draw one trajectory per shot.
// The register always holds the ideal final state.
func simulate(c *quantum.Circuit, cfg Config, noisy bool, seed uint64) (*runResult, error) {
	r, err := quantum.NewRegister(c.NumQubits())
	if err != nil {
		return nil, err
	}
	if err := r.ApplyCircuit(c); err != nil {
		return nil, err
	}

	var stats *quantum.MeasurementStatistics
	if noisy {
		stats, err = quantum.SampleTrajectories(c, cfg.Noise, cfg.Shots, cfg.Workers, seed)
	} else {
		stats, err = quantum.MeasureAll(r, cfg.Shots, rand.New(rand.NewPCG(seed, 0)))
	}
	if err != nil {
		return nil, err
	}

	expectZ := make([]float64, c.NumQubits())
	for q := range expectZ {
		if expectZ[q], err = quantum.ExpectationPauli(r, singleZ(c.NumQubits(), q)); err != nil {
			return nil, err
		}
	}

	return &runResult{
		runID:    quantum.NewRunID(),
		noisy:    noisy,
		register: r,
		stats:    stats,
		expectZ:  expectZ,
		circuit:  quantum.NewCircuitRecord(c),
	}, nil
}

// singleZ returns the Pauli string measuring Z on qubit q alone.
func singleZ(numQubits, q int) string {
	b := make([]byte, numQubits)
	for i := range b {
		b[i] = 'I'
	}
	b[numQubits-1-q] = 'Z'
	return string(b)
}

// record bundles the run for export.
func (res *runResult) record() quantum.RunRecord {
	return quantum.RunRecord{
		RunID:       res.runID,
		Circuit:     res.circuit,
		Register:    quantum.NewRegisterRecord(res.runID, res.register),
		Measurement: quantum.NewMeasurementRecord(res.runID, res.stats),
	}
}

// exportRun writes the run as JSON into dir and returns the file path.
func exportRun(res *runResult, dir string) (string, error) {
	data, err := res.record().MarshalIndent()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("run-%s.json", res.runID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
