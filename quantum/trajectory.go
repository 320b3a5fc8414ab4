package quantum

import (
	"math/rand/v2"
	"sync"
)

// SampleTrajectories estimates the noisy output distribution of c by running
// shots independent trajectories: each builds a fresh register, replays the
// circuit with noise after every instruction and draws one readout-noisy
// sample of every qubit.
//
// Trajectories are spread over workers goroutines. Each worker owns its
// registers and a generator seeded from (seed, worker), so results are
// reproducible for a fixed seed and worker count.
func SampleTrajectories(c *Circuit, model NoiseModel, shots, workers int, seed uint64) (*MeasurementStatistics, error) {
	if shots < 1 {
		return nil, measurementErrorf("shots must be positive, got %d", shots)
	}
	if workers < 1 {
		return nil, invalidParameterf("workers must be positive, got %d", workers)
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	workers = min(workers, shots)

	qubits := allQubitsDescending(c.numQubits)
	results := make([]*MeasurementStatistics, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for w := range workers {
		share := shots / workers
		if w < shots%workers {
			share++
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[w], errs[w] = runTrajectories(c, model, qubits, share, rand.New(rand.NewPCG(seed, uint64(w))))
		}()
	}
	wg.Wait()

	total := &MeasurementStatistics{Qubits: qubits, Counts: make(map[string]int)}
	for w := range workers {
		if errs[w] != nil {
			return nil, errs[w]
		}
		if err := total.Merge(results[w]); err != nil {
			return nil, err
		}
	}
	return total, nil
}

func runTrajectories(c *Circuit, model NoiseModel, qubits []int, shots int, rng *rand.Rand) (*MeasurementStatistics, error) {
	noise, err := NewNoise(model, rng)
	if err != nil {
		return nil, err
	}
	stats := &MeasurementStatistics{Qubits: qubits, Counts: make(map[string]int)}
	for range shots {
		r, err := NewRegister(c.numQubits)
		if err != nil {
			return nil, err
		}
		if err := RunNoisy(r, c, noise); err != nil {
			return nil, err
		}
		shot, err := MeasureQubits(r, qubits, 1, rng, WithReadoutNoise(noise))
		if err != nil {
			return nil, err
		}
		if err := stats.Merge(shot); err != nil {
			return nil, err
		}
	}
	return stats, nil
}
