package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"qtermsim/quantum"
)

func TestConfigDefaults(t *testing.T) {
	cfg, err := configFrom(newViper())
	require.NoError(t, err)
	require.Equal(t, 4, cfg.Qubits)
	require.Equal(t, 1024, cfg.Shots)
	require.Equal(t, "circuit.qasm", cfg.QASMFile)
	require.Equal(t, quantum.DefaultNoiseModel(), cfg.Noise)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("QDECK_QUBITS", "3")
	t.Setenv("QDECK_SHOTS", "64")
	t.Setenv("QDECK_SEED", "12345")
	t.Setenv("QDECK_NOISE_CHANNELS", "bit_flip, amplitude_damping")
	t.Setenv("QDECK_P1", "0.05")
	t.Setenv("QDECK_T2", "80")

	cfg, err := configFrom(newViper())
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Qubits)
	require.Equal(t, 64, cfg.Shots)
	require.Equal(t, uint64(12345), cfg.Seed)
	require.Equal(t, []quantum.Channel{quantum.ChannelBitFlip, quantum.ChannelAmplitudeDamping}, cfg.Noise.Channels)
	require.Equal(t, 0.05, cfg.Noise.SingleQubitError)
	require.Equal(t, 80.0, cfg.Noise.T2)
}

func TestConfigRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"QDECK_QUBITS":         "40",
		"QDECK_SHOTS":          "0",
		"QDECK_WORKERS":        "-1",
		"QDECK_NOISE_CHANNELS": "cosmic_rays",
		"QDECK_P1":             "2",
		"QDECK_T2":             "500",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := configFrom(newViper())
			require.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	cfg, err := configFrom(newViper())
	require.NoError(t, err)
	logger, closeLog, err := newLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)
	closeLog()

	cfg.LogLevel = "loud"
	_, _, err = newLogger(cfg)
	require.Error(t, err)
}
