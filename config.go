package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"qtermsim/quantum"
)

// Config holds the start-up settings of the TUI. Values come from an optional
// qdeck.yaml in the working directory, overridden by QDECK_* environment
// variables (a .env file is loaded first).
type Config struct {
	Qubits    int
	Shots     int
	Seed      uint64
	Workers   int
	LogFile   string
	LogLevel  string
	QASMFile  string
	ExportDir string
	Noise     quantum.NoiseModel
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("qdeck")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("QDECK")
	v.AutomaticEnv()

	def := quantum.DefaultNoiseModel()
	v.SetDefault("qubits", 4)
	v.SetDefault("shots", 1024)
	v.SetDefault("seed", 0)
	v.SetDefault("workers", 4)
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("qasm_file", "circuit.qasm")
	v.SetDefault("export_dir", ".")
	v.SetDefault("noise_channels", "depolarizing")
	v.SetDefault("p1", def.SingleQubitError)
	v.SetDefault("p2", def.TwoQubitError)
	v.SetDefault("pmeas", def.MeasurementError)
	v.SetDefault("t1", def.T1)
	v.SetDefault("t2", def.T2)
	v.SetDefault("gate_time_1q", def.SingleQubitGateTime)
	v.SetDefault("gate_time_2q", def.TwoQubitGateTime)
	return v
}

// loadConfig reads and validates the configuration.
func loadConfig() (Config, error) {
	v := newViper()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return configFrom(v)
}

func configFrom(v *viper.Viper) (Config, error) {
	cfg := Config{
		Qubits:    v.GetInt("qubits"),
		Shots:     v.GetInt("shots"),
		Seed:      v.GetUint64("seed"),
		Workers:   v.GetInt("workers"),
		LogFile:   v.GetString("log_file"),
		LogLevel:  v.GetString("log_level"),
		QASMFile:  v.GetString("qasm_file"),
		ExportDir: v.GetString("export_dir"),
		Noise: quantum.NoiseModel{
			SingleQubitError:    v.GetFloat64("p1"),
			TwoQubitError:       v.GetFloat64("p2"),
			MeasurementError:    v.GetFloat64("pmeas"),
			T1:                  v.GetFloat64("t1"),
			T2:                  v.GetFloat64("t2"),
			SingleQubitGateTime: v.GetFloat64("gate_time_1q"),
			TwoQubitGateTime:    v.GetFloat64("gate_time_2q"),
		},
	}

	// Env values arrive as one string, so the list is comma separated.
	for _, name := range strings.Split(v.GetString("noise_channels"), ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		ch, err := quantum.ParseChannel(name)
		if err != nil {
			return Config{}, fmt.Errorf("noise_channels: %w", err)
		}
		cfg.Noise.Channels = append(cfg.Noise.Channels, ch)
	}

	if cfg.Qubits < 1 || cfg.Qubits > maxTUIQubits {
		return Config{}, fmt.Errorf("qubits must be in [1, %d], got %d", maxTUIQubits, cfg.Qubits)
	}
	if cfg.Shots < 1 {
		return Config{}, fmt.Errorf("shots must be positive, got %d", cfg.Shots)
	}
	if cfg.Workers < 1 {
		return Config{}, fmt.Errorf("workers must be positive, got %d", cfg.Workers)
	}
	if err := cfg.Noise.Validate(); err != nil {
		return Config{}, fmt.Errorf("noise model: %w", err)
	}
	return cfg, nil
}
