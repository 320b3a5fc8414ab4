package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"qtermsim/quantum"
)

func main() {
	_ = godotenv.Load(".env")

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "qdeck: %v\n", err)
		os.Exit(1)
	}
	if cfg.Seed == 0 {
		cfg.Seed = rand.Uint64()
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "qdeck: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	quantum.SetLogger(logger.WithPrefix("quantum"))
	logger.Info("starting", "qubits", cfg.Qubits, "shots", cfg.Shots, "seed", cfg.Seed)

	p := tea.NewProgram(initialModel(cfg, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("program exited", "err", err)
		fmt.Fprintf(os.Stderr, "qdeck: %v\n", err)
		closeLog()
		os.Exit(1)
	}
}

// newLogger writes to cfg.LogFile, or discards output when none is set: the
// terminal belongs to the TUI.
func newLogger(cfg Config) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("log_level: %w", err)
	}
	var w io.Writer = io.Discard
	closeFn := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "qdeck",
		Level:           level,
		ReportTimestamp: true,
	})
	return logger, closeFn, nil
}
