// Package main is the entry point for the Sputterer surface viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/MetisArom/Sputterer/internal/config"
	"github.com/MetisArom/Sputterer/internal/logger"
	"github.com/MetisArom/Sputterer/internal/scene"
	"github.com/MetisArom/Sputterer/internal/viewer"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Positional arguments add surfaces on top of the config file.
	for _, path := range config.Args() {
		s := config.DefaultSurface()
		s.Name = path
		s.File = path
		cfg.Surfaces = append(cfg.Surfaces, s)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if len(cfg.Surfaces) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: sputterer [flags] [surface.obj ...]")
		fmt.Fprintln(os.Stderr, "No surfaces given on the command line or in the config file.")
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Sputterer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	opts, err := cfg.MeshOptions()
	if err != nil {
		logger.Error("invalid mesh options", zap.Error(err))
		os.Exit(1)
	}

	sc, err := scene.Load(cfg.Surfaces, opts)
	if err != nil {
		logger.Error("failed to load surfaces", zap.Error(err))
		os.Exit(1)
	}

	v, err := viewer.New(cfg, sc)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
