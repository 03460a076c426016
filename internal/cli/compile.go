package cli

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/hakoniwa-sim/envsim"
)

// runCompile implements the "compile" subcommand (spec §4.1, §6).
func runCompile(cfg *Cfg) error {
	infile := cfg.GetString("infile")
	outdir := cfg.GetString("outdir")

	data, err := afero.ReadFile(cfg.Fs, infile)
	if err != nil {
		return fmt.Errorf("envsim: reading scene descriptor %s: %w", infile, err)
	}

	scene, err := envsim.ParseScene(data)
	if err != nil {
		return fmt.Errorf("envsim: parsing scene descriptor: %w", err)
	}

	result, err := envsim.Compile(scene)
	if err != nil {
		return fmt.Errorf("envsim: compiling scene: %w", err)
	}

	if err := cfg.Fs.MkdirAll(outdir, 0o755); err != nil {
		return fmt.Errorf("envsim: creating output directory %s: %w", outdir, err)
	}
	if err := envsim.WriteTables(cfg.Fs, outdir, result); err != nil {
		return fmt.Errorf("envsim: writing compiled tables: %w", err)
	}

	cfg.Log.WithFields(map[string]interface{}{
		"areas":      len(result.Areas),
		"properties": len(result.Properties),
		"links":      len(result.Links),
		"outdir":     outdir,
	}).Info("compiled scene")
	return nil
}
