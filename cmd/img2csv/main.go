package main

import (
	"flag"
	"io"
	"log"
	"os"

	"img2csv/internal/config"
	"img2csv/internal/pipeline"
	"img2csv/internal/types"
)

// Set at build time with -ldflags "-X main.version=... -X main.buildDate=...".
var (
	version   = "dev_1.0"
	buildDate = "2023/03/17"
)

func main() {
	defaults := config.Default()
	var (
		title        = flag.String("title", defaults.Title, "Banner title")
		layout       = flag.String("layout", string(types.LayoutLuma), "Output layout: luma, red or rgb")
		legacyIndex  = flag.Bool("legacy-index", false, "Reproduce the historic column-major red layout (color only)")
		input        = flag.String("input", "", "Input image path (skips the prompt)")
		outputPath   = flag.String("output", "", "Output CSV path (skips the prompt)")
		verbose      = flag.Bool("verbose", false, "Log stage progress to stderr")
		debug        = flag.Bool("debug", false, "Run with a simulated image instead of an input file")
		debugWidth   = flag.Int("debug-width", defaults.DebugWidth, "Simulated image width in pixels")
		debugHeight  = flag.Int("debug-height", defaults.DebugHeight, "Simulated image height in pixels")
		debugPattern = flag.String("debug-pattern", defaults.DebugPattern, "Simulated pattern: spot, gradient or solid")
		debugValue   = flag.Int("debug-value", defaults.DebugValue, "Simulated solid value / blue channel (0-255)")
	)
	flag.Parse()

	log.SetFlags(0)

	cfg := config.AppConfig{
		Title:        *title,
		Version:      version,
		BuildDate:    buildDate,
		Layout:       types.Layout(*layout),
		LegacyIndex:  *legacyIndex,
		InputPath:    *input,
		OutputPath:   *outputPath,
		Verbose:      *verbose,
		Debug:        *debug,
		DebugWidth:   *debugWidth,
		DebugHeight:  *debugHeight,
		DebugPattern: *debugPattern,
		DebugValue:   *debugValue,
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	progress := log.New(io.Discard, "", 0)
	if cfg.Verbose {
		progress = log.New(os.Stderr, "[img2csv] ", log.LstdFlags)
	}

	if err := pipeline.New(cfg, os.Stdin, os.Stdout, progress).Run(); err != nil {
		log.Fatal(err)
	}
}
