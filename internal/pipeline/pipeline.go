package pipeline

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"img2csv/internal/config"
	"img2csv/internal/ingest"
	"img2csv/internal/output"
	"img2csv/internal/processing"
	"img2csv/internal/simulator"
	"img2csv/internal/types"
)

type Runner struct {
	cfg    config.AppConfig
	in     *bufio.Reader
	out    io.Writer
	logger *log.Logger
}

// New returns a Runner that prompts on out and reads answers from in.
// A nil logger discards progress messages.
func New(cfg config.AppConfig, in io.Reader, out io.Writer, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Runner{
		cfg:    cfg,
		in:     bufio.NewReader(in),
		out:    out,
		logger: logger,
	}
}

// Run executes the whole conversion once. The first failing stage aborts the
// run and its *Error is returned.
func (r *Runner) Run() error {
	r.banner()

	raster, err := r.loadRaster()
	if err != nil {
		return err
	}
	r.logger.Printf("loaded raster %v", raster)

	grid, err := r.buildGrid(raster)
	if err != nil {
		return err
	}
	r.logger.Printf("built %dx%d grid (layout=%s legacy=%t)", grid.Rows(), grid.Cols(), r.cfg.Layout, r.cfg.LegacyIndex)

	path, err := r.answer("Output image file path", r.cfg.OutputPath)
	if err != nil {
		return err
	}
	if err := output.WriteCSV(path, grid); err != nil {
		return &Error{Kind: KindOutputWrite, Err: err}
	}
	r.logger.Printf("wrote %s", path)

	fmt.Fprintln(r.out, "See you...")
	return nil
}

func (r *Runner) banner() {
	fmt.Fprintln(r.out, r.cfg.Title)
	fmt.Fprintf(r.out, "version : %s\n", r.cfg.Version)
	fmt.Fprintf(r.out, "date : %s\n", r.cfg.BuildDate)
	fmt.Fprintln(r.out, "---")
}

func (r *Runner) loadRaster() (*types.Raster, error) {
	rgb := r.cfg.Layout.Color()
	if r.cfg.Debug {
		raster, err := simulator.Generate(r.cfg.DebugPattern, r.cfg.DebugWidth, r.cfg.DebugHeight, uint8(r.cfg.DebugValue), rgb)
		if err != nil {
			return nil, &Error{Kind: KindImageDecode, Err: err}
		}
		return raster, nil
	}

	path, err := r.answer("Input image file path", r.cfg.InputPath)
	if err != nil {
		return nil, err
	}
	raster, format, err := ingest.Load(path, rgb)
	if err != nil {
		return nil, &Error{Kind: KindImageDecode, Err: err}
	}
	r.logger.Printf("decoded %s as %s", path, format)
	return raster, nil
}

func (r *Runner) buildGrid(raster *types.Raster) (types.Grid, error) {
	var (
		grid types.Grid
		err  error
	)
	if r.cfg.LegacyIndex {
		grid, err = processing.BuildLegacyGrid(raster)
	} else {
		grid, err = processing.BuildGrid(raster, r.cfg.Layout)
	}
	if err != nil {
		kind := KindGridBuild
		if errors.Is(err, processing.ErrIndexOutOfRange) {
			kind = KindIndexOutOfRange
		}
		return nil, &Error{Kind: kind, Err: err}
	}
	return grid, nil
}

// answer returns preset when it is set, otherwise prompts for one line.
func (r *Runner) answer(prompt, preset string) (string, error) {
	if preset != "" {
		return preset, nil
	}
	fmt.Fprintf(r.out, "[INPUT ]%s : ", prompt)

	// EOF is an empty or final answer; later stages reject an empty path.
	line, err := r.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", &Error{Kind: KindInputRead, Err: err}
	}
	return strings.TrimSpace(line), nil
}
