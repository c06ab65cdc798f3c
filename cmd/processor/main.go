package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"salespulse/internal/config"
	"salespulse/internal/dataprocessing"
	"salespulse/internal/exporter"
	"salespulse/internal/infrastructure"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run parses args, builds the bundle and returns the process exit code.
func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("processor", flag.ContinueOnError)
	in := fs.String("in", "", "sales workbook (defaults to source.path from config)")
	sheet := fs.String("sheet", "", "sheet name (defaults to source.sheet from config)")
	out := fs.String("out", "", "write the bundle JSON here instead of stdout")
	csvDir := fs.String("csv", "", "also write one CSV file per bundle table into this directory")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		return 1
	}
	if *in != "" {
		cfg.Source.Path = *in
	}
	if *sheet != "" {
		cfg.Source.Sheet = *sheet
	}

	// stdout carries only the bundle.
	if cfg.Logging.Output != "file" {
		cfg.Logging.Output = "stderr"
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", slog.String("error", err.Error()))
		return 1
	}
	defer infrastructure.CloseLogFile()

	if *out == "" {
		if err := process(context.Background(), cfg, logger, stdout, *csvDir); err != nil {
			logger.Error("Processing failed", slog.String("error", err.Error()))
			return 1
		}
		return 0
	}

	if err := processToFile(context.Background(), cfg, logger, *out, *csvDir); err != nil {
		logger.Error("Processing failed", slog.String("path", *out), slog.String("error", err.Error()))
		return 1
	}
	return 0
}

// processToFile writes the bundle to path. The file is removed again when
// processing fails.
func processToFile(ctx context.Context, cfg *config.Config, logger *slog.Logger, path, csvDir string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	err = process(ctx, cfg, logger, f, csvDir)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close output file: %w", cerr)
	}
	if err != nil {
		os.Remove(path)
	}
	return err
}

// process loads the configured workbook, runs the pipeline and writes the
// result bundle as indented JSON. A non-empty csvDir also receives the
// bundle tables as CSV.
func process(ctx context.Context, cfg *config.Config, logger *slog.Logger, w io.Writer, csvDir string) error {
	ctx = infrastructure.EnsureTraceID(ctx)

	table, err := dataprocessing.NewLoader(logger).LoadWorkbook(ctx, cfg.Source.Path, cfg.Source.Sheet)
	if err != nil {
		return err
	}

	result, err := dataprocessing.NewPipeline(dataprocessing.OptionsFromConfig(cfg.Analytics), logger).Build(ctx, table)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "Bundle built",
		slog.Int("rows", result.Stats.Rows),
		slog.Int("active", result.Active),
		slog.Int("cancelled", result.Cancelled),
		slog.Int("missing_cells", result.Stats.MissingCells()),
		slog.Duration("duration", result.Duration))

	if csvDir != "" {
		if _, err := exporter.NewBundleExporter(csvDir, logger).Export(ctx, result.Bundle); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result.Bundle); err != nil {
		return fmt.Errorf("failed to write bundle: %w", err)
	}
	return nil
}
