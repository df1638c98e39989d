package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/zoobzio/timings"
	"github.com/zoobzio/timings/bson"
	"github.com/zoobzio/timings/json"
	"github.com/zoobzio/timings/msgpack"
	"github.com/zoobzio/timings/report"
	timingsyaml "github.com/zoobzio/timings/yaml"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a timings report and print its heaviest handlers",
		Long: `Decode a timings report, materialize it into report objects and print a
summary of the handlers with the most total time across all histories.`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}

	cmd.Flags().StringP("format", "f", formatText, "output format: text, yaml or full")
	cmd.Flags().IntP("limit", "n", 40, "number of handlers to show (0 for all)")
	cmd.Flags().String("input-type", inputAuto, "input encoding: auto, json, yaml, msgpack or bson")
	cmd.Flags().Bool("lenient", false, "skip unresolved callbacks instead of failing registration")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Verbose)
	defer func() { _ = logger.Sync() }()
	if cfg.Verbose {
		obs := logSignals(logger)
		defer obs.Close()
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	dec, err := decoderFor(cfg.InputType, path)
	if err != nil {
		return err
	}

	var opts []timings.RegistryOption
	if cfg.LenientCallbacks {
		opts = append(opts, timings.WithLenientCallbacks())
	}
	reg := timings.NewRegistry(opts...)
	if err := report.Register(reg); err != nil {
		return err
	}
	engine := timings.New(reg)

	start := time.Now()
	master, err := report.Parse(cmd.Context(), engine, dec, data)
	if err != nil {
		logger.Error("parse failed",
			zap.String("file", path),
			zap.String("content_type", dec.ContentType()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	logger.Debug("report parsed",
		zap.String("file", path),
		zap.String("content_type", dec.ContentType()),
		zap.String("fingerprint", report.Fingerprint(data)),
		zap.Int("bytes", len(data)),
		zap.Int("histories", master.Data.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)

	out := cmd.OutOrStdout()
	switch cfg.Format {
	case formatFull:
		return writeYAML(out, master)
	case formatYAML:
		return writeYAML(out, report.Summarize(master, cfg.Limit))
	default:
		writeText(out, report.Summarize(master, cfg.Limit))
		return nil
	}
}

// decoderFor picks the decoder for an input type, guessing from the file
// extension in auto mode. Unknown extensions are read as JSON.
func decoderFor(inputType, path string) (timings.Decoder, error) {
	if inputType == inputAuto {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			inputType = inputYAML
		case ".msgpack", ".mp":
			inputType = inputMsgpack
		case ".bson":
			inputType = inputBSON
		default:
			inputType = inputJSON
		}
	}

	switch inputType {
	case inputJSON:
		return json.New(), nil
	case inputYAML:
		return timingsyaml.New(), nil
	case inputMsgpack:
		return msgpack.New(), nil
	case inputBSON:
		return bson.New(), nil
	}
	return nil, fmt.Errorf("invalid input type %q", inputType)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return enc.Close()
}

func writeText(w io.Writer, s report.Summary) {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)
	faint := color.New(color.Faint)

	bold.Fprintf(w, "%s", s.Server)
	faint.Fprintf(w, " (%s)\n", s.Version)
	fmt.Fprintf(w, "%d histories, %d ticks over %ds\n\n", s.Histories, s.TotalTicks, s.Duration)

	for _, h := range s.Handlers {
		name := h.Name
		if h.Group != "" {
			name = h.Group + "::" + h.Name
		}
		cyan.Fprintf(w, "%-48s", name)
		fmt.Fprintf(w, " total %12d  count %10d  avg %10.2f", h.Total, h.Count, h.Avg)
		if h.LagCount > 0 {
			yellow.Fprintf(w, "  lag %d/%d", h.LagTotal, h.LagCount)
		}
		fmt.Fprintln(w)
	}
	if s.More > 0 {
		faint.Fprintf(w, "... %d more\n", s.More)
	}
}
