package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dmprep/internal/config"
	"dmprep/internal/dataset"
	"dmprep/internal/store"
)

var convertFlags struct {
	input     string
	output    string
	config    string
	preferred string
	sqlite    string
	profile   string
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a tab-separated COL/VAL pair file to a DeepMatcher CSV",
	RunE:  runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.StringVarP(&convertFlags.input, "input", "i", "", "input pair file (left\\tright\\tlabel per line)")
	f.StringVarP(&convertFlags.output, "output", "o", "", "output CSV path (default: input with .csv extension)")
	f.StringVarP(&convertFlags.config, "config", "c", "", "dataset config YAML")
	f.StringVar(&convertFlags.preferred, "preferred", "", "comma-separated preferred field order (overrides config)")
	f.StringVar(&convertFlags.sqlite, "sqlite", "", "also export the table to this SQLite file")
	f.StringVar(&convertFlags.profile, "profile", "", "also write a markdown conversion report here")
	_ = convertCmd.MarkFlagRequired("input")
}

func runConvert(cmd *cobra.Command, args []string) error {
	opts := dataset.ConvertOptions{}
	name := strings.TrimSuffix(filepath.Base(convertFlags.input), filepath.Ext(convertFlags.input))
	if convertFlags.config != "" {
		ds, err := config.Load(convertFlags.config)
		if err != nil {
			return err
		}
		name = ds.Name
		opts.Preferred = ds.PreferredOrder
		opts.YearFields = ds.YearFields
		opts.CleanValues = ds.CleanValues
	}
	if convertFlags.preferred != "" {
		opts.Preferred = splitComma(convertFlags.preferred)
	}

	in, err := os.Open(convertFlags.input)
	if err != nil {
		return err
	}
	defer in.Close()

	res, err := dataset.Convert(in, opts, logger)
	if err != nil {
		return err
	}

	outPath := convertFlags.output
	if outPath == "" {
		outPath = strings.TrimSuffix(convertFlags.input, filepath.Ext(convertFlags.input)) + ".csv"
	}
	if err := dataset.WriteCSV(outPath, res.Table, dataset.NumericColumns()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if convertFlags.sqlite != "" {
		if err := store.ExportSQLite(convertFlags.sqlite, "pairs", res.Table, dataset.NumericColumns()); err != nil {
			return fmt.Errorf("write sqlite: %w", err)
		}
	}
	if convertFlags.profile != "" {
		if err := os.WriteFile(convertFlags.profile, []byte(dataset.Profile(name, res)), 0o644); err != nil {
			return fmt.Errorf("write profile: %w", err)
		}
	}

	logger.Info("conversion finished",
		zap.String("dataset", name),
		zap.String("output", outPath),
		zap.Int("lines_read", res.Stats.LinesRead),
		zap.Int("rows_written", res.Stats.Kept),
		zap.Int("malformed", res.Stats.Malformed),
		zap.Int("invalid_label", res.Stats.InvalidLabel),
		zap.Strings("schema", res.Schema))
	return nil
}

func splitComma(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
