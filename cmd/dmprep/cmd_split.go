package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dmprep/internal/dataset"
)

var splitFlags struct {
	input  string
	outDir string
	seed   int64
	train  float64
	valid  float64
}

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Deterministically split a converted CSV into train/valid/test",
	RunE:  runSplit,
}

func init() {
	f := splitCmd.Flags()
	f.StringVarP(&splitFlags.input, "input", "i", "", "converted CSV to split")
	f.StringVar(&splitFlags.outDir, "out-dir", ".", "output directory")
	f.Int64Var(&splitFlags.seed, "seed", 20260224, "shuffle seed")
	f.Float64Var(&splitFlags.train, "train", 0.6, "train fraction")
	f.Float64Var(&splitFlags.valid, "valid", 0.2, "valid fraction")
	_ = splitCmd.MarkFlagRequired("input")
}

func runSplit(cmd *cobra.Command, args []string) error {
	table, err := dataset.LoadCSV(splitFlags.input)
	if err != nil {
		return err
	}
	train, valid, test, err := dataset.Split(table, splitFlags.seed, dataset.SplitRatios{
		Train: splitFlags.train,
		Valid: splitFlags.valid,
	})
	if err != nil {
		return err
	}
	parts := []struct {
		name  string
		table *dataset.Table
	}{
		{"train.csv", train},
		{"valid.csv", valid},
		{"test.csv", test},
	}
	for _, p := range parts {
		path := filepath.Join(splitFlags.outDir, p.name)
		if err := dataset.WriteCSV(path, p.table, dataset.NumericColumns()); err != nil {
			return fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	logger.Info("split finished",
		zap.Int64("seed", splitFlags.seed),
		zap.Int("train", len(train.Rows)),
		zap.Int("valid", len(valid.Rows)),
		zap.Int("test", len(test.Rows)))
	return nil
}
