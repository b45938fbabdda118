package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dmprep/internal/dataset"
)

var compareCmd = &cobra.Command{
	Use:   "compare <reference.csv> <candidate.csv>",
	Short: "Score how closely a candidate converted CSV tracks a reference",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompare,
}

func runCompare(cmd *cobra.Command, args []string) error {
	ref, err := dataset.LoadCSV(args[0])
	if err != nil {
		return fmt.Errorf("load reference: %w", err)
	}
	cand, err := dataset.LoadCSV(args[1])
	if err != nil {
		return fmt.Errorf("load candidate: %w", err)
	}
	report, err := dataset.Compare(ref, cand)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
