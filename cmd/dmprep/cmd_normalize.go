package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dmprep/internal/config"
	"dmprep/internal/dataset"
	"dmprep/internal/llm"
	"dmprep/internal/normalize"
	"dmprep/internal/store"
)

var normalizeFlags struct {
	input   string
	output  string
	config  string
	cache   string
	noCache bool
	model   string
	workers int
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Clean a converted CSV's records through an LLM chat endpoint",
	RunE:  runNormalize,
}

func init() {
	f := normalizeCmd.Flags()
	f.StringVarP(&normalizeFlags.input, "input", "i", "", "converted CSV to normalize")
	f.StringVarP(&normalizeFlags.output, "output", "o", "", "output CSV path (default: <input>_enriched.csv)")
	f.StringVarP(&normalizeFlags.config, "config", "c", "", "dataset config YAML with normalize section")
	f.StringVar(&normalizeFlags.cache, "cache", "", "completion cache path (default: alongside output)")
	f.BoolVar(&normalizeFlags.noCache, "no-cache", false, "disable the completion cache")
	f.StringVar(&normalizeFlags.model, "model", "", "override the config's model")
	f.IntVar(&normalizeFlags.workers, "workers", 0, "override the config's worker count")
	_ = normalizeCmd.MarkFlagRequired("input")
	_ = normalizeCmd.MarkFlagRequired("config")
}

func runNormalize(cmd *cobra.Command, args []string) error {
	ds, err := config.Load(normalizeFlags.config)
	if err != nil {
		return err
	}
	cfg := ds.Normalize
	if normalizeFlags.model != "" {
		cfg.Model = normalizeFlags.model
	}
	if normalizeFlags.workers > 0 {
		cfg.Workers = normalizeFlags.workers
	}
	timeout, err := cfg.ParsedTimeout()
	if err != nil {
		return err
	}

	table, err := dataset.LoadCSV(normalizeFlags.input)
	if err != nil {
		return err
	}

	outPath := normalizeFlags.output
	if outPath == "" {
		ext := filepath.Ext(normalizeFlags.input)
		outPath = strings.TrimSuffix(normalizeFlags.input, ext) + "_enriched" + ext
	}

	var cache *store.Cache
	if !normalizeFlags.noCache {
		cachePath := normalizeFlags.cache
		if cachePath == "" {
			cachePath = strings.TrimSuffix(outPath, filepath.Ext(outPath)) + "_cache.sqlite"
		}
		cache, err = store.OpenCache(cachePath)
		if err != nil {
			return fmt.Errorf("open completion cache: %w", err)
		}
		defer cache.Close()
	}

	client := llm.NewOllama(cfg.BaseURL, cfg.Model, timeout)
	pipeline, err := normalize.New(cfg, client, cache, logger)
	if err != nil {
		return err
	}

	logger.Info("normalizing dataset",
		zap.String("dataset", ds.Name),
		zap.String("model", cfg.Model),
		zap.Int("rows", len(table.Rows)),
		zap.Int("workers", cfg.Workers))

	out, stats, err := pipeline.Run(cmd.Context(), table)
	if err != nil {
		return err
	}
	if err := dataset.WriteCSV(outPath, out, dataset.NumericColumns()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	logger.Info("normalization finished",
		zap.String("output", outPath),
		zap.Int("rows", stats.Rows),
		zap.Int("chat_calls", stats.ChatCalls),
		zap.Int("cache_hits", stats.CacheHits),
		zap.Int("chat_errors", stats.ChatErrors),
		zap.Int("bad_completions", stats.BadRecords))
	return nil
}
