// Package normalize runs the LLM cleanup pass over a converted dataset:
// each side of each pair is sent to a chat endpoint with the dataset's
// prompt template and replaced by the schema-complete record the model
// returns.
package normalize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dmprep/internal/config"
	"dmprep/internal/dataset"
	"dmprep/internal/llm"
	"dmprep/internal/store"
)

// Stats counts endpoint traffic for one run.
type Stats struct {
	Rows       int
	CacheHits  int
	ChatCalls  int
	ChatErrors int
	BadRecords int
}

// Pipeline normalizes one dataset. The completion cache is optional.
type Pipeline struct {
	cfg    config.Normalize
	client llm.Client
	cache  *store.Cache
	log    *zap.Logger
	runID  string
	tmpl   *template.Template
}

// New builds a pipeline from a dataset's normalize config.
func New(cfg config.Normalize, client llm.Client, cache *store.Cache, log *zap.Logger) (*Pipeline, error) {
	if len(cfg.ExpectedKeys) == 0 {
		return nil, fmt.Errorf("normalize config has no expected_keys")
	}
	if strings.TrimSpace(cfg.Prompt) == "" {
		return nil, fmt.Errorf("normalize config has no prompt template")
	}
	tmpl, err := template.New("prompt").Parse(cfg.Prompt)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		cfg:    cfg,
		client: client,
		cache:  cache,
		log:    log,
		runID:  uuid.NewString(),
		tmpl:   tmpl,
	}, nil
}

// Run normalizes every row of a converted table and returns the enriched
// table: id, label, then left/right columns for each expected key. Rows are
// processed concurrently but emitted in input order. A failed chat call or
// undecodable completion degrades that side to the all-defaults record; it
// never aborts the run.
func (p *Pipeline) Run(ctx context.Context, in *dataset.Table) (*dataset.Table, Stats, error) {
	out := &dataset.Table{Columns: p.columns()}
	rows := make([]map[string]string, len(in.Rows))
	stats := make([]Stats, len(in.Rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)
	for i := range in.Rows {
		i := i
		g.Go(func() error {
			row, st, err := p.normalizeRow(gctx, in.Rows[i])
			if err != nil {
				return err
			}
			rows[i] = row
			stats[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}

	var total Stats
	for i := range rows {
		out.Rows = append(out.Rows, rows[i])
		total.CacheHits += stats[i].CacheHits
		total.ChatCalls += stats[i].ChatCalls
		total.ChatErrors += stats[i].ChatErrors
		total.BadRecords += stats[i].BadRecords
	}
	total.Rows = len(out.Rows)
	return out, total, nil
}

func (p *Pipeline) columns() []string {
	cols := []string{"id", "label"}
	for _, k := range p.cfg.ExpectedKeys {
		cols = append(cols, "left_"+k, "right_"+k)
	}
	return cols
}

func (p *Pipeline) normalizeRow(ctx context.Context, row map[string]string) (map[string]string, Stats, error) {
	out := map[string]string{"id": row["id"], "label": row["label"]}
	var st Stats
	for _, side := range []string{"left", "right"} {
		rec, sideStats, err := p.normalizeSide(ctx, subRecord(row, side+"_"))
		if err != nil {
			return nil, st, err
		}
		st.CacheHits += sideStats.CacheHits
		st.ChatCalls += sideStats.ChatCalls
		st.ChatErrors += sideStats.ChatErrors
		st.BadRecords += sideStats.BadRecords
		for k, v := range rec {
			out[side+"_"+k] = v
		}
	}
	return out, st, nil
}

// normalizeSide prompts the model for one record side. Errors degrade to
// the all-defaults record; only context cancellation propagates.
func (p *Pipeline) normalizeSide(ctx context.Context, rec map[string]string) (map[string]string, Stats, error) {
	var st Stats
	prompt, err := p.renderPrompt(rec)
	if err != nil {
		return nil, st, err
	}

	completion, hit, err := p.cachedCompletion(ctx, prompt, &st)
	if err != nil {
		if ctx.Err() != nil {
			return nil, st, ctx.Err()
		}
		st.ChatErrors++
		p.log.Warn("chat call failed, filling defaults", zap.Error(err))
		return llm.NormalizeRecord(nil, p.cfg.ExpectedKeys, p.cfg.KeyMap, p.cfg.Defaults), st, nil
	}

	decoded, err := llm.DecodeRecord(completion)
	if err != nil {
		st.BadRecords++
		p.log.Warn("undecodable completion, filling defaults",
			zap.Bool("cache_hit", hit),
			zap.String("completion", truncate(completion, 200)))
		decoded = nil
	}
	return llm.NormalizeRecord(decoded, p.cfg.ExpectedKeys, p.cfg.KeyMap, p.cfg.Defaults), st, nil
}

func (p *Pipeline) cachedCompletion(ctx context.Context, prompt string, st *Stats) (string, bool, error) {
	var key string
	if p.cache != nil {
		key = store.Key(p.cfg.Model, prompt)
		if cached, ok, err := p.cache.Get(key); err != nil {
			p.log.Warn("cache read failed", zap.Error(err))
		} else if ok {
			st.CacheHits++
			return cached, true, nil
		}
	}

	st.ChatCalls++
	completion, err := p.client.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}})
	if err != nil {
		return "", false, err
	}
	if p.cache != nil {
		if err := p.cache.Put(key, p.runID, p.cfg.Model, completion); err != nil {
			p.log.Warn("cache write failed", zap.Error(err))
		}
	}
	return completion, false, nil
}

type promptData struct {
	RecordJSON string
}

func (p *Pipeline) renderPrompt(rec map[string]string) (string, error) {
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, promptData{RecordJSON: string(b)}); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

// subRecord extracts one side of a converted row by column prefix.
func subRecord(row map[string]string, prefix string) map[string]string {
	out := map[string]string{}
	for k, v := range row {
		if strings.HasPrefix(k, prefix) {
			out[strings.TrimPrefix(k, prefix)] = v
		}
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
