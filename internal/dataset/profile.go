package dataset

import (
	"fmt"
	"sort"
	"strings"
)

// Profile renders a markdown report over a conversion result: line
// accounting, per-column fill rates and top value counts for
// low-cardinality columns.
func Profile(name string, res *Result) string {
	var lines []string
	lines = append(lines,
		fmt.Sprintf("# %s conversion report", name),
		"",
		"## Dataset shape",
		fmt.Sprintf("- Lines read: %d", res.Stats.LinesRead),
		fmt.Sprintf("- Blank lines: %d", res.Stats.Blank),
		fmt.Sprintf("- Malformed lines skipped: %d", res.Stats.Malformed),
		fmt.Sprintf("- Invalid-label lines skipped: %d", res.Stats.InvalidLabel),
		fmt.Sprintf("- Rows written: %d", res.Stats.Kept),
		fmt.Sprintf("- Schema fields: %d (%s)", len(res.Schema), strings.Join(res.Schema, ", ")),
		"",
	)

	lines = append(lines, "## Fill rates")
	total := len(res.Table.Rows)
	for _, c := range res.Table.Columns {
		if c == "id" || c == "label" {
			continue
		}
		filled := 0
		for _, r := range res.Table.Rows {
			if strings.TrimSpace(r[c]) != "" {
				filled++
			}
		}
		pct := 0.0
		if total > 0 {
			pct = float64(filled) * 100 / float64(total)
		}
		lines = append(lines, fmt.Sprintf("- `%s`: %.1f%% filled", c, pct))
	}
	lines = append(lines, "")

	lines = append(lines, "## Label distribution")
	for _, kv := range valueCounts(res.Table.Rows, "label", 10) {
		lines = append(lines, fmt.Sprintf("- %s: %d", kv.k, kv.v))
	}
	lines = append(lines, "")

	lines = append(lines, "## Value counts (top 10, low-cardinality columns)")
	for _, c := range res.Table.Columns {
		if c == "id" || c == "label" {
			continue
		}
		counts := valueCounts(res.Table.Rows, c, 10)
		// Skip near-unique columns; their top list is noise.
		if total > 0 && len(counts) == 10 && counts[0].v == 1 {
			continue
		}
		if len(counts) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("### `%s`", c))
		for _, kv := range counts {
			lines = append(lines, fmt.Sprintf("- %s: %d", kv.k, kv.v))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n") + "\n"
}

type kv struct {
	k string
	v int
}

func valueCounts(rows []map[string]string, col string, top int) []kv {
	counts := map[string]int{}
	for _, r := range rows {
		k := r[col]
		if strings.TrimSpace(k) == "" {
			k = "<NA>"
		}
		counts[k]++
	}
	items := make([]kv, 0, len(counts))
	for k, v := range counts {
		items = append(items, kv{k, v})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].v == items[j].v {
			return items[i].k < items[j].k
		}
		return items[i].v > items[j].v
	})
	if len(items) > top {
		items = items[:top]
	}
	return items
}
