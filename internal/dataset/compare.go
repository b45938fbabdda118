package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ColumnScore is the aggregate value similarity for one shared column over
// the aligned rows.
type ColumnScore struct {
	Column     string  `json:"column"`
	Similarity float64 `json:"similarity"`
	ExactRatio float64 `json:"exact_ratio"`
}

// CompareReport summarizes how closely a candidate converted CSV tracks a
// reference one when rows are aligned by their id column.
type CompareReport struct {
	ReferenceRows     int           `json:"reference_rows"`
	CandidateRows     int           `json:"candidate_rows"`
	AlignedRows       int           `json:"aligned_rows"`
	CoverageReference float64       `json:"coverage_reference"`
	SharedColumns     []string      `json:"shared_columns"`
	ReferenceOnly     []string      `json:"reference_only_columns,omitempty"`
	CandidateOnly     []string      `json:"candidate_only_columns,omitempty"`
	Columns           []ColumnScore `json:"columns"`
	OverallSimilarity float64       `json:"overall_similarity"`
}

// Compare aligns two converted tables by "id" and scores per-column value
// similarity: 1.0 for equal trimmed values (numeric values compared as
// numbers), otherwise normalized Levenshtein similarity.
func Compare(ref, cand *Table) (*CompareReport, error) {
	if !contains(ref.Columns, "id") || !contains(cand.Columns, "id") {
		return nil, fmt.Errorf("both tables need an id column to align rows")
	}

	candByID := make(map[string]map[string]string, len(cand.Rows))
	for _, r := range cand.Rows {
		candByID[strings.TrimSpace(r["id"])] = r
	}

	shared, refOnly := partitionColumns(ref.Columns, cand.Columns)
	_, candOnly := partitionColumns(cand.Columns, ref.Columns)

	report := &CompareReport{
		ReferenceRows: len(ref.Rows),
		CandidateRows: len(cand.Rows),
		SharedColumns: shared,
		ReferenceOnly: refOnly,
		CandidateOnly: candOnly,
	}

	type pair struct{ ref, cand map[string]string }
	var aligned []pair
	for _, r := range ref.Rows {
		if c, ok := candByID[strings.TrimSpace(r["id"])]; ok {
			aligned = append(aligned, pair{r, c})
		}
	}
	report.AlignedRows = len(aligned)
	if len(ref.Rows) > 0 {
		report.CoverageReference = float64(len(aligned)) / float64(len(ref.Rows))
	}

	var sum float64
	scored := 0
	for _, col := range shared {
		if col == "id" {
			continue
		}
		var colSum float64
		exact := 0
		for _, p := range aligned {
			s := valueSimilarity(p.ref[col], p.cand[col])
			colSum += s
			if s == 1 {
				exact++
			}
		}
		cs := ColumnScore{Column: col}
		if len(aligned) > 0 {
			cs.Similarity = colSum / float64(len(aligned))
			cs.ExactRatio = float64(exact) / float64(len(aligned))
		}
		report.Columns = append(report.Columns, cs)
		sum += cs.Similarity
		scored++
	}
	if scored > 0 {
		report.OverallSimilarity = sum / float64(scored)
	}
	sort.Slice(report.Columns, func(i, j int) bool {
		return report.Columns[i].Column < report.Columns[j].Column
	})
	return report, nil
}

func valueSimilarity(a, b string) float64 {
	an := strings.TrimSpace(a)
	bn := strings.TrimSpace(b)
	if an == "" && bn == "" {
		return 1
	}
	if an == "" || bn == "" {
		return 0
	}
	if an == bn {
		return 1
	}
	if af, err := strconv.ParseFloat(an, 64); err == nil {
		if bf, err2 := strconv.ParseFloat(bn, 64); err2 == nil {
			if af == bf {
				return 1
			}
			denom := math.Max(math.Max(math.Abs(af), math.Abs(bf)), 1)
			return math.Max(0, 1-math.Abs(af-bf)/denom)
		}
	}
	return normalizedLevenshteinSimilarity(an, bn)
}

func normalizedLevenshteinSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	dist := levenshteinDistance(a, b)
	denom := len([]rune(a))
	if lb := len([]rune(b)); lb > denom {
		denom = lb
	}
	return math.Max(0, 1-float64(dist)/float64(denom))
}

func levenshteinDistance(a, b string) int {
	ar := []rune(a)
	br := []rune(b)
	if len(ar) < len(br) {
		ar, br = br, ar
	}
	if len(br) == 0 {
		return len(ar)
	}
	prev := make([]int, len(br)+1)
	for j := range prev {
		prev[j] = j
	}
	for i, ca := range ar {
		curr := make([]int, len(br)+1)
		curr[0] = i + 1
		for j, cb := range br {
			ins := curr[j] + 1
			del := prev[j+1] + 1
			sub := prev[j]
			if ca != cb {
				sub++
			}
			curr[j+1] = min3(ins, del, sub)
		}
		prev = curr
	}
	return prev[len(prev)-1]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func partitionColumns(a, b []string) (shared, only []string) {
	inB := map[string]struct{}{}
	for _, c := range b {
		inB[c] = struct{}{}
	}
	for _, c := range a {
		if _, ok := inB[c]; ok {
			shared = append(shared, c)
		} else {
			only = append(only, c)
		}
	}
	return shared, only
}

func contains(cols []string, name string) bool {
	for _, c := range cols {
		if c == name {
			return true
		}
	}
	return false
}
