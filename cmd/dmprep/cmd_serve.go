package main

import (
	"database/sql"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

var serveFlags struct {
	db    string
	table string
	addr  string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Browse a converted SQLite export in the browser for pair review",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.db, "db", "", "SQLite file written by convert --sqlite")
	f.StringVar(&serveFlags.table, "table", "pairs", "table name")
	f.StringVar(&serveFlags.addr, "addr", "127.0.0.1:18744", "HTTP listen address")
	_ = serveCmd.MarkFlagRequired("db")
}

const reviewPageSize = 50

type reviewServer struct {
	db    *sql.DB
	table string
	cols  []string
	log   *zap.Logger
}

func runServe(cmd *cobra.Command, args []string) error {
	db, err := sql.Open("sqlite", serveFlags.db)
	if err != nil {
		return err
	}
	defer db.Close()

	srv := &reviewServer{db: db, table: serveFlags.table, log: logger}
	srv.cols, err = tableColumns(db, serveFlags.table)
	if err != nil {
		return fmt.Errorf("inspect table %q: %w", serveFlags.table, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.handleList)
	mux.HandleFunc("/pair/", srv.handlePair)

	logger.Info("review server listening",
		zap.String("addr", serveFlags.addr),
		zap.String("db", serveFlags.db),
		zap.String("table", serveFlags.table))
	return http.ListenAndServe(serveFlags.addr, mux)
}

func tableColumns(db *sql.DB, table string) ([]string, error) {
	rows, err := db.Query(fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdent(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cols []string
	for rows.Next() {
		var cid int
		var name, typ string
		var notNull, pk int
		var dflt any
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no such table")
	}
	return cols, rows.Err()
}

type listEntry struct {
	ID    string
	Label string
	Left  string
	Right string
}

type listPage struct {
	Table   string
	Query   string
	Page    int
	Next    int
	Prev    int
	HasNext bool
	Total   int
	Entries []listEntry
}

func (s *reviewServer) handleList(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	where, ws := "", []any{}
	if q != "" {
		var likes []string
		for _, c := range s.cols {
			if strings.HasPrefix(c, "left_") || strings.HasPrefix(c, "right_") {
				likes = append(likes, quoteIdent(c)+" LIKE ?")
				ws = append(ws, "%"+q+"%")
			}
		}
		if len(likes) > 0 {
			where = " WHERE " + strings.Join(likes, " OR ")
		}
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM `+quoteIdent(s.table)+where, ws...).Scan(&total); err != nil {
		s.fail(w, err)
		return
	}

	leftExpr, rightExpr := "''", "''"
	if summaryCol := s.firstSummaryColumn(); summaryCol != "" {
		leftExpr = quoteIdent("left_" + summaryCol)
		rightExpr = quoteIdent("right_" + summaryCol)
	}
	query := fmt.Sprintf(`SELECT id, label, %s, %s FROM %s%s ORDER BY id LIMIT ? OFFSET ?`,
		leftExpr, rightExpr, quoteIdent(s.table), where)
	args := append(append([]any{}, ws...), reviewPageSize, (page-1)*reviewPageSize)
	rows, err := s.db.Query(query, args...)
	if err != nil {
		s.fail(w, err)
		return
	}
	defer rows.Close()

	data := listPage{Table: s.table, Query: q, Page: page, Prev: page - 1, Next: page + 1, Total: total}
	for rows.Next() {
		var e listEntry
		if err := rows.Scan(&e.ID, &e.Label, &e.Left, &e.Right); err != nil {
			s.fail(w, err)
			return
		}
		data.Entries = append(data.Entries, e)
	}
	if err := rows.Err(); err != nil {
		s.fail(w, err)
		return
	}
	data.HasNext = page*reviewPageSize < total

	if err := listTemplate.Execute(w, data); err != nil {
		s.log.Warn("render list page", zap.Error(err))
	}
}

// firstSummaryColumn picks the field shown in the listing: the first
// left_/right_ pair, preferring a title field when present. Empty when the
// table has no pair columns at all.
func (s *reviewServer) firstSummaryColumn() string {
	for _, c := range s.cols {
		if c == "left_title" {
			return "title"
		}
	}
	for _, c := range s.cols {
		if strings.HasPrefix(c, "left_") {
			return strings.TrimPrefix(c, "left_")
		}
	}
	return ""
}

type pairField struct {
	Field string
	Left  string
	Right string
	Same  bool
}

type pairPage struct {
	ID     string
	Label  string
	Fields []pairField
}

func (s *reviewServer) handlePair(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/pair/")
	if id == "" {
		http.NotFound(w, r)
		return
	}
	row := s.db.QueryRow(`SELECT * FROM `+quoteIdent(s.table)+` WHERE id = ?`, id)
	vals := make([]any, len(s.cols))
	ptrs := make([]any, len(s.cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := row.Scan(ptrs...); err != nil {
		http.NotFound(w, r)
		return
	}
	byCol := make(map[string]string, len(s.cols))
	for i, c := range s.cols {
		byCol[c] = fmt.Sprintf("%v", vals[i])
	}

	data := pairPage{ID: byCol["id"], Label: byCol["label"]}
	for _, c := range s.cols {
		if !strings.HasPrefix(c, "left_") {
			continue
		}
		field := strings.TrimPrefix(c, "left_")
		left, right := byCol["left_"+field], byCol["right_"+field]
		data.Fields = append(data.Fields, pairField{Field: field, Left: left, Right: right, Same: left == right})
	}
	if err := pairTemplate.Execute(w, data); err != nil {
		s.log.Warn("render pair page", zap.Error(err))
	}
}

func (s *reviewServer) fail(w http.ResponseWriter, err error) {
	s.log.Warn("query failed", zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

var listTemplate = template.Must(template.New("list").Parse(`<!doctype html>
<html><head><title>{{.Table}} — pair review</title>
<style>
body{font-family:sans-serif;margin:2rem}table{border-collapse:collapse;width:100%}
td,th{border:1px solid #ccc;padding:4px 8px;text-align:left}
.label1{background:#e6ffe6}.label0{background:#ffecec}
</style></head><body>
<h1>{{.Table}} ({{.Total}} pairs)</h1>
<form method="get"><input name="q" value="{{.Query}}" placeholder="search values"><button>Search</button></form>
<table><tr><th>id</th><th>label</th><th>left</th><th>right</th></tr>
{{range .Entries}}<tr class="label{{.Label}}">
<td><a href="/pair/{{.ID}}">{{.ID}}</a></td><td>{{.Label}}</td><td>{{.Left}}</td><td>{{.Right}}</td>
</tr>{{end}}
</table>
<p>
{{if gt .Prev 0}}<a href="?q={{.Query}}&page={{.Prev}}">&laquo; prev</a>{{end}}
page {{.Page}}
{{if .HasNext}}<a href="?q={{.Query}}&page={{.Next}}">next &raquo;</a>{{end}}
</p>
</body></html>`))

var pairTemplate = template.Must(template.New("pair").Parse(`<!doctype html>
<html><head><title>pair {{.ID}}</title>
<style>
body{font-family:sans-serif;margin:2rem}table{border-collapse:collapse;width:100%}
td,th{border:1px solid #ccc;padding:4px 8px;text-align:left;vertical-align:top}
.diff{background:#fff3cd}
</style></head><body>
<p><a href="/">&laquo; back</a></p>
<h1>Pair {{.ID}} — label {{.Label}}</h1>
<table><tr><th>field</th><th>left</th><th>right</th></tr>
{{range .Fields}}<tr{{if not .Same}} class="diff"{{end}}>
<td>{{.Field}}</td><td>{{.Left}}</td><td>{{.Right}}</td>
</tr>{{end}}
</table>
</body></html>`))
