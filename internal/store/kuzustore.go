//go:build cgo

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	kuzu "github.com/kuzudb/go-kuzu"

	"github.com/ritikaseth1003/GreenLint/internal/energy"
)

// KuzuStore implements Store using KuzuDB as the energy map backend.
// It requires CGO because the go-kuzu driver wraps KuzuDB's C library.
type KuzuStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	return openKuzu(":memory:")
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at
// the given path, so the energy map survives across runs. KuzuDB creates
// the leaf directory itself.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	return openKuzu(dbPath)
}

func openKuzu(path string) (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// ---------- Schema setup ----------

// ddlStatements defines the Cypher DDL executed by InitSchema.
// Order matters: node tables must precede relationship tables.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS File(
		path STRING,
		score INT64,
		grade STRING,
		source_lines INT64,
		issue_count INT64,
		PRIMARY KEY(path)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Block(
		id STRING,
		type STRING,
		start_line INT64,
		end_line INT64,
		depth INT64,
		total_energy DOUBLE,
		energy_per_line DOUBLE,
		PRIMARY KEY(id)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Issue(
		id STRING,
		category STRING,
		message STRING,
		line INT64,
		severity INT64,
		impact DOUBLE,
		PRIMARY KEY(id)
	)`,
	`CREATE REL TABLE IF NOT EXISTS HAS_BLOCK(FROM File TO Block)`,
	`CREATE REL TABLE IF NOT EXISTS FLAGS(FROM File TO Issue)`,
	`CREATE REL TABLE IF NOT EXISTS HOTSPOT(FROM File TO Block)`,
}

// InitSchema creates all node and relationship tables if they do not exist.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// ---------- Write operations ----------

// PutReport records the file's report, replacing any previous record for
// the same path.
func (s *KuzuStore) PutReport(_ context.Context, path string, r *energy.Report) error {
	if err := s.deleteFile(path); err != nil {
		return err
	}

	err := s.exec(
		"CREATE (f:File {path: $path, score: $score, grade: $grade, source_lines: $lines, issue_count: $issues})",
		map[string]any{
			"path":   path,
			"score":  int64(r.Score),
			"grade":  r.Grade.Letter,
			"lines":  int64(r.SourceLines),
			"issues": int64(len(r.Issues)),
		},
	)
	if err != nil {
		return err
	}

	for i := range r.Blocks {
		b := &r.Blocks[i]
		id := blockID(path, i)
		err := s.exec(
			`CREATE (b:Block {
				id: $id,
				type: $type,
				start_line: $sl,
				end_line: $el,
				depth: $depth,
				total_energy: $total,
				energy_per_line: $epl
			})`,
			map[string]any{
				"id":    id,
				"type":  string(b.Type),
				"sl":    int64(b.StartLine),
				"el":    int64(b.EndLine),
				"depth": int64(b.Depth),
				"total": b.TotalEnergy,
				"epl":   b.EnergyPerLine,
			},
		)
		if err != nil {
			return err
		}
		err = s.exec(
			`MATCH (f:File {path: $path}), (b:Block {id: $id})
			 CREATE (f)-[:HAS_BLOCK]->(b)`,
			map[string]any{"path": path, "id": id},
		)
		if err != nil {
			return err
		}

		if r.Hotspot != nil && r.Hotspot == &r.Blocks[i] {
			err = s.exec(
				`MATCH (f:File {path: $path}), (b:Block {id: $id})
				 CREATE (f)-[:HOTSPOT]->(b)`,
				map[string]any{"path": path, "id": id},
			)
			if err != nil {
				return err
			}
		}
	}

	// The hotspot may be a standalone pointer when blocks were trimmed
	// from the report. Store it as its own block node in that case.
	if r.Hotspot != nil && !hotspotInBlocks(r) {
		id := blockID(path, len(r.Blocks))
		err := s.exec(
			`CREATE (b:Block {
				id: $id,
				type: $type,
				start_line: $sl,
				end_line: $el,
				depth: $depth,
				total_energy: $total,
				energy_per_line: $epl
			})`,
			map[string]any{
				"id":    id,
				"type":  string(r.Hotspot.Type),
				"sl":    int64(r.Hotspot.StartLine),
				"el":    int64(r.Hotspot.EndLine),
				"depth": int64(r.Hotspot.Depth),
				"total": r.Hotspot.TotalEnergy,
				"epl":   r.Hotspot.EnergyPerLine,
			},
		)
		if err != nil {
			return err
		}
		err = s.exec(
			`MATCH (f:File {path: $path}), (b:Block {id: $id})
			 CREATE (f)-[:HOTSPOT]->(b)`,
			map[string]any{"path": path, "id": id},
		)
		if err != nil {
			return err
		}
	}

	for i, is := range r.Issues {
		id := issueID(path, i)
		err := s.exec(
			`CREATE (i:Issue {
				id: $id,
				category: $cat,
				message: $msg,
				line: $line,
				severity: $sev,
				impact: $impact
			})`,
			map[string]any{
				"id":     id,
				"cat":    string(is.Category),
				"msg":    is.Message,
				"line":   int64(is.Line),
				"sev":    int64(is.Severity),
				"impact": is.EstimatedImpact,
			},
		)
		if err != nil {
			return err
		}
		err = s.exec(
			`MATCH (f:File {path: $path}), (i:Issue {id: $id})
			 CREATE (f)-[:FLAGS]->(i)`,
			map[string]any{"path": path, "id": id},
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// deleteFile removes a file and its attached blocks and issues.
func (s *KuzuStore) deleteFile(path string) error {
	statements := []string{
		`MATCH (f:File {path: $path})-[:HAS_BLOCK]->(b:Block) DETACH DELETE b`,
		`MATCH (f:File {path: $path})-[:HOTSPOT]->(b:Block) DETACH DELETE b`,
		`MATCH (f:File {path: $path})-[:FLAGS]->(i:Issue) DETACH DELETE i`,
		`MATCH (f:File {path: $path}) DETACH DELETE f`,
	}
	for _, cypher := range statements {
		if err := s.exec(cypher, map[string]any{"path": path}); err != nil {
			return err
		}
	}
	return nil
}

// ---------- Read operations ----------

// GetFile retrieves a single file record by path, or nil if not found.
func (s *KuzuStore) GetFile(_ context.Context, path string) (*FileRecord, error) {
	rows, err := s.query(
		"MATCH (f:File {path: $path}) RETURN f.path, f.score, f.grade, f.source_lines, f.issue_count",
		map[string]any{"path": path},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rowToFile(rows[0]), nil
}

// WorstFiles returns up to limit files ordered by ascending score.
func (s *KuzuStore) WorstFiles(_ context.Context, limit int) ([]FileRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.query(
		`MATCH (f:File)
		 RETURN f.path, f.score, f.grade, f.source_lines, f.issue_count
		 ORDER BY f.score ASC, f.path ASC
		 LIMIT $lim`,
		map[string]any{"lim": int64(limit)},
	)
	if err != nil {
		return nil, err
	}
	out := make([]FileRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, *rowToFile(r))
	}
	return out, nil
}

// ProjectHotspots returns up to limit hotspots ordered by descending
// energy density.
func (s *KuzuStore) ProjectHotspots(_ context.Context, limit int) ([]HotspotRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.query(
		`MATCH (f:File)-[:HOTSPOT]->(b:Block)
		 RETURN f.path, b.type, b.start_line, b.end_line, b.total_energy, b.energy_per_line
		 ORDER BY b.energy_per_line DESC, f.path ASC
		 LIMIT $lim`,
		map[string]any{"lim": int64(limit)},
	)
	if err != nil {
		return nil, err
	}
	out := make([]HotspotRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, HotspotRecord{
			Path:          toString(r[0]),
			BlockType:     toString(r[1]),
			StartLine:     toInt(r[2]),
			EndLine:       toInt(r[3]),
			TotalEnergy:   toFloat64(r[4]),
			EnergyPerLine: toFloat64(r[5]),
		})
	}
	return out, nil
}

// ---------- Stats ----------

// Stats returns counts of all node tables plus the average score.
func (s *KuzuStore) Stats(_ context.Context) (*MapStats, error) {
	files, err := s.countTable("File")
	if err != nil {
		return nil, err
	}
	blocks, err := s.countTable("Block")
	if err != nil {
		return nil, err
	}
	issues, err := s.countTable("Issue")
	if err != nil {
		return nil, err
	}

	avg := 0.0
	if files > 0 {
		rows, err := s.query("MATCH (f:File) RETURN avg(f.score)", nil)
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 && len(rows[0]) > 0 {
			avg = toFloat64(rows[0][0])
		}
	}

	return &MapStats{
		FileCount:    files,
		BlockCount:   blocks,
		IssueCount:   issues,
		AverageScore: avg,
	}, nil
}

// ---------- Internal helpers ----------

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows.
// Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// countTable returns the number of rows in a node table.
func (s *KuzuStore) countTable(table string) (int, error) {
	// Table name is a fixed internal constant, not user input.
	cypher := fmt.Sprintf("MATCH (n:%s) RETURN count(n)", table)
	rows, err := s.query(cypher, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return toInt(rows[0][0]), nil
}

func blockID(path string, i int) string {
	return fmt.Sprintf("%s#b%d", path, i)
}

func issueID(path string, i int) string {
	return fmt.Sprintf("%s#i%d", path, i)
}

func hotspotInBlocks(r *energy.Report) bool {
	for i := range r.Blocks {
		if r.Hotspot == &r.Blocks[i] {
			return true
		}
	}
	return false
}

// rowToFile converts a 5-column result row into a FileRecord.
// Column order: path, score, grade, source_lines, issue_count.
func rowToFile(r []any) *FileRecord {
	return &FileRecord{
		Path:        toString(r[0]),
		Score:       toInt(r[1]),
		Grade:       toString(r[2]),
		SourceLines: toInt(r[3]),
		IssueCount:  toInt(r[4]),
	}
}

// ---------- Type coercion helpers ----------
// KuzuDB returns typed Go values (int64, float64, bool, string).
// These helpers safely coerce any -> concrete type.

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
