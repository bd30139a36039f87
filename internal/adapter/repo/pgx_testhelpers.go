package repo

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/derekgallardo01/music-genie/internal/domain"
)

// fakeDB implements db.DBTX for tests.
type fakeDB struct {
	execFn     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	queryFn    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	queryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if f.execFn == nil {
		return pgconn.CommandTag{}, fmt.Errorf("unexpected Exec: %s", sql)
	}
	return f.execFn(ctx, sql, args...)
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if f.queryFn == nil {
		return nil, fmt.Errorf("unexpected Query: %s", sql)
	}
	return f.queryFn(ctx, sql, args...)
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if f.queryRowFn == nil {
		return fakeRow{scan: func(...any) error { return fmt.Errorf("unexpected QueryRow: %s", sql) }}
	}
	return f.queryRowFn(ctx, sql, args...)
}

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

// testRows serves pre-built rows through the pgx.Rows interface.
type testRows struct {
	rows [][]any
	idx  int
	err  error
}

func (r *testRows) Close()                                       {}
func (r *testRows) Err() error                                   { return r.err }
func (r *testRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *testRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *testRows) Conn() *pgx.Conn                              { return nil }
func (r *testRows) RawValues() [][]byte                          { return nil }

func (r *testRows) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (r *testRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *testRows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.rows) {
		return pgx.ErrNoRows
	}
	return scanInto(r.rows[r.idx-1], dest...)
}

func scanInto(row []any, dest ...any) error {
	if len(dest) != len(row) {
		return fmt.Errorf("unexpected scan args: got %d, want %d", len(dest), len(row))
	}
	for i, src := range row {
		dv := reflect.ValueOf(dest[i]).Elem()
		if src == nil {
			dv.Set(reflect.Zero(dv.Type()))
			continue
		}
		sv := reflect.ValueOf(src)
		if !sv.Type().AssignableTo(dv.Type()) {
			if !sv.Type().ConvertibleTo(dv.Type()) {
				return fmt.Errorf("cannot scan %T into %T", src, dest[i])
			}
			sv = sv.Convert(dv.Type())
		}
		dv.Set(sv)
	}
	return nil
}

// generationRow lays out a record in the column order of the SELECT queries.
func generationRow(rec domain.GenerationRecord) []any {
	return []any{
		rec.ID,
		rec.GenerationID,
		rec.Prompt,
		rec.Status,
		rec.Device,
		rec.Precision,
		rec.GenerationTime,
		rec.RealtimeFactor,
		rec.FilePath,
		rec.AudioURL,
		rec.FileSizeMB,
		rec.Duration,
		rec.SampleRate,
		rec.PlayCount,
		rec.DownloadCount,
		rec.IsFavorited,
		rec.LastPlayed,
		rec.CreatedAt,
		rec.UpdatedAt,
		rec.UserID,
		rec.ErrorMessage,
		rec.ModelVersion,
	}
}
