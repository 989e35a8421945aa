package scriptdb

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/aqasim81/scriptdb/ddl"
)

// Row is one result row keyed by column name.
type Row map[string]any

// Exec runs one statement.
func (d *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if err := d.check(); err != nil {
		return nil, err
	}

	d.logger.Debug("executing SQL", "sql", query, "args", args)

	res, err := d.sql.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	d.done()

	return res, nil
}

// ExecMany runs query once per argument set inside one transaction and
// returns the total number of affected rows.
func (d *DB) ExecMany(ctx context.Context, query string, argSets [][]any) (int64, error) {
	if err := d.check(); err != nil {
		return 0, err
	}

	d.logger.Debug("executing many SQL", "sql", query, "sets", len(argSets))

	n, err := d.execBatch(ctx, query, argSets)
	if err != nil {
		return 0, err
	}

	d.done()

	return n, nil
}

// ExecScript runs a multi-statement script, such as ddl builder output.
func (d *DB) ExecScript(ctx context.Context, script string) error {
	if err := d.check(); err != nil {
		return err
	}

	d.logger.Debug("executing script", "sql", script)

	if _, err := d.sql.ExecContext(ctx, script); err != nil {
		return err
	}

	d.done()

	return nil
}

// QueryMany returns every row of the result.
func (d *DB) QueryMany(ctx context.Context, query string, args ...any) ([]Row, error) {
	var out []Row

	err := d.QueryEach(ctx, func(r Row) error {
		out = append(out, r)

		return nil
	}, query, args...)
	if err != nil {
		return nil, err
	}

	return out, nil
}

// QueryEach calls fn for each row as it is read. fn must not call back into
// d: the connection stays busy until iteration ends. A non-nil error from fn
// stops iteration and is returned.
func (d *DB) QueryEach(ctx context.Context, fn func(Row) error, query string, args ...any) error {
	if err := d.check(); err != nil {
		return err
	}

	d.logger.Debug("executing SQL", "sql", query, "args", args)

	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	d.done()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	for rows.Next() {
		r, err := scanRow(rows, cols)
		if err != nil {
			return err
		}

		if err := fn(r); err != nil {
			return err
		}
	}

	return rows.Err()
}

// QueryOne returns the first row, or ErrNoRows.
func (d *DB) QueryOne(ctx context.Context, query string, args ...any) (Row, error) {
	var (
		out   Row
		found bool
	)

	err := d.QueryEach(ctx, func(r Row) error {
		if !found {
			out, found = r, true
		}

		return nil
	}, query, args...)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, ErrNoRows
	}

	return out, nil
}

// QueryScalar returns the first column of the first row, or ErrNoRows.
func (d *DB) QueryScalar(ctx context.Context, query string, args ...any) (any, error) {
	col, err := d.queryFirstColumn(ctx, 1, query, args...)
	if err != nil {
		return nil, err
	}

	if len(col) == 0 {
		return nil, ErrNoRows
	}

	return col[0], nil
}

// QueryColumn returns the first column of every row.
func (d *DB) QueryColumn(ctx context.Context, query string, args ...any) ([]any, error) {
	return d.queryFirstColumn(ctx, -1, query, args...)
}

// QueryDict returns the rows keyed by the value of column key. Later rows
// win on duplicate keys. BLOB keys are converted to strings.
func (d *DB) QueryDict(ctx context.Context, key, query string, args ...any) (map[any]Row, error) {
	out := make(map[any]Row)

	err := d.QueryEach(ctx, func(r Row) error {
		v, ok := r[key]
		if !ok {
			return fmt.Errorf("query result has no column %q", key)
		}

		out[dictKey(v)] = r

		return nil
	}, query, args...)
	if err != nil {
		return nil, err
	}

	return out, nil
}

// InsertOne inserts row into table and returns its primary key value.
func (d *DB) InsertOne(ctx context.Context, table string, row Row) (any, error) {
	if err := d.check(); err != nil {
		return nil, err
	}

	pk, err := d.primaryKey(ctx, table)
	if err != nil {
		return nil, err
	}

	cols := sortedColumns(row)
	query := insertSQL(table, cols)
	args := rowArgs(row, cols)

	if d.returning {
		var id any

		query += " RETURNING " + ddl.Quote(pk)
		d.logger.Debug("executing SQL", "sql", query, "args", args)

		if err := d.sql.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return nil, err
		}

		d.done()

		return normalize(id), nil
	}

	d.logger.Debug("executing SQL", "sql", query, "args", args)

	res, err := d.sql.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	d.done()

	return keyOf(row, pk, res)
}

// InsertMany inserts rows into table in one transaction. Columns are taken
// from the first row; missing values in later rows insert NULL.
func (d *DB) InsertMany(ctx context.Context, table string, rows []Row) (int64, error) {
	if err := d.check(); err != nil {
		return 0, err
	}

	if len(rows) == 0 {
		return 0, nil
	}

	cols := sortedColumns(rows[0])
	if len(cols) == 0 {
		return 0, ErrEmptyRow
	}

	return d.writeMany(ctx, insertSQL(table, cols), rows, cols)
}

// UpsertOne inserts row or, when its primary key already exists, updates
// the other given columns. It returns the primary key value.
func (d *DB) UpsertOne(ctx context.Context, table string, row Row) (any, error) {
	if err := d.check(); err != nil {
		return nil, err
	}

	if len(row) == 0 {
		return nil, ErrEmptyRow
	}

	pk, err := d.primaryKey(ctx, table)
	if err != nil {
		return nil, err
	}

	cols := sortedColumns(row)
	query := upsertSQL(table, pk, cols)
	args := rowArgs(row, cols)

	d.logger.Debug("executing SQL", "sql", query, "args", args)

	res, err := d.sql.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	d.done()

	return keyOf(row, pk, res)
}

// UpsertMany upserts rows in one transaction. Columns are taken from the first row.
func (d *DB) UpsertMany(ctx context.Context, table string, rows []Row) (int64, error) {
	if err := d.check(); err != nil {
		return 0, err
	}

	if len(rows) == 0 {
		return 0, nil
	}

	cols := sortedColumns(rows[0])
	if len(cols) == 0 {
		return 0, ErrEmptyRow
	}

	pk, err := d.primaryKey(ctx, table)
	if err != nil {
		return 0, err
	}

	return d.writeMany(ctx, upsertSQL(table, pk, cols), rows, cols)
}

// DeleteOne deletes the row whose primary key equals pk and returns the
// number of rows deleted (0 or 1).
func (d *DB) DeleteOne(ctx context.Context, table string, pk any) (int64, error) {
	if err := d.check(); err != nil {
		return 0, err
	}

	col, err := d.primaryKey(ctx, table)
	if err != nil {
		return 0, err
	}

	return d.affected(d.Exec(ctx, "DELETE FROM "+ddl.Quote(table)+" WHERE "+ddl.Quote(col)+" = ?", pk))
}

// DeleteMany deletes rows matching where, a SQL condition with placeholders
// bound from args, and returns the number deleted.
func (d *DB) DeleteMany(ctx context.Context, table, where string, args ...any) (int64, error) {
	return d.affected(d.Exec(ctx, "DELETE FROM "+ddl.Quote(table)+" WHERE "+where, args...))
}

func (d *DB) affected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (d *DB) writeMany(ctx context.Context, query string, rows []Row, cols []string) (int64, error) {
	argSets := make([][]any, len(rows))
	for i, r := range rows {
		argSets[i] = rowArgs(r, cols)
	}

	return d.ExecMany(ctx, query, argSets)
}

func (d *DB) execBatch(ctx context.Context, query string, argSets [][]any) (int64, error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}

	defer tx.Rollback() //nolint:errcheck // rollback on committed tx returns sql.ErrTxDone

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	var total int64

	for _, args := range argSets {
		res, err := stmt.ExecContext(ctx, args...)
		if err != nil {
			return 0, err
		}

		if n, err := res.RowsAffected(); err == nil {
			total += n
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}

	return total, nil
}

func (d *DB) queryFirstColumn(ctx context.Context, limit int, query string, args ...any) ([]any, error) {
	if err := d.check(); err != nil {
		return nil, err
	}

	d.logger.Debug("executing SQL", "sql", query, "args", args)

	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	d.done()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	if len(cols) == 0 {
		return nil, fmt.Errorf("query returned no columns")
	}

	out := []any{}

	for rows.Next() && (limit < 0 || len(out) < limit) {
		r, err := scanRow(rows, cols)
		if err != nil {
			return nil, err
		}

		out = append(out, r[cols[0]])
	}

	return out, rows.Err()
}

// primaryKey returns the first primary key column of table, from cache
// after the first lookup.
func (d *DB) primaryKey(ctx context.Context, table string) (string, error) {
	d.pkMu.Lock()
	pk, ok := d.pkCache[table]
	d.pkMu.Unlock()

	if ok {
		return pk, nil
	}

	rows, err := d.sql.QueryContext(ctx, "PRAGMA table_info("+ddl.Quote(table)+")")
	if err != nil {
		return "", fmt.Errorf("reading table info for %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return "", err
	}

	for rows.Next() {
		r, err := scanRow(rows, cols)
		if err != nil {
			return "", err
		}

		if n, _ := r["pk"].(int64); n == 1 {
			pk, _ = r["name"].(string)
		}
	}

	if err := rows.Err(); err != nil {
		return "", err
	}

	if pk == "" {
		return "", fmt.Errorf("%w: %s", ErrNoPrimaryKey, table)
	}

	d.pkMu.Lock()
	d.pkCache[table] = pk
	d.pkMu.Unlock()

	return pk, nil
}

func scanRow(rows *sql.Rows, cols []string) (Row, error) {
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))

	for i := range vals {
		ptrs[i] = &vals[i]
	}

	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	r := make(Row, len(cols))
	for i, c := range cols {
		r[c] = normalize(vals[i])
	}

	return r, nil
}

// normalize widens driver integers to int64.
func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int32:
		return int64(x)
	default:
		return v
	}
}

// dictKey makes a value usable as a map key.
func dictKey(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}

	return v
}

func keyOf(row Row, pk string, res sql.Result) (any, error) {
	if v, ok := row[pk]; ok && v != nil {
		return v, nil
	}

	return res.LastInsertId()
}

func sortedColumns(row Row) []string {
	cols := make([]string, 0, len(row))
	for c := range row {
		cols = append(cols, c)
	}

	slices.Sort(cols)

	return cols
}

func rowArgs(row Row, cols []string) []any {
	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = row[c]
	}

	return args
}

func quotedColumns(cols []string) string {
	q := make([]string, len(cols))
	for i, c := range cols {
		q[i] = ddl.Quote(c)
	}

	return strings.Join(q, ", ")
}

func insertSQL(table string, cols []string) string {
	if len(cols) == 0 {
		return "INSERT INTO " + ddl.Quote(table) + " DEFAULT VALUES"
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")

	return "INSERT INTO " + ddl.Quote(table) + " (" + quotedColumns(cols) + ") VALUES (" + placeholders + ")"
}

func upsertSQL(table, pk string, cols []string) string {
	var sets []string

	for _, c := range cols {
		if c != pk {
			sets = append(sets, ddl.Quote(c)+" = excluded."+ddl.Quote(c))
		}
	}

	q := insertSQL(table, cols) + " ON CONFLICT(" + ddl.Quote(pk) + ") "
	if len(sets) == 0 {
		return q + "DO NOTHING"
	}

	return q + "DO UPDATE SET " + strings.Join(sets, ", ")
}
