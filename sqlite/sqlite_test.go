package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/asaidimu/go-tabula/core/query"
	"github.com/asaidimu/go-tabula/core/source"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedPeople(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`
		CREATE TABLE people (first TEXT, last TEXT, age INTEGER, score REAL);
		INSERT INTO people VALUES ('john', 'doe', 9, 1.5);
		INSERT INTO people VALUES ('jane', 'doe', 41, NULL);
		INSERT INTO people VALUES ('lara', 'croft', 28, 3);
	`)
	require.NoError(t, err)
}

func collectRows(t *testing.T, src source.Source) []source.Row {
	t.Helper()
	var rows []source.Row
	for row, err := range src.Rows() {
		require.NoError(t, err)
		rows = append(rows, row)
	}
	return rows
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"people"`, quoteIdentifier("people"))
	assert.Equal(t, `"we""ird"`, quoteIdentifier(`we"ird`))
}

func TestSQLGeneration(t *testing.T) {
	assert.Equal(t, `SELECT * FROM "t" ORDER BY rowid`, selectSQL("t", nil, ""))
	assert.Equal(t, `SELECT "a", "b" FROM "t" ORDER BY "b"`, selectSQL("t", []string{"a", "b"}, "b"))
	assert.Equal(t, `SELECT * FROM "t" LIMIT 0`, headerSQL("t", nil))
	assert.Equal(t, `INSERT INTO "t" ("a", "b") VALUES (?, ?);`, insertSQL("t", []string{"a", "b"}))

	ddl, err := createTableSQL("t", []string{"a", "b"}, true)
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS \"t\" (\n    \"a\" TEXT,\n    \"b\" TEXT\n);", ddl)

	_, err = createTableSQL("t", nil, false)
	assert.Error(t, err)
}

func TestFormatValue(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger := zap.New(core)

	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"nil", nil, "NULL"},
		{"string", "x", "x"},
		{"bytes", []byte("raw"), "raw"},
		{"integer", int64(-42), "-42"},
		{"float", 2.5, "2.5"},
		{"whole float", float64(3), "3"},
		{"true", true, "1"},
		{"false", false, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatValue(logger, "c", tt.value, "NULL"))
		})
	}
	assert.Equal(t, 0, logs.Len())

	assert.Equal(t, "7", formatValue(logger, "c", int32(7), ""))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "int32", logs.All()[0].ContextMap()["type"])
}

func TestTableSource_Rows(t *testing.T) {
	db := openDB(t)
	seedPeople(t, db)

	src := NewTableSource(db, "people", nil, nil)
	rows := collectRows(t, src)
	assert.Equal(t, []source.Row{
		{Offset: 0, Fields: []string{"john", "doe", "9", "1.5"}},
		{Offset: 1, Fields: []string{"jane", "doe", "41", ""}},
		{Offset: 2, Fields: []string{"lara", "croft", "28", "3"}},
	}, rows)

	// every pass starts again from the first row
	assert.Equal(t, rows, collectRows(t, src))

	header, err := src.Header()
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "last", "age", "score"}, header)
}

func TestTableSource_Options(t *testing.T) {
	db := openDB(t)
	seedPeople(t, db)

	src := NewTableSource(db, "people", &Options{Columns: []string{"age", "first"}, OrderBy: "age"}, nil)
	assert.Equal(t, []source.Row{
		{Offset: 0, Fields: []string{"9", "john"}},
		{Offset: 1, Fields: []string{"28", "lara"}},
		{Offset: 2, Fields: []string{"41", "jane"}},
	}, collectRows(t, src))

	header, err := src.Header()
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "first"}, header)

	noHeader := NewTableSource(db, "people", &Options{NoHeader: true}, nil)
	header, err = noHeader.Header()
	require.NoError(t, err)
	assert.Equal(t, []string{}, header)

	prefixed := NewTableSource(db, "ple", &Options{TablePrefix: "peo"}, nil)
	assert.Len(t, collectRows(t, prefixed), 3)
}

func TestTableSource_EarlyStop(t *testing.T) {
	db := openDB(t)
	seedPeople(t, db)
	db.SetMaxOpenConns(1)

	src := NewTableSource(db, "people", nil, nil)
	for range src.Rows() {
		break
	}
	// the connection was released, so the next query does not block
	assert.Len(t, collectRows(t, src), 3)
}

func TestTableSource_Errors(t *testing.T) {
	db := openDB(t)
	src := NewTableSource(db, "missing", nil, nil)

	var got error
	for _, err := range src.Rows() {
		got = err
	}
	assert.ErrorContains(t, got, "sqlite source")

	_, err := src.Header()
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	seedPeople(t, db)
	for _, err := range NewTableSource(db, "people", nil, nil).WithContext(ctx).Rows() {
		got = err
	}
	assert.ErrorIs(t, got, context.Canceled)
}

func TestTableSource_Query(t *testing.T) {
	db := openDB(t)
	seedPeople(t, db)

	qb, err := query.NewQueryBuilder().
		WhereColumn(query.Name("last")).Eq("doe").
		OrderByDesc(query.Name("age")).
		Limit(1)
	require.NoError(t, err)

	rs := qb.Process(NewTableSource(db, "people", &Options{Null: "n/a"}, nil))
	rs.PreserveRecordOffset(false)

	b, err := json.Marshal(rs)
	require.NoError(t, err)
	assert.Equal(t, `[{"first":"jane","last":"doe","age":"41","score":"n/a"}]`, string(b))
}

func TestImport(t *testing.T) {
	db := openDB(t)
	csv, err := source.NewCSVFromString("name,email\njohn,john@example.com\njane\nlara,lara@example.com,extra\n",
		source.CSVOptions{Delimiter: ',', HeaderOffset: 0})
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	n, err := Import(context.Background(), db, "contacts", csv, nil, zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 1, logs.FilterMessage("Dropping fields past the last column").Len())

	var nulls int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM contacts WHERE email IS NULL`).Scan(&nulls))
	assert.Equal(t, 1, nulls)

	src := NewTableSource(db, "contacts", nil, nil)
	header, err := src.Header()
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "email"}, header)
	assert.Equal(t, []string{"lara", "lara@example.com"}, collectRows(t, src)[2].Fields)
}

func TestImport_WithoutHeader(t *testing.T) {
	db := openDB(t)
	mem := source.NewMemory([][]string{{"a"}, {"b", "c", "d"}})

	n, err := Import(context.Background(), db, "raw", mem, &Options{TablePrefix: "t_"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	src := NewTableSource(db, "raw", &Options{TablePrefix: "t_"}, nil)
	header, err := src.Header()
	require.NoError(t, err)
	assert.Equal(t, []string{"column_0", "column_1", "column_2"}, header)
	assert.Equal(t, []string{"a", "", ""}, collectRows(t, src)[0].Fields)
}

func TestImport_RollsBack(t *testing.T) {
	db := openDB(t)
	mem, err := source.NewMemory([][]string{{"x", "x"}, {"1", "2"}}).SetHeaderOffset(0)
	require.NoError(t, err)

	_, err = Import(context.Background(), db, "dup", mem, nil, nil)
	assert.Error(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE name = 'dup'`).Scan(&count))
	assert.Equal(t, 0, count)
}
