// Package sqlite reads and writes record sources backed by SQLite tables.
// A TableSource presents a table as rows of text fields, so the query
// package can run over it like any other source.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"iter"

	"github.com/asaidimu/go-tabula/core/source"
	"go.uber.org/zap"
)

// Options configure how a table is read or created.
type Options struct {
	TablePrefix string   // Prepended to every table name.
	Columns     []string // Columns to read. All columns when empty.
	OrderBy     string   // Column defining the row order. rowid when empty.
	Null        string   // Text used for NULL values.
	NoHeader    bool     // Do not report column names as the header.
	IfNotExists bool     // Create tables with IF NOT EXISTS on import.
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() *Options {
	return &Options{
		IfNotExists: true, // Prevent errors if a table already exists.
	}
}

// TableSource is a source.Source over one SQLite table. Each pass runs a new
// SELECT and holds its *sql.Rows only until the pass ends.
type TableSource struct {
	db      *sql.DB
	table   string
	ctx     context.Context
	options *Options
	logger  *zap.Logger
}

// Ensure TableSource implements the source.Source interface.
var _ source.Source = (*TableSource)(nil)

// NewTableSource creates a TableSource reading table from db.
func NewTableSource(db *sql.DB, table string, options *Options, logger *zap.Logger) *TableSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	if options == nil {
		options = DefaultOptions()
	}
	return &TableSource{
		db:      db,
		table:   table,
		ctx:     context.Background(),
		options: options,
		logger:  logger,
	}
}

// WithContext returns a copy of the source whose queries run with ctx.
func (s *TableSource) WithContext(ctx context.Context) *TableSource {
	c := *s
	c.ctx = ctx
	return &c
}

// tableName applies the configured prefix to the table name.
func (s *TableSource) tableName() string {
	return s.options.TablePrefix + s.table
}

// Rows implements source.Source. Offsets count rows in query order from 0.
func (s *TableSource) Rows() iter.Seq2[source.Row, error] {
	return func(yield func(source.Row, error) bool) {
		sqlQuery := selectSQL(s.tableName(), s.options.Columns, s.options.OrderBy)
		s.logger.Debug("Executing SQL SELECT", zap.String("sql", sqlQuery))

		rows, err := s.db.QueryContext(s.ctx, sqlQuery)
		if err != nil {
			s.logger.Error("Failed to execute SELECT query", zap.Error(err), zap.String("sql", sqlQuery))
			yield(source.Row{}, fmt.Errorf("sqlite source: failed to execute SELECT query: %w", err))
			return
		}
		defer rows.Close()

		columns, err := rows.Columns()
		if err != nil {
			yield(source.Row{}, fmt.Errorf("sqlite source: failed to get columns: %w", err))
			return
		}

		offset := 0
		for rows.Next() {
			fields, err := scanRow(s.logger, columns, s.options.Null, rows)
			if err != nil {
				yield(source.Row{}, fmt.Errorf("sqlite source: %w", err))
				return
			}
			if !yield(source.Row{Offset: offset, Fields: fields}, nil) {
				return
			}
			offset++
		}
		if err := rows.Err(); err != nil {
			yield(source.Row{}, fmt.Errorf("sqlite source: error after scanning rows: %w", err))
		}
	}
}

// Header implements source.Source. It returns the selected column names
// unless NoHeader is set.
func (s *TableSource) Header() ([]string, error) {
	if s.options.NoHeader {
		return []string{}, nil
	}
	sqlQuery := headerSQL(s.tableName(), s.options.Columns)
	s.logger.Debug("Reading table columns", zap.String("sql", sqlQuery))

	rows, err := s.db.QueryContext(s.ctx, sqlQuery)
	if err != nil {
		return nil, fmt.Errorf("sqlite source: failed to read columns of %s: %w", quoteIdentifier(s.tableName()), err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlite source: failed to get columns: %w", err)
	}
	return columns, nil
}

// Import copies every row of src into table, creating it with one TEXT
// column per header name (or column_0, column_1, ... without a header).
// Missing fields are stored as NULL; fields past the last column are
// dropped. The copy runs in a single transaction and reports the number of
// rows written.
func Import(ctx context.Context, db *sql.DB, table string, src source.Source, options *Options, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if options == nil {
		options = DefaultOptions()
	}
	table = options.TablePrefix + table

	header, err := src.Header()
	if err != nil {
		return 0, fmt.Errorf("failed to read source header: %w", err)
	}
	width := len(header)
	if width == 0 {
		for row, err := range src.Rows() {
			if err != nil {
				return 0, fmt.Errorf("failed to read source: %w", err)
			}
			width = max(width, len(row.Fields))
		}
	}
	columns := columnNames(header, width)

	ddl, err := createTableSQL(table, columns, options.IfNotExists)
	if err != nil {
		return 0, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("Failed to roll back import", zap.Error(rbErr))
			}
		}
	}()

	logger.Debug("Executing SQL DDL", zap.String("sql", ddl))
	if _, err = tx.ExecContext(ctx, ddl); err != nil {
		return 0, fmt.Errorf("failed to create table %s: %w", quoteIdentifier(table), err)
	}

	insert := insertSQL(table, columns)
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare INSERT: %w", err)
	}
	defer stmt.Close()

	n := 0
	args := make([]any, len(columns))
	for row, readErr := range src.Rows() {
		if readErr != nil {
			err = fmt.Errorf("failed to read source: %w", readErr)
			return 0, err
		}
		if len(row.Fields) > len(columns) {
			logger.Warn("Dropping fields past the last column",
				zap.Int("offset", row.Offset),
				zap.Int("fields", len(row.Fields)),
				zap.Int("columns", len(columns)),
			)
		}
		for i := range args {
			if i < len(row.Fields) {
				args[i] = row.Fields[i]
			} else {
				args[i] = nil
			}
		}
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("failed to insert row %d: %w", row.Offset, err)
		}
		n++
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	logger.Info("Imported rows", zap.String("table", table), zap.Int("rows", n))
	return n, nil
}
