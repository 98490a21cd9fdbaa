// Command tabula runs queries over CSV files and SQLite tables.
//
//	tabula --source people.csv --header-offset 0 --where 'age>=18' --order-by last --limit 10
//	tabula --database app.db --table users --column email -o yaml
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/asaidimu/go-tabula/core/query"
	"github.com/asaidimu/go-tabula/core/source"
	"github.com/asaidimu/go-tabula/sqlite"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tabula",
		Short:         "Query tabular records from CSV files and SQLite tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.Verbose)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			return run(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
		},
	}
	registerFlags(cmd.Flags())
	return cmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// openSource opens the CSV file or SQLite table named by cfg. The returned
// closer releases the database, if any.
func openSource(ctx context.Context, cfg *Config, stdin io.Reader, logger *zap.Logger) (source.Source, func() error, error) {
	noop := func() error { return nil }

	if cfg.Database != "" {
		db, err := sql.Open("sqlite3", cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		logger.Info("Opened database", zap.String("path", cfg.Database), zap.String("table", cfg.Table))
		return sqlite.NewTableSource(db, cfg.Table, nil, logger).WithContext(ctx), db.Close, nil
	}

	options := source.DefaultCSVOptions()
	options.Delimiter = []rune(cfg.Delimiter)[0]
	options.HeaderOffset = cfg.HeaderOffset

	if cfg.Source == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		src, err := source.NewCSV(data, options)
		return src, noop, err
	}
	src, err := source.NewCSVFromFile(cfg.Source, options)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Opened CSV file", zap.String("path", cfg.Source), zap.Int("header_offset", cfg.HeaderOffset))
	return src, noop, nil
}

// run executes one query described by cfg and writes the result to out.
func run(ctx context.Context, cfg *Config, stdin io.Reader, out io.Writer, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	qb, err := buildQuery(cfg)
	if err != nil {
		return err
	}
	qb.WithLogger(logger)
	logger.Info("Running query", zap.Stringer("query", qb))

	src, closeSource, err := openSource(ctx, cfg, stdin, logger)
	if err != nil {
		return err
	}
	defer closeSource() //nolint:errcheck

	rs := qb.Process(src, cfg.Header...).PreserveRecordOffset(cfg.PreserveOffsets)

	switch {
	case cfg.Count:
		n, err := rs.Count()
		if err != nil {
			return err
		}
		return encode(out, cfg.Output, n)
	case cfg.Column != "":
		values, err := rs.FetchColumn(query.ParseColumn(cfg.Column))
		if err != nil {
			return err
		}
		return writeColumn(out, cfg.Output, values)
	case cfg.Pairs != "":
		key, value, err := parsePairs(cfg.Pairs)
		if err != nil {
			return err
		}
		pairs, err := rs.FetchPairs(key, value)
		if err != nil {
			return err
		}
		return writePairs(out, cfg.Output, pairs)
	default:
		return writeRecords(out, cfg.Output, rs)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tabula:", err)
		os.Exit(1)
	}
}
