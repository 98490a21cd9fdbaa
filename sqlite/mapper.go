package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// scanRow reads the current row of rows and formats every column as text.
func scanRow(logger *zap.Logger, columns []string, null string, rows *sql.Rows) ([]string, error) {
	values := make([]any, len(columns))
	scanArgs := make([]any, len(columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}
	if err := rows.Scan(scanArgs...); err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	fields := make([]string, len(columns))
	for i, col := range columns {
		fields[i] = formatValue(logger, col, values[i], null)
	}
	return fields, nil
}

// formatValue converts a value returned by the driver to its text form.
// NULL becomes the null placeholder.
func formatValue(logger *zap.Logger, column string, val any, null string) string {
	switch v := val.(type) {
	case nil:
		return null
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case time.Time:
		return v.Format(time.RFC3339Nano)
	default:
		logger.Warn("Unsupported column type, using default formatting",
			zap.String("column", column),
			zap.String("type", fmt.Sprintf("%T", val)),
		)
		return fmt.Sprint(v)
	}
}

// columnNames returns the header of an import: the source header when it has
// one, generated names otherwise.
func columnNames(header []string, width int) []string {
	if len(header) > 0 {
		return header
	}
	names := make([]string, width)
	for i := range names {
		names[i] = "column_" + strconv.Itoa(i)
	}
	return names
}
