package sqlite

import (
	"fmt"
	"strings"
)

// quoteIdentifier properly quotes an identifier for SQLite.
func quoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// quoteIdentifiers quotes every identifier and joins them into a column list.
func quoteIdentifiers(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = quoteIdentifier(name)
	}
	return strings.Join(quoted, ", ")
}

// selectSQL builds the statement a TableSource runs for each pass. Rows come
// back in rowid order unless orderBy names a column.
func selectSQL(table string, columns []string, orderBy string) string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(columns) == 0 {
		sb.WriteString("*")
	} else {
		sb.WriteString(quoteIdentifiers(columns))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(quoteIdentifier(table))
	sb.WriteString(" ORDER BY ")
	if orderBy == "" {
		sb.WriteString("rowid")
	} else {
		sb.WriteString(quoteIdentifier(orderBy))
	}
	return sb.String()
}

// headerSQL selects no rows; it only exposes the result column names.
func headerSQL(table string, columns []string) string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(columns) == 0 {
		sb.WriteString("*")
	} else {
		sb.WriteString(quoteIdentifiers(columns))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(quoteIdentifier(table))
	sb.WriteString(" LIMIT 0")
	return sb.String()
}

// createTableSQL generates the DDL for a table of TEXT columns.
func createTableSQL(table string, columns []string, ifNotExists bool) (string, error) {
	if len(columns) == 0 {
		return "", fmt.Errorf("table %s needs at least one column", quoteIdentifier(table))
	}
	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	if ifNotExists {
		sb.WriteString("IF NOT EXISTS ")
	}
	sb.WriteString(quoteIdentifier(table))
	sb.WriteString(" (\n")
	for i, col := range columns {
		if i > 0 {
			sb.WriteString(",\n")
		}
		sb.WriteString("    ")
		sb.WriteString(quoteIdentifier(col))
		sb.WriteString(" TEXT")
	}
	sb.WriteString("\n);")
	return sb.String(), nil
}

// insertSQL generates a single-row INSERT with one placeholder per column.
func insertSQL(table string, columns []string) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);", quoteIdentifier(table), quoteIdentifiers(columns), placeholders)
}
