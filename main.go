package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/asaidimu/go-tabula/core/query"
	"github.com/asaidimu/go-tabula/core/source"
	"github.com/asaidimu/go-tabula/sqlite"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"go.uber.org/zap"
)

const (
	dbFileName = "users.db"
	usersCSV   = `name,email,age,is_active
Alice Smith,alice@example.com,30,1
Alice Smith,alice2@example.com,27,1
Alex Smith,alice3@example.com,28,0
Bob Jones,bob@example.com,45,1
`
)

// User is the decoded form of a users row.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age,string"`
}

func main() {
	// Remove the database file if it already exists to start fresh
	if err := os.Remove(dbFileName); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing database file %s: %v", dbFileName, err)
	}
	fmt.Printf("Starting fresh: removed existing %s (if any).\n", dbFileName)

	db, err := sql.Open("sqlite3", dbFileName)
	if err != nil {
		log.Fatalf("Failed to open database connection: %v", err)
	}
	defer func() {
		if cErr := db.Close(); cErr != nil {
			log.Printf("Error closing database connection: %v", cErr)
		}
		fmt.Println("Database connection closed.")
	}()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	// Load the users table from CSV
	csv, err := source.NewCSVFromString(usersCSV, source.CSVOptions{Delimiter: ',', HeaderOffset: 0})
	if err != nil {
		log.Fatalf("Failed to parse users CSV: %v", err)
	}
	n, err := sqlite.Import(context.Background(), db, "users", csv, nil, logger)
	if err != nil {
		log.Fatalf("Failed to import users: %v", err)
	}
	fmt.Printf("Imported %d users.\n", n)

	users := sqlite.NewTableSource(db, "users", nil, logger)

	// Active users, oldest first
	qb := query.NewQueryBuilder().
		WithLogger(logger).
		WhereColumn(query.Name("is_active")).Eq(1).
		OrderByDesc(query.Name("age"))
	fmt.Printf("Query: %s\n", qb)

	rs := qb.Process(users)
	count, err := rs.Count()
	if err != nil {
		log.Fatalf("Failed to count users: %v", err)
	}
	fmt.Printf("Found %d active users.\n", count)

	out, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		log.Fatalf("Failed to serialize users: %v", err)
	}
	fmt.Printf("Active users by offset:\n%s\n", out)

	emails, err := rs.FetchPairs(query.Name("email"), query.Name("name"))
	if err != nil {
		log.Fatalf("Failed to fetch emails: %v", err)
	}
	for pair, err := range emails {
		if err != nil {
			log.Fatalf("Failed to read emails: %v", err)
		}
		fmt.Printf("  %s -> %s\n", pair.Key, *pair.Value)
	}

	// Second page of everyone, decoded into structs
	page, err := query.NewQueryBuilder().OrderByAsc(query.Name("age")).Limit(2)
	if err != nil {
		log.Fatalf("Failed to build query: %v", err)
	}
	if _, err := page.Offset(2); err != nil {
		log.Fatalf("Failed to build query: %v", err)
	}
	decoded, err := query.Decode[User](page.Process(users))
	if err != nil {
		log.Fatalf("Failed to decode users: %v", err)
	}
	for _, u := range decoded {
		fmt.Printf("  %+v\n", u)
	}
}
