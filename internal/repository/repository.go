// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch dashboard data,
// abstracting SQL logic away from the service layer. Repositories never
// format values for display and never swallow errors; they return
// driver errors as-is so the service layer can log and replace them.
package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
)

// DBTX is the part of a pgx pool (or a single connection or transaction)
// the repositories need. *pgxpool.Pool satisfies it.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns free text into an ILIKE pattern matching it as a
// literal substring. LIKE metacharacters in the text are escaped using
// PostgreSQL's default escape character. The empty string yields "%%",
// which matches every row.
func ContainsPattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}
