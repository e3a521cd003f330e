package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rutdashboard/rut-dashboard-api/src/models"
)

// Querier is the subset of pgxpool.Pool used by the repositories
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// orderClause maps an API sort field onto an allow-listed column.
// Unknown fields fall back to created_at.
func orderClause(columns map[string]string, opts models.PaginationOptions) string {
	column, ok := columns[opts.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if opts.SortOrder == models.SortAsc {
		direction = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s, id %s", column, direction, direction)
}

// setBuilder accumulates the SET clauses of a partial UPDATE
type setBuilder struct {
	clauses []string
	args    []any
}

func (b *setBuilder) add(column string, value any) {
	b.args = append(b.args, value)
	b.clauses = append(b.clauses, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// sql renders "UPDATE table SET ... , updated_at = NOW() WHERE id = $n RETURNING cols"
func (b *setBuilder) sql(table, returning string, id any) (string, []any) {
	b.args = append(b.args, id)
	clauses := append(b.clauses, "updated_at = NOW()")
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		table, strings.Join(clauses, ", "), len(b.args), returning), b.args
}

// likePattern escapes LIKE metacharacters so query matches as a literal substring
func likePattern(query string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(query)
	return "%" + escaped + "%"
}
