package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rutdashboard/rut-dashboard-api/src/models"
)

const rutResultColumns = "id, rut, created_by, data, created_at, updated_at"

var rutResultSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"rut":       "rut",
}

// PostgresRutResultRepository stores RUT lookup results in rut_process_results
type PostgresRutResultRepository struct {
	db Querier
}

// NewRutResultRepository creates a PostgreSQL-backed result repository
func NewRutResultRepository(db Querier) *PostgresRutResultRepository {
	return &PostgresRutResultRepository{db: db}
}

// jsonArg encodes a payload for a jsonb parameter; an empty payload is NULL
func jsonArg(data json.RawMessage) any {
	if len(data) == 0 {
		return nil
	}
	return string(data)
}

func scanRutResult(row pgx.Row) (*models.RutResult, error) {
	result := &models.RutResult{}
	var data []byte
	if err := row.Scan(&result.ID, &result.Rut, &result.CreatedBy, &data, &result.CreatedAt, &result.UpdatedAt); err != nil {
		return nil, err
	}
	if data != nil {
		result.Data = json.RawMessage(data)
	}
	return result, nil
}

func collectRutResults(rows pgx.Rows) ([]models.RutResult, error) {
	defer rows.Close()

	var results []models.RutResult
	for rows.Next() {
		result, err := scanRutResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rut result: %w", err)
		}
		results = append(results, *result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rut results: %w", err)
	}
	return results, nil
}

// Create inserts result and fills its timestamps. A zero ID is replaced by a new UUID.
func (r *PostgresRutResultRepository) Create(ctx context.Context, result *models.RutResult) error {
	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}

	query := `
		INSERT INTO rut_process_results (id, rut, created_by, data)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, result.ID, result.Rut, result.CreatedBy, jsonArg(result.Data)).
		Scan(&result.CreatedAt, &result.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert rut result: %w", err)
	}
	return nil
}

func (r *PostgresRutResultRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.RutResult, error) {
	result, err := scanRutResult(r.db.QueryRow(ctx,
		"SELECT "+rutResultColumns+" FROM rut_process_results WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rut result: %w", err)
	}
	return result, nil
}

// listPage runs a filtered, counted and paginated listing
func (r *PostgresRutResultRepository) listPage(ctx context.Context, where string, args []any, opts models.PaginationOptions) ([]models.RutResult, int64, error) {
	opts = opts.Normalize()

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM rut_process_results "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count rut results: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM rut_process_results %s %s LIMIT $%d OFFSET $%d",
		rutResultColumns, where, orderClause(rutResultSortColumns, opts), len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, query, append(args, opts.Limit, opts.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list rut results: %w", err)
	}
	results, err := collectRutResults(rows)
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *PostgresRutResultRepository) List(ctx context.Context, opts models.PaginationOptions) ([]models.RutResult, int64, error) {
	return r.listPage(ctx, "", nil, opts)
}

// ListByRUT returns every result stored for rut, newest first
func (r *PostgresRutResultRepository) ListByRUT(ctx context.Context, rut string) ([]models.RutResult, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+rutResultColumns+" FROM rut_process_results WHERE rut = $1 ORDER BY created_at DESC, id DESC", rut)
	if err != nil {
		return nil, fmt.Errorf("failed to list rut results by rut: %w", err)
	}
	return collectRutResults(rows)
}

func (r *PostgresRutResultRepository) ListByCreator(ctx context.Context, creator uuid.UUID, opts models.PaginationOptions) ([]models.RutResult, int64, error) {
	return r.listPage(ctx, "WHERE created_by = $1", []any{creator}, opts)
}

func (r *PostgresRutResultRepository) ListByRUTAndCreator(ctx context.Context, rut string, creator uuid.UUID) ([]models.RutResult, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+rutResultColumns+" FROM rut_process_results WHERE rut = $1 AND created_by = $2 ORDER BY created_at DESC, id DESC",
		rut, creator)
	if err != nil {
		return nil, fmt.Errorf("failed to list rut results by rut and creator: %w", err)
	}
	return collectRutResults(rows)
}

// Search matches query as a case-insensitive substring of rut
func (r *PostgresRutResultRepository) Search(ctx context.Context, query string, creator *uuid.UUID, opts models.PaginationOptions) ([]models.RutResult, int64, error) {
	where := "WHERE rut ILIKE $1"
	args := []any{likePattern(query)}
	if creator != nil {
		where += " AND created_by = $2"
		args = append(args, *creator)
	}
	return r.listPage(ctx, where, args, opts)
}

// Update applies the non-nil fields of update and returns the stored result
func (r *PostgresRutResultRepository) Update(ctx context.Context, id uuid.UUID, update models.RutResultUpdate) (*models.RutResult, error) {
	if update.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	b := &setBuilder{}
	if update.Rut != nil {
		b.add("rut", *update.Rut)
	}
	if update.Data != nil {
		b.add("data", jsonArg(update.Data))
	}

	query, args := b.sql("rut_process_results", rutResultColumns, id)
	result, err := scanRutResult(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update rut result: %w", err)
	}
	return result, nil
}

func (r *PostgresRutResultRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM rut_process_results WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete rut result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRutResultRepository) CountByCreator(ctx context.Context, creator uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM rut_process_results WHERE created_by = $1", creator).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rut results: %w", err)
	}
	return count, nil
}

var _ RutResultRepository = (*PostgresRutResultRepository)(nil)
