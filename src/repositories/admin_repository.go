package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rutdashboard/rut-dashboard-api/src/models"
)

const adminColumns = "id, name, email, password_hash, role, is_active, last_login, created_at, updated_at"

var adminSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"lastLogin": "last_login",
	"name":      "name",
	"email":     "email",
	"role":      "role",
	"isActive":  "is_active",
}

// PostgresAdminRepository stores administrators in the admins table
type PostgresAdminRepository struct {
	db Querier
}

// NewAdminRepository creates a PostgreSQL-backed admin repository
func NewAdminRepository(db Querier) *PostgresAdminRepository {
	return &PostgresAdminRepository{db: db}
}

func scanAdmin(row pgx.Row) (*models.Admin, error) {
	admin := &models.Admin{}
	var role string
	err := row.Scan(
		&admin.ID, &admin.Name, &admin.Email, &admin.PasswordHash, &role,
		&admin.IsActive, &admin.LastLogin, &admin.CreatedAt, &admin.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	admin.Role = models.Role(role)
	return admin, nil
}

func collectAdmins(rows pgx.Rows) ([]models.Admin, error) {
	defer rows.Close()

	var admins []models.Admin
	for rows.Next() {
		admin, err := scanAdmin(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan admin: %w", err)
		}
		admins = append(admins, *admin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate admins: %w", err)
	}
	return admins, nil
}

// Create inserts admin and fills its timestamps. A zero ID is replaced by a new UUID.
func (r *PostgresAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}

	query := `
		INSERT INTO admins (id, name, email, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		admin.ID, admin.Name, admin.Email, admin.PasswordHash, string(admin.Role), admin.IsActive,
	).Scan(&admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert admin: %w", err)
	}
	return nil
}

func (r *PostgresAdminRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	admin, err := scanAdmin(r.db.QueryRow(ctx, "SELECT "+adminColumns+" FROM admins WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return admin, nil
}

// GetByEmail matches case-insensitively
func (r *PostgresAdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	admin, err := scanAdmin(r.db.QueryRow(ctx, "SELECT "+adminColumns+" FROM admins WHERE lower(email) = lower($1)", email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}
	return admin, nil
}

func (r *PostgresAdminRepository) List(ctx context.Context, opts models.PaginationOptions) ([]models.Admin, int64, error) {
	opts = opts.Normalize()

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM admins").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count admins: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM admins %s LIMIT $1 OFFSET $2",
		adminColumns, orderClause(adminSortColumns, opts))
	rows, err := r.db.Query(ctx, query, opts.Limit, opts.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list admins: %w", err)
	}
	admins, err := collectAdmins(rows)
	if err != nil {
		return nil, 0, err
	}
	return admins, total, nil
}

// ListActive returns every active administrator, newest first
func (r *PostgresAdminRepository) ListActive(ctx context.Context) ([]models.Admin, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+adminColumns+" FROM admins WHERE is_active = true ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list active admins: %w", err)
	}
	return collectAdmins(rows)
}

// Update applies the non-nil fields of update and returns the stored admin
func (r *PostgresAdminRepository) Update(ctx context.Context, id uuid.UUID, update models.AdminUpdate) (*models.Admin, error) {
	if update.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	b := &setBuilder{}
	if update.Name != nil {
		b.add("name", *update.Name)
	}
	if update.Email != nil {
		b.add("email", *update.Email)
	}
	if update.PasswordHash != nil {
		b.add("password_hash", *update.PasswordHash)
	}
	if update.Role != nil {
		b.add("role", string(*update.Role))
	}
	if update.IsActive != nil {
		b.add("is_active", *update.IsActive)
	}

	query, args := b.sql("admins", adminColumns, id)
	admin, err := scanAdmin(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update admin: %w", err)
	}
	return admin, nil
}

func (r *PostgresAdminRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM admins WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateLastLogin records a successful login without touching updated_at
func (r *PostgresAdminRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.db.Exec(ctx, "UPDATE admins SET last_login = $1 WHERE id = $2", at, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresAdminRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM admins WHERE role = $1", string(role)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return count, nil
}

var _ AdminRepository = (*PostgresAdminRepository)(nil)
