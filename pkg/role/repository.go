package role

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ListParams represents parameters for listing roles.
type ListParams struct {
	Search   string
	Type     string
	SortBy   string
	SortDir  string
	Limit    int32
	Skip     int32
	Populate bool
}

// RoleRepository defines the storage contract for roles. The persistence
// layer owns id assignment, timestamps, and the unique index on name.
type RoleRepository interface {
	ListRoles(ctx context.Context, params ListParams) ([]Role, error)
	CountRoles(ctx context.Context, params ListParams) (int64, error)
	LastModified(ctx context.Context, params ListParams) (*time.Time, error)
	GetRoleById(ctx context.Context, id uuid.UUID) (Role, error)
	// FindRoleByIdentity looks up a role by its identity fields. An empty
	// roleType matches any type.
	FindRoleByIdentity(ctx context.Context, name, roleType string) (Role, error)
	CreateRole(ctx context.Context, role Role) (Role, error)
	UpdateRole(ctx context.Context, role Role) (Role, error)
	DeleteRole(ctx context.Context, id uuid.UUID) (Role, error)
}

// PostgresRoleRepository implements RoleRepository using PostgreSQL.
type PostgresRoleRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRoleRepository creates a new PostgreSQL-based role repository.
func NewPostgresRoleRepository(pool *pgxpool.Pool) *PostgresRoleRepository {
	return &PostgresRoleRepository{
		pool: pool,
	}
}

const roleColumns = `id, type, name, description, permissions, created_at, updated_at`

// listFilter builds the WHERE clause shared by ListRoles, CountRoles and
// LastModified so the three always agree on the matched set.
func listFilter(params ListParams) (string, []interface{}) {
	clause := ` WHERE 1=1`
	args := []interface{}{}

	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		n := strconv.Itoa(len(args))
		clause += ` AND (name ILIKE $` + n + ` OR description ILIKE $` + n + ` OR type ILIKE $` + n + `)`
	}
	if params.Type != "" {
		args = append(args, params.Type)
		clause += ` AND type = $` + strconv.Itoa(len(args))
	}
	return clause, args
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == "desc" {
		dir = "DESC"
	}
	switch sortBy {
	case "type":
		return "type " + dir
	case "created_at", "createdAt":
		return "created_at " + dir
	case "updated_at", "updatedAt":
		return "updated_at " + dir
	default:
		return "name " + dir
	}
}

// ListRoles retrieves a page of roles matching the filter.
func (r *PostgresRoleRepository) ListRoles(ctx context.Context, params ListParams) ([]Role, error) {
	clause, args := listFilter(params)
	query := `SELECT ` + roleColumns + ` FROM roles` + clause +
		` ORDER BY ` + sortOrder(params.SortBy, params.SortDir)

	if params.Limit > 0 {
		args = append(args, params.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		args = append(args, params.Skip)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// CountRoles returns the total number of roles matching the filter.
func (r *PostgresRoleRepository) CountRoles(ctx context.Context, params ListParams) (int64, error) {
	clause, args := listFilter(params)

	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM roles`+clause, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count roles: %w", err)
	}
	return total, nil
}

// LastModified returns the most recent update timestamp across the matched
// set, or nil when the set is empty.
func (r *PostgresRoleRepository) LastModified(ctx context.Context, params ListParams) (*time.Time, error) {
	clause, args := listFilter(params)

	var lastModified *time.Time
	err := r.pool.QueryRow(ctx, `SELECT MAX(updated_at) FROM roles`+clause, args...).Scan(&lastModified)
	if err != nil {
		return nil, fmt.Errorf("failed to get last modified: %w", err)
	}
	return lastModified, nil
}

// GetRoleById retrieves a role by id.
func (r *PostgresRoleRepository) GetRoleById(ctx context.Context, id uuid.UUID) (Role, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id)
	role, err := scanRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, NotFoundError{ID: id}
		}
		return Role{}, err
	}
	return role, nil
}

// FindRoleByIdentity looks up a role by name, and type when supplied.
func (r *PostgresRoleRepository) FindRoleByIdentity(ctx context.Context, name, roleType string) (Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE name = $1`
	args := []interface{}{name}
	if roleType != "" {
		query += ` AND type = $2`
		args = append(args, roleType)
	}

	role, err := scanRole(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, NotFoundError{}
		}
		return Role{}, err
	}
	return role, nil
}

// CreateRole inserts a new role. The unique index on name surfaces
// concurrent duplicates as a ConflictError.
func (r *PostgresRoleRepository) CreateRole(ctx context.Context, role Role) (Role, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO roles (type, name, description, permissions)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+roleColumns,
		role.Type, role.Name, role.Description, role.Permissions)

	created, err := scanRole(row)
	if err != nil {
		if isUniqueViolation(err) {
			return Role{}, ConflictError{Name: role.Name}
		}
		return Role{}, fmt.Errorf("failed to create role: %w", err)
	}
	return created, nil
}

// UpdateRole replaces a role's content fields by id.
func (r *PostgresRoleRepository) UpdateRole(ctx context.Context, role Role) (Role, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE roles
		 SET type = $2, name = $3, description = $4, permissions = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING `+roleColumns,
		role.ID, role.Type, role.Name, role.Description, role.Permissions)

	updated, err := scanRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, NotFoundError{ID: role.ID}
		}
		if isUniqueViolation(err) {
			return Role{}, ConflictError{Name: role.Name}
		}
		return Role{}, fmt.Errorf("failed to update role: %w", err)
	}
	return updated, nil
}

// DeleteRole removes a role and returns the deleted representation.
func (r *PostgresRoleRepository) DeleteRole(ctx context.Context, id uuid.UUID) (Role, error) {
	row := r.pool.QueryRow(ctx,
		`DELETE FROM roles WHERE id = $1 RETURNING `+roleColumns, id)

	deleted, err := scanRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, NotFoundError{ID: id}
		}
		return Role{}, fmt.Errorf("failed to delete role: %w", err)
	}
	return deleted, nil
}

func scanRole(row pgx.Row) (Role, error) {
	var role Role
	err := row.Scan(&role.ID, &role.Type, &role.Name, &role.Description,
		&role.Permissions, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		return Role{}, err
	}
	return role, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
