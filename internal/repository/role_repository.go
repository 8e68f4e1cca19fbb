package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/orifkhon/music-catalog-api/internal/model"
)

// RoleRepo encapsulates all database queries related to roles. The roles
// table is small and mostly static; the well-known names are seeded by the
// migrator.
type RoleRepo struct {
	db *sql.DB
}

// NewRoleRepo constructs a RoleRepo with the provided DB handle.
func NewRoleRepo(db *sql.DB) *RoleRepo {
	return &RoleRepo{db: db}
}

// Create inserts a new role. On success the role's ID field is populated
// with the auto-generated value.
func (r *RoleRepo) Create(ctx context.Context, role *model.Role) error {
	res, err := r.db.ExecContext(ctx, "INSERT INTO roles (name) VALUES (?)", role.Name)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	role.ID = uint8(id)
	return nil
}

// GetByID fetches a role by its ID. Returns ErrRoleNotFound if no row exists.
func (r *RoleRepo) GetByID(ctx context.Context, id uint8) (*model.Role, error) {
	var role model.Role
	err := r.db.QueryRowContext(ctx, "SELECT id, name FROM roles WHERE id = ?", id).
		Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

// GetByName fetches a role by its unique name.
func (r *RoleRepo) GetByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	err := r.db.QueryRowContext(ctx, "SELECT id, name FROM roles WHERE name = ?", name).
		Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

// List returns all roles ordered by id.
func (r *RoleRepo) List(ctx context.Context) ([]*model.Role, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM roles ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Role, 0)
	for rows.Next() {
		role := new(model.Role)
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

// UpdateName renames a role. Returns ErrRoleNotFound when no row is affected.
func (r *RoleRepo) UpdateName(ctx context.Context, id uint8, name string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE roles SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either missing or renamed to the same value; disambiguate.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a role. Users referencing it are cascaded away by the
// foreign key, matching the ownership semantics of the schema.
func (r *RoleRepo) Delete(ctx context.Context, id uint8) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM roles WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRoleNotFound
	}
	return nil
}
