package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/orifkhon/music-catalog-api/internal/model"
)

// UserRepo encapsulates all database queries related to users. Role names
// are joined in on every read so callers never need a second lookup.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo constructs a UserRepo with the provided DB handle.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `u.id, u.username, COALESCE(u.email,''), u.password_hash,
	COALESCE(u.avatar,''), COALESCE(u.fullname,''), u.role_id, r.name,
	u.is_active, u.is_staff, u.created_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	u := new(model.User)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.Avatar, &u.Fullname, &u.RoleID, &u.RoleName,
		&u.IsActive, &u.IsStaff, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a user and populates the generated ID, CreatedAt and joined
// RoleName. PasswordHash must already be hashed by the caller. A duplicate
// username maps to ErrUsernameExists and an unknown role_id to
// ErrUnknownRelation.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Username = strings.TrimSpace(u.Username)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, avatar, fullname, role_id, is_active, is_staff)
		 VALUES (?,?,?,?,?,?,?,?)`,
		u.Username, nullable(u.Email), u.PasswordHash, nullable(u.Avatar),
		nullable(u.Fullname), u.RoleID, u.IsActive, u.IsStaff)
	if err != nil {
		if isDuplicate(err) {
			return ErrUsernameExists
		}
		if isFKViolation(err) {
			return ErrUnknownRelation
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)

	// Follow-up SELECT so callers receive the DB-generated created_at and
	// the joined role name.
	fresh, err := r.GetByID(ctx, u.ID)
	if err != nil {
		return err
	}
	*u = *fresh
	return nil
}

// GetByID fetches a user by id. Returns ErrUserNotFound if no row exists.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	q := "SELECT " + userColumns + " FROM users u JOIN roles r ON r.id = u.role_id WHERE u.id = ?"
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// GetByUsername fetches a user by its unique username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	q := "SELECT " + userColumns + " FROM users u JOIN roles r ON r.id = u.role_id WHERE u.username = ?"
	u, err := scanUser(r.db.QueryRowContext(ctx, q, strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// List returns all users ordered by id. A non-empty search narrows the
// result to usernames or fullnames containing the term (case-insensitive).
func (r *UserRepo) List(ctx context.Context, search string) ([]*model.User, error) {
	return r.list(ctx, "", search)
}

// ListByRole returns users that carry the given role name, with the same
// optional substring search. The artists resource is this query with
// roleName = "artist".
func (r *UserRepo) ListByRole(ctx context.Context, roleName, search string) ([]*model.User, error) {
	return r.list(ctx, roleName, search)
}

func (r *UserRepo) list(ctx context.Context, roleName, search string) ([]*model.User, error) {
	q := "SELECT " + userColumns + " FROM users u JOIN roles r ON r.id = u.role_id"
	where := []string{}
	args := []any{}
	if roleName != "" {
		where = append(where, "r.name = ?")
		args = append(args, roleName)
	}
	if s := strings.TrimSpace(search); s != "" {
		where = append(where, "(LOWER(u.username) LIKE ? OR LOWER(COALESCE(u.fullname,'')) LIKE ?)")
		pat := "%" + strings.ToLower(s) + "%"
		args = append(args, pat, pat)
	}
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY u.id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Update writes all mutable columns of the user row. Handlers are expected
// to start from a freshly loaded record so partial updates only change the
// fields the client sent.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ?, password_hash = ?, avatar = ?,
		 fullname = ?, role_id = ?, is_active = ?, is_staff = ? WHERE id = ?`,
		strings.TrimSpace(u.Username), nullable(u.Email), u.PasswordHash,
		nullable(u.Avatar), nullable(u.Fullname), u.RoleID, u.IsActive, u.IsStaff, u.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrUsernameExists
		}
		if isFKViolation(err) {
			return ErrUnknownRelation
		}
		return err
	}
	if _, err := res.RowsAffected(); err != nil {
		return err
	}
	fresh, err := r.GetByID(ctx, u.ID)
	if err != nil {
		return err
	}
	*u = *fresh
	return nil
}

// Delete removes a user. Their albums, playlists and artist links disappear
// with the row through ON DELETE CASCADE.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// nullable maps empty strings to NULL so optional columns stay NULL instead
// of collecting empty strings.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
