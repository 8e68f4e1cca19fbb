package model

import "time"

// Well-known role names. Role rows are stored in the `roles` table so they
// can carry display metadata, but authorization decisions compare against
// these constants at the handler boundary instead of joining the table.
const (
	RoleAdmin    = "admin"
	RoleArtist   = "artist"
	RoleListener = "listener"
)

// RegistrableRole reports whether a role name may be chosen at registration.
// Admin accounts are seeded by the migrator and never self-assigned.
func RegistrableRole(name string) bool {
	return name == RoleArtist || name == RoleListener
}

// Role represents a row in the `roles` table. It maps a small integer ID to
// a role name. Users reference this table via the RoleID field.
//
// Fields:
//
//	ID   – numeric identifier of the role.
//	Name – unique role name (admin, artist, listener).
type Role struct {
	ID   uint8  `json:"id"`   // roles.id
	Name string `json:"name"` // roles.name
}

// User represents an application user record as stored in the `users` table.
// Each field corresponds to a column. PasswordHash never leaves the
// repository/handler boundary; response shapes are built in the view package.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Username     – unique login name.
//	Email        – contact address (may be empty).
//	PasswordHash – bcrypt hashed password.
//	Avatar       – opaque path to the avatar image (resolved externally).
//	Fullname     – display name (may be empty).
//	RoleID       – foreign key into the roles table.
//	RoleName     – role name joined in by the repository for convenience.
//	IsActive     – whether the account may log in.
//	IsStaff      – whether the account has staff privileges.
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Avatar       string    // users.avatar
	Fullname     string    // users.fullname
	RoleID       uint8     // users.role_id (references roles.id)
	RoleName     string    // roles.name joined at query time
	IsActive     bool      // users.is_active
	IsStaff      bool      // users.is_staff
	CreatedAt    time.Time // users.created_at
}
