package view

import (
	"strings"

	"github.com/orifkhon/music-catalog-api/internal/model"
)

// RegisterInput is the write shape of POST /auth/register. The role is a
// plain name restricted to the self-assignable set; admins are provisioned
// by the migrator, never through this endpoint.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Avatar   string `json:"avatar"`
	Fullname string `json:"fullname"`
}

// Validate checks required fields and the role-assignment policy. An empty
// role defaults to listener before validation.
func (in *RegisterInput) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(in.Username) == "" {
		errs["username"] = msgRequired
	}
	if in.Password == "" {
		errs["password"] = msgRequired
	}
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role == "" {
		role = model.RoleListener
	}
	if !model.RegistrableRole(role) {
		errs["role"] = "must be artist or listener"
	}
	in.Role = role
	return errs
}

// LoginInput is the write shape of POST /auth/login.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and the caller's public profile.
type LoginResponse struct {
	Token string     `json:"token"`
	User  UserPublic `json:"user"`
}
