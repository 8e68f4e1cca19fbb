package view

import (
	"strings"

	"github.com/orifkhon/music-catalog-api/internal/model"
)

// UserPublic is the profile shape embedded in other payloads and returned by
// the auth endpoints. It never carries email or any password material.
type UserPublic struct {
	ID       uint64     `json:"id"`
	Username string     `json:"username"`
	Avatar   string     `json:"avatar"`
	Fullname string     `json:"fullname"`
	Role     model.Role `json:"role"`
}

// User is the full read shape of the users resource. The password hash stays
// behind; role is nested as an object while writes go through role_id.
type User struct {
	ID        uint64     `json:"id"`
	Username  string     `json:"username"`
	Fullname  string     `json:"fullname"`
	Email     string     `json:"email"`
	Avatar    string     `json:"avatar"`
	CreatedAt string     `json:"created_at"`
	Role      model.Role `json:"role"`
}

// NewUserPublic builds the public profile shape from a loaded user.
func NewUserPublic(u *model.User) UserPublic {
	return UserPublic{
		ID:       u.ID,
		Username: u.Username,
		Avatar:   u.Avatar,
		Fullname: u.Fullname,
		Role:     model.Role{ID: u.RoleID, Name: u.RoleName},
	}
}

// NewUser builds the full read shape from a loaded user.
func NewUser(u *model.User) User {
	return User{
		ID:        u.ID,
		Username:  u.Username,
		Fullname:  u.Fullname,
		Email:     u.Email,
		Avatar:    u.Avatar,
		CreatedAt: formatDate(u.CreatedAt),
		Role:      model.Role{ID: u.RoleID, Name: u.RoleName},
	}
}

// UserInput is the write shape for creating a user through /users. Password
// is accepted here and hashed before persistence; it never appears in any
// read shape.
type UserInput struct {
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"`
	RoleID   uint8  `json:"role_id"`
}

// Validate checks required fields and returns per-field messages.
func (in *UserInput) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(in.Username) == "" {
		errs["username"] = msgRequired
	}
	if in.Password == "" {
		errs["password"] = msgRequired
	}
	if in.RoleID == 0 {
		errs["role_id"] = msgRequired
	}
	return errs
}

// UserPatch is the partial-update shape; only non-nil fields are applied.
type UserPatch struct {
	Username *string `json:"username"`
	Fullname *string `json:"fullname"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Avatar   *string `json:"avatar"`
	RoleID   *uint8  `json:"role_id"`
}

// Validate rejects fields that are present but unusable.
func (p *UserPatch) Validate() FieldErrors {
	errs := FieldErrors{}
	if p.Username != nil && strings.TrimSpace(*p.Username) == "" {
		errs["username"] = "must not be blank"
	}
	if p.Password != nil && *p.Password == "" {
		errs["password"] = "must not be blank"
	}
	if p.RoleID != nil && *p.RoleID == 0 {
		errs["role_id"] = "must reference a role"
	}
	return errs
}

// Apply copies the present fields onto the loaded user. The password, when
// present, is returned separately so the handler can hash it.
func (p *UserPatch) Apply(u *model.User) (newPassword string) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Fullname != nil {
		u.Fullname = *p.Fullname
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.RoleID != nil {
		u.RoleID = *p.RoleID
	}
	if p.Password != nil {
		newPassword = *p.Password
	}
	return newPassword
}
