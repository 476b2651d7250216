package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicboard/clinicboard/internal/platform/apperr"
	"github.com/clinicboard/clinicboard/pkg/isotime"
)

// Role is a staff member's function. Only DOCTOR users may be appointment
// providers or note authors.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleDoctor Role = "DOCTOR"
	RoleNurse  Role = "NURSE"
	RoleStaff  Role = "STAFF"
)

var roles = map[Role]bool{RoleAdmin: true, RoleDoctor: true, RoleNurse: true, RoleStaff: true}

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !roles[r] {
		return "", apperr.Validation("role", "role must be one of: ADMIN DOCTOR NURSE STAFF")
	}
	return r, nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// User maps to the app_user table.
type User struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      *string   `db:"name" json:"name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Role      Role      `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DisplayName returns the user's name, or fallback when it is unset.
func (u *User) DisplayName(fallback string) string {
	return NameOr(u.Name, fallback)
}

// NameOr returns *name when it is non-blank and fallback otherwise.
func NameOr(name *string, fallback string) string {
	if name == nil || strings.TrimSpace(*name) == "" {
		return fallback
	}
	return *name
}

// UserView is the client-facing shape of a User.
type UserView struct {
	ID        string  `json:"id"`
	Name      *string `json:"name"`
	Email     *string `json:"email,omitempty"`
	Role      Role    `json:"role"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

func (u *User) View() UserView {
	return UserView{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: isotime.Format(u.CreatedAt),
		UpdatedAt: isotime.Format(u.UpdatedAt),
	}
}

// CreateUserInput is the payload for creating a staff user. Role defaults
// to STAFF.
type CreateUserInput struct {
	Name  string  `json:"name" validate:"notblank,max=255"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Role  Role    `json:"role"`
}
