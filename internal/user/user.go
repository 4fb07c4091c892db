package user

import (
	"errors"
	"fmt"
	"time"

	userDatamodel "github.com/corelearn/training-management/internal/core/datamodel/user"
)

var (
	ErrNotFound  = errors.New("user not found")
	ErrNoManager = errors.New("user has no assigned manager")
)

// Role is the closed set of portal roles. Authorization checks switch on
// it exhaustively instead of comparing raw strings.
type Role string

const (
	RoleEmployee   Role = "employee"
	RoleManager    Role = "manager"
	RoleLMSManager Role = "lms_manager"
	RoleAdmin      Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleEmployee, RoleManager, RoleLMSManager, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// CanApproveAsManager reports whether the role may take the first-stage
// decision on a registration.
func (r Role) CanApproveAsManager() bool {
	return r == RoleManager
}

// CanApproveAsLMS reports whether the role may take the second-stage
// decision on a registration.
func (r Role) CanApproveAsLMS() bool {
	return r == RoleLMSManager
}

func (r Role) CanManageCatalog() bool {
	return r == RoleLMSManager || r == RoleAdmin
}

func (r Role) CanViewAllEmployees() bool {
	return r == RoleLMSManager || r == RoleAdmin
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Department   string    `json:"department"`
	Role         Role      `json:"role"`
	ManagerID    *int64    `json:"manager_id,omitempty"`
	Position     string    `json:"position"`
	Country      string    `json:"country"`
	JoinDate     time.Time `json:"join_date"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsActiveUser() bool {
	return u.IsActive
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Department:   u.Department,
		Role:         string(u.Role),
		ManagerID:    u.ManagerID,
		Position:     u.Position,
		Country:      u.Country,
		JoinDate:     u.JoinDate,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Department:   u.Department,
		Role:         Role(u.Role),
		ManagerID:    u.ManagerID,
		Position:     u.Position,
		Country:      u.Country,
		JoinDate:     u.JoinDate,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModelSlice(users []*userDatamodel.User) []*User {
	result := make([]*User, len(users))
	for i, u := range users {
		result[i] = FromDataModel(u)
	}
	return result
}
