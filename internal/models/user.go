package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role represents a user's access level
type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
	RoleAdmin    Role = "ADMIN"
)

// User represents an account with a role and an optional manager
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Email     string `gorm:"unique;not null" json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `gorm:"default:EMPLOYEE" json:"role"`

	ManagerID     *uint      `json:"manager_id"`
	Active        bool       `gorm:"default:true" json:"active"`
	DeactivatedAt *time.Time `json:"deactivated_at"`

	// Relationships
	Manager *User `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
}

// IsValidRole checks if a role is valid
func IsValidRole(r Role) bool {
	switch r {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// ParseRole converts user input to a canonical Role
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, IsValidRole(r)
}

// FullName returns the user's display name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsManager reports whether the user can approve timesheets (manager or admin)
func (u *User) IsManager() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}

// IsAdmin reports whether the user has admin privileges
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ApprovalChain walks the manager chain starting with the direct manager.
// Cycles are cut off at the first repeated user.
func (u *User) ApprovalChain() []*User {
	var chain []*User
	seen := map[uint]bool{u.ID: true}

	current := u.Manager
	for current != nil && !seen[current.ID] {
		chain = append(chain, current)
		seen[current.ID] = true
		current = current.Manager
	}

	return chain
}
