package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/balkashynov/timetrack/internal/models"
)

// CreateUserRequest holds the data needed to create a new user
type CreateUserRequest struct {
	Email        string
	FirstName    string
	LastName     string
	Role         string // "employee", "manager" or "admin"; empty for employee
	ManagerEmail string
}

// CreateUser creates a new user, resolving the optional manager by email
func CreateUser(req CreateUserRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	role := models.RoleEmployee
	if strings.TrimSpace(req.Role) != "" {
		parsed, ok := models.ParseRole(req.Role)
		if !ok {
			return nil, fmt.Errorf("invalid role %q (use employee, manager or admin)", req.Role)
		}
		role = parsed
	}

	user := models.User{
		Email:     email,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Role:      role,
		Active:    true,
	}

	if req.ManagerEmail != "" {
		manager, err := GetUserByEmail(req.ManagerEmail)
		if err != nil {
			return nil, fmt.Errorf("manager %s not found", req.ManagerEmail)
		}
		user.ManagerID = &manager.ID
	}

	if err := DB.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// GetUserByEmail retrieves an active-or-inactive user by email
func GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := DB.Preload("Manager").
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("user %s not found", email)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := DB.Preload("Manager").First(&user, id).Error; err != nil {
		return nil, fmt.Errorf("user #%d not found", id)
	}
	return &user, nil
}

// ListUsers retrieves users, ordered by name
func ListUsers(includeInactive bool) ([]models.User, error) {
	var users []models.User

	query := DB.Preload("Manager").Order("last_name, first_name")
	if !includeInactive {
		query = query.Where("active = ?", true)
	}

	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SetManager points a user at a new manager
func SetManager(email, managerEmail string) (*models.User, error) {
	user, err := GetUserByEmail(email)
	if err != nil {
		return nil, err
	}

	manager, err := GetUserByEmail(managerEmail)
	if err != nil {
		return nil, err
	}
	if manager.ID == user.ID {
		return nil, fmt.Errorf("a user cannot be their own manager")
	}

	user.ManagerID = &manager.ID
	if err := DB.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// DeactivationStatus reports how many pending (draft or submitted)
// timesheets stand in the way of deactivating a user
func DeactivationStatus(userID uint) (pending int64, err error) {
	err = DB.Model(&models.Timesheet{}).
		Where("user_id = ? AND status IN ?", userID,
			[]models.Status{models.StatusDraft, models.StatusSubmitted}).
		Count(&pending).Error
	return pending, err
}

// DeactivateUser deactivates a user. Blocked while the user has pending
// timesheets unless force is set. Admin only.
func DeactivateUser(userID, actorID uint, force bool) (*models.User, error) {
	actor, err := GetUserByID(actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("only admins can deactivate users")
	}

	user, err := GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, fmt.Errorf("user %s is already deactivated", user.Email)
	}

	pending, err := DeactivationStatus(userID)
	if err != nil {
		return nil, err
	}
	if pending > 0 && !force {
		return nil, fmt.Errorf("user %s has %d pending timesheet(s); use --force to deactivate anyway", user.Email, pending)
	}

	now := time.Now()
	user.Active = false
	user.DeactivatedAt = &now

	if err := DB.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
