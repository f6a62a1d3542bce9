package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/timetrack/internal/models"
)

// CreateDelegationRequest holds the data needed to delegate approval
// authority
type CreateDelegationRequest struct {
	DelegatorID   uint
	DelegateEmail string
	StartDate     time.Time
	EndDate       time.Time
}

// CreateDelegation records a delegation of the delegator's approval
// authority. Only managers can delegate, and only to another active
// manager.
func CreateDelegation(req CreateDelegationRequest) (*models.ApprovalDelegation, error) {
	delegator, err := GetUserByID(req.DelegatorID)
	if err != nil {
		return nil, err
	}
	if !delegator.IsManager() {
		return nil, fmt.Errorf("only managers can delegate approval authority")
	}

	delegate, err := GetUserByEmail(req.DelegateEmail)
	if err != nil {
		return nil, err
	}
	if delegate.ID == delegator.ID {
		return nil, fmt.Errorf("cannot delegate approval authority to yourself")
	}
	if !delegate.IsManager() {
		return nil, fmt.Errorf("approval authority can only be delegated to another manager")
	}
	if !delegate.Active {
		return nil, fmt.Errorf("user %s is deactivated", delegate.Email)
	}

	start := models.DateOf(req.StartDate)
	end := models.DateOf(req.EndDate)
	if end.Before(start) {
		return nil, fmt.Errorf("end date cannot be before start date")
	}

	delegation := models.ApprovalDelegation{
		DelegatorID: delegator.ID,
		DelegateID:  delegate.ID,
		StartDate:   start,
		EndDate:     end,
	}
	if err := DB.Create(&delegation).Error; err != nil {
		return nil, err
	}
	delegation.Delegator = *delegator
	delegation.Delegate = *delegate
	return &delegation, nil
}

// ListDelegations retrieves delegations the user gave or received, newest
// start first
func ListDelegations(userID uint) ([]models.ApprovalDelegation, error) {
	var delegations []models.ApprovalDelegation
	err := DB.Preload("Delegator").Preload("Delegate").
		Where("delegator_id = ? OR delegate_id = ?", userID, userID).
		Order("start_date DESC").
		Find(&delegations).Error
	if err != nil {
		return nil, err
	}
	return delegations, nil
}

// RevokeDelegation removes a delegation. Only the delegator or an admin
// can revoke.
func RevokeDelegation(delegationID, actorID uint) error {
	actor, err := GetUserByID(actorID)
	if err != nil {
		return err
	}

	var delegation models.ApprovalDelegation
	if err := DB.First(&delegation, delegationID).Error; err != nil {
		return fmt.Errorf("delegation #%d not found", delegationID)
	}
	if delegation.DelegatorID != actor.ID && !actor.IsAdmin() {
		return fmt.Errorf("only the delegator or an admin can revoke a delegation")
	}

	return DB.Delete(&delegation).Error
}

// activeDelegationsFor loads delegations naming the actor as delegate that
// cover the given date
func activeDelegationsFor(tx *gorm.DB, actorID uint, on time.Time) ([]models.ApprovalDelegation, error) {
	day := models.DateOf(on)

	var delegations []models.ApprovalDelegation
	err := tx.Where("delegate_id = ? AND start_date <= ? AND end_date >= ?", actorID, day, day).
		Find(&delegations).Error
	if err != nil {
		return nil, err
	}
	return delegations, nil
}
