package services

import (
	"encoding/json"
	"errors"

	"github.com/testdeckhq/testdeck/internal/models"
	"github.com/testdeckhq/testdeck/pkg/response"
	"gorm.io/gorm"
)

// AssigneeRef is the polymorphic assigneeId accepted on package and scenario
// writes: a plain numeric id, or the legacy object form {value, email}.
type AssigneeRef struct {
	ID    *uint
	Email *string // embedded email from the legacy object form
}

func (a *AssigneeRef) UnmarshalJSON(data []byte) error {
	var id uint
	if err := json.Unmarshal(data, &id); err == nil {
		a.ID = &id
		return nil
	}

	var legacy struct {
		Value *uint   `json:"value"`
		Email *string `json:"email"`
	}
	if err := json.Unmarshal(data, &legacy); err == nil && (legacy.Value != nil || legacy.Email != nil) {
		a.ID = legacy.Value
		a.Email = legacy.Email
		return nil
	}

	var null interface{}
	if err := json.Unmarshal(data, &null); err == nil && null == nil {
		return nil
	}

	return errors.New("assigneeId must be a number or an object with value/email")
}

// resolveAssigneeEmail normalizes the (assigneeId, assigneeEmail) pair into
// one canonical email. An embedded legacy email takes precedence over the
// separately supplied one. Returns nil when no assignee was given.
func resolveAssigneeEmail(db *gorm.DB, ref *AssigneeRef, email *string) (*string, error) {
	if ref != nil && ref.Email != nil && *ref.Email != "" {
		email = ref.Email
	}

	if ref != nil && ref.ID != nil {
		var user models.User
		if err := db.First(&user, *ref.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewNotFound("assignee user not found")
			}
			return nil, err
		}
		return &user.Email, nil
	}

	if email != nil && *email != "" {
		var user models.User
		if err := db.Where("email = ?", *email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewNotFound("assignee user not found")
			}
			return nil, err
		}
		return &user.Email, nil
	}

	return nil, nil
}
