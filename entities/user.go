package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Genders accepted on a user profile.
var Genders = []string{"Male", "Female", "Other"}

// IsValidGender reports whether g is one of Genders.
func IsValidGender(g string) bool {
	return lo.Contains(Genders, g)
}

// User is the local profile of an identity-provider account.
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	ClerkID   string    `gorm:"uniqueIndex;not null" json:"clerkId"`
	Name      string    `json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Age       *float64  `json:"age"`
	Weight    *float64  `json:"weight"`
	Height    *float64  `json:"height"`
	Gender    *string   `gorm:"type:varchar(8)" json:"gender"`
	Goal      string    `gorm:"not null" json:"goal"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		u.ID = id.String()
	}
	return nil
}
