package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReadingTimeLayout renders the display timestamp stored on each reading:
// the server's local date followed by hour and minute.
const ReadingTimeLayout = "1/2/2006 03:04 PM"

// Stress levels accepted on a reading.
const (
	StressLow      = "Low"
	StressModerate = "Moderate"
	StressHigh     = "High"
)

// Reading is one batch of vital signs recorded by a user.
// UserID is the external identity-provider subject, not a foreign key.
type Reading struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	UserID          string    `gorm:"index;not null" json:"userId"`
	Time            string    `gorm:"type:varchar(32)" json:"time"`
	HeartRate       int       `gorm:"not null" json:"heartRate"`
	BloodPressure   string    `gorm:"type:varchar(7);not null" json:"bloodPressure"`
	StressLevel     string    `gorm:"type:varchar(16);not null" json:"stressLevel"`
	SleepHours      float64   `gorm:"not null" json:"sleepHours"`
	ExerciseMinutes int       `gorm:"not null" json:"exerciseMinutes"`
	CreatedAt       time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// FormatReadingTime formats t in the reading display layout.
func FormatReadingTime(t time.Time) string {
	return t.Local().Format(ReadingTimeLayout)
}

func (r *Reading) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		r.ID = id.String()
	}
	if r.Time == "" {
		r.Time = FormatReadingTime(time.Now())
	}
	return nil
}
