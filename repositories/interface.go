package repositories

import (
	"context"
	"errors"

	"vitals-server/entities"
)

var (
	// ErrNotFound means no record matched the lookup, including an owner mismatch.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate means a unique column already holds the value.
	ErrDuplicate = errors.New("duplicate record")
)

// ReadingFields are the measurement columns replaced by an update.
type ReadingFields struct {
	HeartRate       int
	BloodPressure   string
	StressLevel     string
	SleepHours      float64
	ExerciseMinutes int
}

type ReadingRepository interface {
	Create(ctx context.Context, reading *entities.Reading) error
	ListByOwner(ctx context.Context, userID string) ([]entities.Reading, error)
	FindScoped(ctx context.Context, id, userID string) (*entities.Reading, error)
	UpdateScoped(ctx context.Context, id, userID string, fields ReadingFields) (*entities.Reading, error)
	DeleteScoped(ctx context.Context, id, userID string) error
}

type UserRepository interface {
	FindByClerkID(ctx context.Context, clerkID string) (*entities.User, error)
	Create(ctx context.Context, user *entities.User) error
	// UpdateByClerkID applies column updates; nil values clear the column.
	UpdateByClerkID(ctx context.Context, clerkID string, updates map[string]interface{}) (*entities.User, error)
}
