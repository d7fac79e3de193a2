package repositories

import (
	"context"

	"vitals-server/db"
	"vitals-server/entities"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type readingPgRepository struct {
	db db.Database
}

func NewReadingPgRepository(database db.Database) ReadingRepository {
	return &readingPgRepository{db: database}
}

// ownedBy restricts a query to one reading of one owner. Every per-record
// operation goes through it so a record id alone never matches.
func ownedBy(id, userID string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("id = ? AND user_id = ?", id, userID)
	}
}

func (r *readingPgRepository) Create(ctx context.Context, reading *entities.Reading) error {
	if err := r.db.GetDB().WithContext(ctx).Create(reading).Error; err != nil {
		return errors.Wrap(err, "create reading")
	}
	return nil
}

func (r *readingPgRepository) ListByOwner(ctx context.Context, userID string) ([]entities.Reading, error) {
	readings := []entities.Reading{}
	err := r.db.GetDB().WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&readings).Error
	if err != nil {
		return nil, errors.Wrap(err, "list readings")
	}
	return readings, nil
}

func (r *readingPgRepository) FindScoped(ctx context.Context, id, userID string) (*entities.Reading, error) {
	var reading entities.Reading
	err := r.db.GetDB().WithContext(ctx).Scopes(ownedBy(id, userID)).First(&reading).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find reading")
	}
	return &reading, nil
}

func (r *readingPgRepository) UpdateScoped(ctx context.Context, id, userID string, fields ReadingFields) (*entities.Reading, error) {
	var reading *entities.Reading
	err := r.db.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.Reading{}).Scopes(ownedBy(id, userID)).Updates(map[string]interface{}{
			"heart_rate":       fields.HeartRate,
			"blood_pressure":   fields.BloodPressure,
			"stress_level":     fields.StressLevel,
			"sleep_hours":      fields.SleepHours,
			"exercise_minutes": fields.ExerciseMinutes,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		var updated entities.Reading
		if err := tx.Scopes(ownedBy(id, userID)).First(&updated).Error; err != nil {
			return err
		}
		reading = &updated
		return nil
	})
	if errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "update reading")
	}
	return reading, nil
}

func (r *readingPgRepository) DeleteScoped(ctx context.Context, id, userID string) error {
	res := r.db.GetDB().WithContext(ctx).Scopes(ownedBy(id, userID)).Delete(&entities.Reading{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete reading")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
