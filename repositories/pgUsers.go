package repositories

import (
	"context"

	"vitals-server/db"
	"vitals-server/entities"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type userPgRepository struct {
	db db.Database
}

func NewUserPgRepository(database db.Database) UserRepository {
	return &userPgRepository{db: database}
}

func (r *userPgRepository) FindByClerkID(ctx context.Context, clerkID string) (*entities.User, error) {
	var user entities.User
	err := r.db.GetDB().WithContext(ctx).Where("clerk_id = ?", clerkID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user")
	}
	return &user, nil
}

func (r *userPgRepository) Create(ctx context.Context, user *entities.User) error {
	err := r.db.GetDB().WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	if err != nil {
		return errors.Wrap(err, "create user")
	}
	return nil
}

func (r *userPgRepository) UpdateByClerkID(ctx context.Context, clerkID string, updates map[string]interface{}) (*entities.User, error) {
	tx := r.db.GetDB().WithContext(ctx)
	if len(updates) > 0 {
		err := tx.Model(&entities.User{}).Where("clerk_id = ?", clerkID).Updates(updates).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		if err != nil {
			return nil, errors.Wrap(err, "update user")
		}
	}
	return r.FindByClerkID(ctx, clerkID)
}
