package usecases

import (
	"context"
	"errors"

	"vitals-server/entities"
	"vitals-server/repositories"
)

var ErrClerkIDAndEmailRequired = errors.New("clerkId and email are required")

type UserUseCase struct {
	repo repositories.UserRepository
}

func NewUserUseCase(repo repositories.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// RegisterOrGetUser returns the user for clerkID, creating it on first use.
// Repeated calls with the same clerkID return the same record.
func (uc *UserUseCase) RegisterOrGetUser(ctx context.Context, clerkID, email, name string) (*entities.User, error) {
	if clerkID == "" || email == "" {
		return nil, ErrClerkIDAndEmailRequired
	}

	user, err := uc.repo.FindByClerkID(ctx, clerkID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	user = &entities.User{ClerkID: clerkID, Email: email, Name: name}
	err = uc.repo.Create(ctx, user)
	if errors.Is(err, repositories.ErrDuplicate) {
		// a concurrent register won the insert
		return uc.repo.FindByClerkID(ctx, clerkID)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser applies a partial profile update. A missing user yields
// (nil, nil): callers answer with a null body rather than a not-found.
func (uc *UserUseCase) UpdateUser(ctx context.Context, clerkID string, updates map[string]interface{}) (*entities.User, error) {
	user, err := uc.repo.UpdateByClerkID(ctx, clerkID, updates)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
