package usecases

import (
	"context"
	"errors"

	"vitals-server/entities"
	"vitals-server/repositories"
	"vitals-server/services"
	"vitals-server/validation"
)

var (
	ErrUserIDRequired  = errors.New("userId is required")
	ErrReadingNotFound = errors.New("reading not found")
)

type ReadingUseCase struct {
	repo      repositories.ReadingRepository
	publisher services.ReadingPublisher
}

func NewReadingUseCase(repo repositories.ReadingRepository, publisher services.ReadingPublisher) *ReadingUseCase {
	if publisher == nil {
		publisher = services.NopPublisher{}
	}
	return &ReadingUseCase{repo: repo, publisher: publisher}
}

// AddReading stores a validated reading for the payload's owner.
func (uc *ReadingUseCase) AddReading(ctx context.Context, payload *validation.ReadingPayload) (*entities.Reading, error) {
	if payload.UserID == "" {
		return nil, ErrUserIDRequired
	}
	reading := payload.Reading()
	if err := uc.repo.Create(ctx, reading); err != nil {
		return nil, err
	}
	uc.publish(ctx, services.NewReadingEvent(services.ReadingCreated, reading.UserID, reading.ID, reading))
	return reading, nil
}

// ListReadings returns the owner's readings, newest first.
func (uc *ReadingUseCase) ListReadings(ctx context.Context, userID string) ([]entities.Reading, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	return uc.repo.ListByOwner(ctx, userID)
}

// GetReading returns one reading if it exists and belongs to userID.
func (uc *ReadingUseCase) GetReading(ctx context.Context, id, userID string) (*entities.Reading, error) {
	reading, err := uc.repo.FindScoped(ctx, id, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrReadingNotFound
	}
	return reading, err
}

// UpdateReading replaces the measurements of a reading owned by payload.UserID.
func (uc *ReadingUseCase) UpdateReading(ctx context.Context, id string, payload *validation.ReadingPayload) (*entities.Reading, error) {
	reading, err := uc.repo.UpdateScoped(ctx, id, payload.UserID, payload.Fields())
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrReadingNotFound
	}
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, services.NewReadingEvent(services.ReadingUpdated, reading.UserID, reading.ID, reading))
	return reading, nil
}

// DeleteReading removes a reading owned by userID.
func (uc *ReadingUseCase) DeleteReading(ctx context.Context, id, userID string) error {
	err := uc.repo.DeleteScoped(ctx, id, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrReadingNotFound
	}
	if err != nil {
		return err
	}
	uc.publish(ctx, services.NewReadingEvent(services.ReadingDeleted, userID, id, nil))
	return nil
}

// Summary aggregates the owner's history for the dashboard.
func (uc *ReadingUseCase) Summary(ctx context.Context, userID string) (*services.Summary, error) {
	readings, err := uc.ListReadings(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := services.Summarize(readings)
	return &summary, nil
}

// publish never fails the request; publishers log their own errors.
func (uc *ReadingUseCase) publish(ctx context.Context, event services.ReadingEvent) {
	_ = uc.publisher.Publish(ctx, event)
}
