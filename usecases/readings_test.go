package usecases

import (
	"context"
	"sync"
	"testing"

	"vitals-server/db/dbtest"
	"vitals-server/repositories"
	"vitals-server/services"
	"vitals-server/validation"

	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []services.ReadingEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e services.ReadingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func newReadingUseCase(t *testing.T) (*ReadingUseCase, *recordingPublisher) {
	pub := &recordingPublisher{}
	repo := repositories.NewReadingPgRepository(dbtest.New(t))
	return NewReadingUseCase(repo, pub), pub
}

func payload(userID string, heartRate int) *validation.ReadingPayload {
	sleep, exercise := 7.5, 30
	return &validation.ReadingPayload{
		UserID:          userID,
		HeartRate:       &heartRate,
		BloodPressure:   "120/80",
		StressLevel:     "Low",
		SleepHours:      &sleep,
		ExerciseMinutes: &exercise,
	}
}

func TestAddReadingRequiresOwner(t *testing.T) {
	uc, pub := newReadingUseCase(t)

	_, err := uc.AddReading(context.Background(), payload("", 75))
	require.ErrorIs(t, err, ErrUserIDRequired)
	require.Empty(t, pub.types())
}

func TestAddThenGetReturnsSameFields(t *testing.T) {
	ctx := context.Background()
	uc, _ := newReadingUseCase(t)

	created, err := uc.AddReading(ctx, payload("u1", 75))
	require.NoError(t, err)

	got, err := uc.GetReading(ctx, created.ID, "u1")
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
	require.Equal(t, "u1", got.UserID)
	require.Equal(t, 75, got.HeartRate)
	require.Equal(t, "120/80", got.BloodPressure)
	require.Equal(t, "Low", got.StressLevel)
	require.Equal(t, 7.5, got.SleepHours)
	require.Equal(t, 30, got.ExerciseMinutes)
	require.Equal(t, created.Time, got.Time)
}

func TestOwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	uc, pub := newReadingUseCase(t)

	mine, err := uc.AddReading(ctx, payload("owner-a", 75))
	require.NoError(t, err)

	list, err := uc.ListReadings(ctx, "owner-b")
	require.NoError(t, err)
	require.Empty(t, list)

	_, err = uc.GetReading(ctx, mine.ID, "owner-b")
	require.ErrorIs(t, err, ErrReadingNotFound)

	_, err = uc.UpdateReading(ctx, mine.ID, payload("owner-b", 90))
	require.ErrorIs(t, err, ErrReadingNotFound)

	require.ErrorIs(t, uc.DeleteReading(ctx, mine.ID, "owner-b"), ErrReadingNotFound)

	still, err := uc.GetReading(ctx, mine.ID, "owner-a")
	require.NoError(t, err)
	require.Equal(t, 75, still.HeartRate)
	require.Equal(t, []string{services.ReadingCreated}, pub.types())
}

func TestListReadingsNewestFirst(t *testing.T) {
	ctx := context.Background()
	uc, _ := newReadingUseCase(t)

	var ids []string
	for _, hr := range []int{61, 62, 63} {
		r, err := uc.AddReading(ctx, payload("u1", hr))
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}

	list, err := uc.ListReadings(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, ids[2], list[0].ID)
	require.Equal(t, ids[1], list[1].ID)
	require.Equal(t, ids[0], list[2].ID)

	_, err = uc.ListReadings(ctx, "")
	require.ErrorIs(t, err, ErrUserIDRequired)
}

func TestUpdateAndDeleteReading(t *testing.T) {
	ctx := context.Background()
	uc, pub := newReadingUseCase(t)

	r, err := uc.AddReading(ctx, payload("u1", 75))
	require.NoError(t, err)

	updated, err := uc.UpdateReading(ctx, r.ID, payload("u1", 88))
	require.NoError(t, err)
	require.Equal(t, 88, updated.HeartRate)

	require.NoError(t, uc.DeleteReading(ctx, r.ID, "u1"))
	_, err = uc.GetReading(ctx, r.ID, "u1")
	require.ErrorIs(t, err, ErrReadingNotFound)

	require.Equal(t, []string{
		services.ReadingCreated,
		services.ReadingUpdated,
		services.ReadingDeleted,
	}, pub.types())
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	uc, _ := newReadingUseCase(t)

	empty, err := uc.Summary(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, services.StressNormal, empty.StressLevel)

	_, err = uc.AddReading(ctx, payload("u1", 70))
	require.NoError(t, err)
	_, err = uc.AddReading(ctx, payload("u1", 80))
	require.NoError(t, err)

	s, err := uc.Summary(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 2, s.Count)
	require.Equal(t, 75, s.HeartRate)
}
