package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type countingPublisher struct {
	events []ReadingEvent
	err    error
	closed bool
}

func (p *countingPublisher) Publish(_ context.Context, e ReadingEvent) error {
	p.events = append(p.events, e)
	return p.err
}

func (p *countingPublisher) Close() error {
	p.closed = true
	return p.err
}

func TestMultiPublisherContinuesPastFailure(t *testing.T) {
	boom := errors.New("broker down")
	failing := &countingPublisher{err: boom}
	ok := &countingPublisher{}

	m := MultiPublisher{failing, ok}
	err := m.Publish(context.Background(), NewReadingEvent(ReadingDeleted, "u1", "r1", nil))
	require.ErrorIs(t, err, boom)
	require.Len(t, failing.events, 1)
	require.Len(t, ok.events, 1)
	require.Equal(t, "u1", ok.events[0].UserID)
	require.Nil(t, ok.events[0].Reading)
	require.False(t, ok.events[0].At.IsZero())

	require.ErrorIs(t, m.Close(), boom)
	require.True(t, failing.closed)
	require.True(t, ok.closed)
}

func TestNopPublisher(t *testing.T) {
	var p ReadingPublisher = NopPublisher{}
	require.NoError(t, p.Publish(context.Background(), ReadingEvent{}))
	require.NoError(t, p.Close())
}
