package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestCache(size time.Duration) (*WindowCache, *clock) {
	c := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	wc := NewWindowCache(size)
	wc.now = c.now
	return wc, c
}

func TestHitCountsWithinWindow(t *testing.T) {
	wc, c := newTestCache(time.Minute)

	first := wc.Hit("1.2.3.4")
	require.Equal(t, 1, first.Count)
	require.Equal(t, c.t.Add(time.Minute), first.ResetAt)

	c.t = c.t.Add(30 * time.Second)
	second := wc.Hit("1.2.3.4")
	require.Equal(t, 2, second.Count)
	require.Equal(t, first.ResetAt, second.ResetAt)

	other := wc.Hit("5.6.7.8")
	require.Equal(t, 1, other.Count)
	require.Equal(t, 2, wc.Len())
}

func TestHitRestartsExpiredWindow(t *testing.T) {
	wc, c := newTestCache(time.Minute)
	wc.Hit("k")
	wc.Hit("k")

	c.t = c.t.Add(time.Minute)
	w := wc.Hit("k")
	require.Equal(t, 1, w.Count)
	require.Equal(t, c.t.Add(time.Minute), w.ResetAt)
}

func TestSweep(t *testing.T) {
	wc, c := newTestCache(time.Minute)
	wc.Hit("old")
	c.t = c.t.Add(45 * time.Second)
	wc.Hit("new")

	c.t = c.t.Add(20 * time.Second)
	require.Equal(t, 1, wc.Sweep())
	require.Equal(t, 1, wc.Len())
	require.Equal(t, 2, wc.Hit("new").Count)
}

func TestStartStop(t *testing.T) {
	wc := NewWindowCache(time.Millisecond)
	wc.Hit("k")

	stop := wc.Start(5 * time.Millisecond)
	defer stop()

	require.Eventually(t, func() bool { return wc.Len() == 0 }, time.Second, 5*time.Millisecond)
	stop()
}
