package cache

import (
	"sync"
	"time"
)

// Window is one client's counter for the current fixed window.
type Window struct {
	Count   int
	ResetAt time.Time
}

// WindowCache counts hits per key in fixed windows.
type WindowCache struct {
	mu      sync.Mutex
	windows map[string]*Window // map[key]window
	size    time.Duration
	now     func() time.Time
}

func NewWindowCache(size time.Duration) *WindowCache {
	return &WindowCache{
		windows: make(map[string]*Window),
		size:    size,
		now:     time.Now,
	}
}

// Hit records one request for key and returns a copy of its window after
// counting it. An expired window is restarted.
func (wc *WindowCache) Hit(key string) Window {
	wc.mu.Lock()
	defer wc.mu.Unlock()

	now := wc.now()
	w, exists := wc.windows[key]
	if !exists || !now.Before(w.ResetAt) {
		w = &Window{ResetAt: now.Add(wc.size)}
		wc.windows[key] = w
	}
	w.Count++

	return *w
}

// Size returns the window length.
func (wc *WindowCache) Size() time.Duration {
	return wc.size
}

// Len returns the number of tracked keys.
func (wc *WindowCache) Len() int {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	return len(wc.windows)
}

// Sweep drops every expired window and returns how many were removed.
func (wc *WindowCache) Sweep() int {
	wc.mu.Lock()
	defer wc.mu.Unlock()

	now := wc.now()
	removed := 0
	for key, w := range wc.windows {
		if !now.Before(w.ResetAt) {
			delete(wc.windows, key)
			removed++
		}
	}
	return removed
}

// Start sweeps expired windows every interval until Stop is called.
func (wc *WindowCache) Start(interval time.Duration) (stop func()) {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				wc.Sweep()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
