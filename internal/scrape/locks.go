package scrape

import (
	"sync"
)

// websiteLocks serializes scrape attempts per website id. Locks are
// transient in-process state; storage remains the source of truth.
type websiteLocks struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func newWebsiteLocks() *websiteLocks {
	return &websiteLocks{
		inFlight: make(map[string]struct{}),
	}
}

// TryAcquire claims the lock for a website id without blocking. Returns
// false when a scrape for that website is already in flight.
func (l *websiteLocks) TryAcquire(websiteID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, held := l.inFlight[websiteID]; held {
		return false
	}

	l.inFlight[websiteID] = struct{}{}
	return true
}

// Release frees the lock for a website id.
func (l *websiteLocks) Release(websiteID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.inFlight, websiteID)
}
