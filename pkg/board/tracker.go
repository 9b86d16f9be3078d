package board

import "sync"

// pageState is the pagination bookkeeping for one status column.
type pageState struct {
	// lastPage is the last successfully fetched page (0 = none fetched).
	lastPage int

	// total is the server-reported total feature count for the status,
	// re-synced on every successful fetch.
	total int
}

// Tracker records per-status pagination progress. A status whose first page
// fetch failed stays at (0, 0), which deterministically yields
// HasMore == false: the column appears empty with no load-more affordance
// rather than surfacing an error.
type Tracker struct {
	mu     sync.Mutex
	states map[string]pageState
}

// NewTracker creates an empty pagination tracker.
func NewTracker() *Tracker {
	return &Tracker{
		states: make(map[string]pageState),
	}
}

// NextPage returns the page number a load-more for the status should fetch.
func (t *Tracker) NextPage(statusKey string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.states[statusKey].lastPage + 1
}

// Advance records a successful fetch of page for the status and re-syncs the
// server-reported total, allowing server-side count drift to self-correct.
// On fetch failure callers simply do not advance; the column silently stops
// growing while other columns are unaffected.
func (t *Tracker) Advance(statusKey string, page, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[statusKey] = pageState{lastPage: page, total: total}
}

// LastPage returns the last successfully fetched page for the status.
func (t *Tracker) LastPage(statusKey string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.states[statusKey].lastPage
}

// Total returns the server-reported total count for the status.
func (t *Tracker) Total(statusKey string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.states[statusKey].total
}

// HasMore reports whether more features than the loaded count exist
// server-side for the status.
func (t *Tracker) HasMore(statusKey string, loaded int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return loaded < t.states[statusKey].total
}

// Remaining returns how many features are left to load for the status,
// never negative.
func (t *Tracker) Remaining(statusKey string, loaded int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	remaining := t.states[statusKey].total - loaded
	if remaining < 0 {
		return 0
	}
	return remaining
}
