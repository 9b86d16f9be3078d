package board

import (
	"sync"

	"github.com/featurekit/board-widget/pkg/api"
)

// DetailCache stores fully-loaded feature records and their derived
// description previews, keyed by feature id. Entries are written once and
// never evicted: the cache lives only as long as a single widget mount, and
// feature counts are bounded by what a user can page through interactively.
//
// Any code path that needs a detail record must check the cache before
// fetching, both to avoid a duplicate round trip and to avoid resetting the
// open modal's ephemeral session state.
type DetailCache struct {
	mu       sync.RWMutex
	details  map[string]*api.ShowFeature
	previews map[string]string
}

// NewDetailCache creates an empty detail cache.
func NewDetailCache() *DetailCache {
	return &DetailCache{
		details:  make(map[string]*api.ShowFeature),
		previews: make(map[string]string),
	}
}

// Get returns the cached detail record for id, if present.
func (c *DetailCache) Get(id string) (*api.ShowFeature, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	feature, ok := c.details[id]
	return feature, ok
}

// Put stores a detail record. Idempotent; last write wins, though in
// practice each id is written once because prefetch checks presence first.
func (c *DetailCache) Put(id string, feature *api.ShowFeature) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.details[id] = feature
}

// Preview returns the cached description preview for id, if present.
func (c *DetailCache) Preview(id string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	preview, ok := c.previews[id]
	return preview, ok
}

// PutPreview stores a derived description preview.
func (c *DetailCache) PutPreview(id, preview string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.previews[id] = preview
}

// MissingPreviews returns the ids from the batch that have no preview yet,
// in batch order. This is the prefetch subset computation.
func (c *DetailCache) MissingPreviews(features []api.IndexFeature) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var missing []string
	for _, f := range features {
		if _, ok := c.previews[f.ID]; !ok {
			missing = append(missing, f.ID)
		}
	}
	return missing
}

// Previews returns a copy of the preview map keyed by feature id.
func (c *DetailCache) Previews() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]string, len(c.previews))
	for id, preview := range c.previews {
		out[id] = preview
	}
	return out
}

// Len returns the number of cached detail records.
func (c *DetailCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.details)
}
