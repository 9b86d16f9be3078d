package board

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/featurekit/board-widget/pkg/api"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultPerPage is the page size for per-status feature fetches.
const DefaultPerPage = 50

// loadErrMessage is the coarse message shown when the initial load fails.
const loadErrMessage = "Failed to load board"

// Client is the subset of the board API the orchestrator needs.
// *api.Client satisfies it.
type Client interface {
	ListStatuses(ctx context.Context) ([]api.Status, error)
	ListFeatures(ctx context.Context, statusKey string, page, perPage int) (*api.FeatureList, error)
	GetFeature(ctx context.Context, id string) (*api.ShowFeature, error)
	CreateComment(ctx context.Context, featureID string, input api.CommentInput) (*api.Comment, error)
	CreateUpvote(ctx context.Context, featureID string, contributor api.Contributor) error
	CreateFeature(ctx context.Context, input api.FeatureInput) error
}

// Config holds orchestrator configuration.
type Config struct {
	// PerPage is the page size for feature fetches (default: DefaultPerPage).
	PerPage int

	// StatusFilter restricts the board to statuses whose lowercased name is
	// in the list. Empty means all statuses. A filter that matches nothing
	// yields an empty board, not an error.
	StatusFilter []string
}

// boardState is the orchestrator-owned mutable state. It is created empty
// on mount and discarded entirely on Close; nothing persists across mounts.
type boardState struct {
	statuses         []api.Status
	featuresByStatus map[string][]api.IndexFeature
	selected         *api.ShowFeature
	voted            bool
	loading          bool
	err              string
}

// Orchestrator sequences the board load lifecycle: statuses, then a
// best-effort parallel fan-out of first-page feature fetches and detail
// prefetches per status, then incremental load-more and open-detail
// operations issued by the user.
type Orchestrator struct {
	client Client
	config Config
	logger zerolog.Logger

	mu      sync.Mutex
	gen     int
	state   boardState
	tracker *Tracker
	cache   *DetailCache
}

// NewOrchestrator creates an orchestrator for the given client.
func NewOrchestrator(client Client, cfg Config) *Orchestrator {
	if cfg.PerPage <= 0 {
		cfg.PerPage = DefaultPerPage
	}

	return &Orchestrator{
		client:  client,
		config:  cfg,
		logger:  log.With().Str("component", "board").Logger(),
		state:   boardState{featuresByStatus: make(map[string][]api.IndexFeature)},
		tracker: NewTracker(),
		cache:   NewDetailCache(),
	}
}

// publish applies fn to the state unless the load generation that produced
// it has been superseded. Stale branches settle but leave no trace.
func (o *Orchestrator) publish(gen int, fn func(*boardState)) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.gen {
		return false
	}
	fn(&o.state)
	return true
}

// currentGen returns the active load generation.
func (o *Orchestrator) currentGen() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.gen
}

// Load performs the initial full-board load. A failure fetching the status
// list is fatal: the board shows a coarse error state with no partial UI.
// Every per-status branch after that is best effort. Calling Load again
// supersedes any load still in flight; the detail cache is retained across
// loads, pagination is reset.
func (o *Orchestrator) Load(ctx context.Context) {
	start := time.Now()

	o.mu.Lock()
	o.gen++
	gen := o.gen
	o.state = boardState{
		loading:          true,
		featuresByStatus: make(map[string][]api.IndexFeature),
	}
	o.tracker = NewTracker()
	tracker := o.tracker
	o.mu.Unlock()

	statuses, err := o.client.ListStatuses(ctx)
	if err != nil {
		o.logger.Error().Err(err).Msg("Status list fetch failed")
		o.publish(gen, func(s *boardState) {
			s.loading = false
			s.err = loadErrMessage
		})
		return
	}

	filtered := filterStatuses(statuses, o.config.StatusFilter)

	type statusResult struct {
		key      string
		features []api.IndexFeature
		total    int
		ok       bool
	}

	// Fan out first-page fetches per status. Branches write disjoint slots
	// and settle behind the join barrier before the single publish.
	results := make([]statusResult, len(filtered))
	var wg sync.WaitGroup
	for i, status := range filtered {
		wg.Add(1)
		go func(i int, status api.Status) {
			defer wg.Done()
			key := status.Key()

			page, err := o.client.ListFeatures(ctx, key, 1, o.config.PerPage)
			if err != nil {
				// Downgraded to an empty column; siblings are unaffected.
				o.logger.Warn().
					Err(err).
					Str("status_key", key).
					Msg("Feature fetch downgraded to empty column")
				results[i] = statusResult{key: key}
				return
			}

			results[i] = statusResult{
				key:      key,
				features: page.Records,
				total:    page.TotalCount,
				ok:       true,
			}
			o.prefetchDetails(ctx, page.Records)
		}(i, status)
	}
	wg.Wait()

	published := o.publish(gen, func(s *boardState) {
		s.statuses = filtered
		for _, r := range results {
			if r.features == nil {
				r.features = []api.IndexFeature{}
			}
			s.featuresByStatus[r.key] = r.features
			if r.ok {
				tracker.Advance(r.key, 1, r.total)
			}
		}
		s.loading = false
	})

	if published {
		o.logger.Info().
			Int("statuses", len(filtered)).
			Dur("duration", time.Since(start)).
			Msg("Board load complete")
	} else {
		o.logger.Debug().Msg("Board load superseded; results discarded")
	}
}

// LoadMore fetches the next page for a status column and appends its
// records. Failures are silent: no state changes, the action stays
// retryable. This fail-quiet behavior is a documented contract, not a gap.
func (o *Orchestrator) LoadMore(ctx context.Context, statusKey string) {
	o.mu.Lock()
	gen := o.gen
	tracker := o.tracker
	o.mu.Unlock()

	nextPage := tracker.NextPage(statusKey)

	page, err := o.client.ListFeatures(ctx, statusKey, nextPage, o.config.PerPage)
	if err != nil {
		o.logger.Debug().
			Err(err).
			Str("status_key", statusKey).
			Int("page", nextPage).
			Msg("Load more failed; leaving column unchanged")
		return
	}

	// Append-only: the column never shrinks. Records are not deduplicated
	// across pages; if the server returns overlapping pages (offsets shifted
	// by concurrent inserts) a duplicate card can appear. The server's
	// pagination contract does not specify this case.
	published := o.publish(gen, func(s *boardState) {
		s.featuresByStatus[statusKey] = append(s.featuresByStatus[statusKey], page.Records...)
	})
	if !published {
		return
	}

	tracker.Advance(statusKey, nextPage, page.TotalCount)
	o.prefetchDetails(ctx, page.Records)
}

// OpenDetail selects a feature for the modal. A cached record is selected
// synchronously with no network round trip; otherwise the detail is fetched
// and cached first. A fetch failure is swallowed and the modal simply never
// opens. Opening starts a fresh modal session (the upvote flag resets).
func (o *Orchestrator) OpenDetail(ctx context.Context, id string) {
	gen := o.currentGen()

	if detail, ok := o.cache.Get(id); ok {
		o.logger.Debug().Str("feature_id", id).Msg("Detail served from cache")
		o.publish(gen, func(s *boardState) {
			s.selected = detail
			s.voted = false
		})
		return
	}

	detail, err := o.client.GetFeature(ctx, id)
	if err != nil {
		o.logger.Debug().
			Err(err).
			Str("feature_id", id).
			Msg("Detail fetch failed; modal not opened")
		return
	}

	o.cache.Put(id, detail)
	o.cache.PutPreview(id, makePreview(detail.Description))

	o.publish(gen, func(s *boardState) {
		s.selected = detail
		s.voted = false
	})
}

// CloseDetail closes the open modal, ending its session.
func (o *Orchestrator) CloseDetail() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.selected = nil
	o.state.voted = false
}

// SubmitComment validates the form locally, then posts the comment on the
// selected feature. Field errors, local or server-side, come back in
// FormErrors; transport failures come back as error. On success the
// displayed comment list is NOT refreshed: the modal keeps showing the
// snapshot fetched when it was opened.
func (o *Orchestrator) SubmitComment(ctx context.Context, form CommentForm) (*FormErrors, error) {
	o.mu.Lock()
	selected := o.state.selected
	o.mu.Unlock()

	if selected == nil {
		return nil, fmt.Errorf("no feature selected")
	}

	if errs := form.validate(); errs != nil {
		return errs, nil
	}

	_, err := o.client.CreateComment(ctx, selected.ID, api.CommentInput{
		Message: form.Message,
		Contributor: api.Contributor{
			Name:  strings.TrimSpace(form.Name),
			Email: strings.TrimSpace(form.Email),
		},
	})
	if err != nil {
		if fields, ok := api.AsFieldErrors(err); ok {
			if errs := serverFormErrors(fields); errs != nil {
				return errs, nil
			}
		}
		return nil, err
	}

	return nil, nil
}

// Upvote posts an upvote for the selected feature, at most once per modal
// session. On success the displayed public counter is optimistically
// incremented by exactly 1 and the session flag stays set for the lifetime
// of the open modal. A transport failure is swallowed (fail quiet); only
// validation errors are reported.
func (o *Orchestrator) Upvote(ctx context.Context, form UpvoteForm) *FormErrors {
	o.mu.Lock()
	gen := o.gen
	selected := o.state.selected
	voted := o.state.voted
	o.mu.Unlock()

	if selected == nil || voted {
		return nil
	}

	if errs := form.validate(); errs != nil {
		return errs
	}

	err := o.client.CreateUpvote(ctx, selected.ID, api.Contributor{
		Name:  strings.TrimSpace(form.Name),
		Email: strings.TrimSpace(form.Email),
	})
	if err != nil {
		o.logger.Debug().
			Err(err).
			Str("feature_id", selected.ID).
			Msg("Upvote failed; no state change")
		return nil
	}

	o.publish(gen, func(s *boardState) {
		if s.selected == nil || s.selected.ID != selected.ID {
			return
		}
		s.selected.PublicUpvotesCount++
		s.voted = true
	})
	return nil
}

// SubmitFeature validates the feature-request form locally, then posts the
// new feature. The board is not reloaded on success; the submitted feature
// appears once the initial status column is fetched again.
func (o *Orchestrator) SubmitFeature(ctx context.Context, form FeatureForm) (*FormErrors, error) {
	if errs := form.validate(); errs != nil {
		return errs, nil
	}

	err := o.client.CreateFeature(ctx, api.FeatureInput{
		Title:       strings.TrimSpace(form.Title),
		Description: form.Description,
		Contributor: api.Contributor{
			Name:  strings.TrimSpace(form.Name),
			Email: strings.TrimSpace(form.Email),
		},
	})
	if err != nil {
		if fields, ok := api.AsFieldErrors(err); ok {
			if errs := serverFormErrors(fields); errs != nil {
				return errs, nil
			}
		}
		return nil, err
	}

	o.logger.Info().Msg("Feature request submitted")
	return nil, nil
}

// Snapshot returns the derived view of the current state. It is recomputed
// on every call; all projections are cheap.
func (o *Orchestrator) Snapshot() View {
	o.mu.Lock()
	defer o.mu.Unlock()

	view := View{
		Statuses:         sortStatuses(o.state.statuses),
		FeaturesByStatus: make(map[string][]api.IndexFeature, len(o.state.featuresByStatus)),
		HasMore:          make(map[string]bool, len(o.state.featuresByStatus)),
		Remaining:        make(map[string]int, len(o.state.featuresByStatus)),
		PreviewsByID:     o.cache.Previews(),
		Selected:         o.state.selected,
		Voted:            o.state.voted,
		Loading:          o.state.loading,
		Err:              o.state.err,
	}

	for key, features := range o.state.featuresByStatus {
		view.FeaturesByStatus[key] = append([]api.IndexFeature(nil), features...)
		loaded := len(features)
		view.HasMore[key] = o.tracker.HasMore(key, loaded)
		view.Remaining[key] = o.tracker.Remaining(key, loaded)
	}

	return view
}

// Cache returns the detail cache (for testing).
func (o *Orchestrator) Cache() *DetailCache {
	return o.cache
}

// Close discards the board state, superseding any load still in flight.
// Late state updates from settled branches become no-ops.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.gen++
	o.state = boardState{featuresByStatus: make(map[string][]api.IndexFeature)}
}

// prefetchDetails fetches detail records for every feature in the batch
// whose preview is not already cached, concurrently and unordered. Each
// success stores the full record and its derived preview; a failure leaves
// that one feature without a preview and is otherwise swallowed.
func (o *Orchestrator) prefetchDetails(ctx context.Context, features []api.IndexFeature) {
	missing := o.cache.MissingPreviews(features)
	if len(missing) == 0 {
		return
	}

	o.logger.Debug().Int("count", len(missing)).Msg("Prefetching feature details")

	var wg sync.WaitGroup
	for _, id := range missing {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()

			detail, err := o.client.GetFeature(ctx, id)
			if err != nil {
				o.logger.Warn().
					Err(err).
					Str("feature_id", id).
					Msg("Detail prefetch failed")
				return
			}

			o.cache.Put(id, detail)
			o.cache.PutPreview(id, makePreview(detail.Description))
		}(id)
	}
	wg.Wait()
}

// filterStatuses applies the case-insensitive allow-list. An empty filter
// keeps everything.
func filterStatuses(statuses []api.Status, filter []string) []api.Status {
	if len(filter) == 0 {
		return statuses
	}

	allowed := make(map[string]bool, len(filter))
	for _, name := range filter {
		allowed[strings.ToLower(strings.TrimSpace(name))] = true
	}

	var kept []api.Status
	for _, status := range statuses {
		if allowed[status.Key()] {
			kept = append(kept, status)
		}
	}
	return kept
}
