// Package board implements the data-orchestration core of the embeddable
// feedback widget: it fetches status columns and paginated features from the
// remote board API, prefetches and caches per-feature detail, tracks
// per-status pagination, and exposes a derived, presentation-ready view of
// the aggregated state.
//
// The central design property is best-effort fan-out with partial-failure
// isolation: per-status feature fetches and per-feature detail prefetches
// run concurrently, and a failure in any single branch degrades that one
// column or card without affecting its siblings. Only the initial status
// list fetch is fatal to a load.
//
// # Components
//
//   - Orchestrator: the load/load-more/open-detail state machine
//   - Tracker: per-status pagination cursors and total counts
//   - DetailCache: feature-id keyed store of detail records and previews
//   - View: the pure projection handed to the rendering layer
//
// # Concurrency
//
// State is owned exclusively by the Orchestrator and guarded by a mutex.
// Concurrent fan-out branches write disjoint keys (by status or feature id)
// and settle behind a join barrier before the aggregated publish. Loads are
// cancelled by superseding them: each load carries a generation number, and
// a publish from a stale generation is a no-op, so a slow load can never
// clobber a newer one.
package board
