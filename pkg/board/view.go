package board

import (
	"sort"

	"github.com/featurekit/board-widget/pkg/api"
)

// View is the presentation-ready projection of board state handed to the
// rendering layer. Slices and maps are copies; mutating a View does not
// affect the orchestrator. Selected points at the live detail record and is
// read-only by contract.
type View struct {
	// Statuses sorted ascending by order; ties keep fetch order.
	Statuses []api.Status `json:"statuses"`

	// FeaturesByStatus maps column key to features in page-append order.
	FeaturesByStatus map[string][]api.IndexFeature `json:"features_by_status"`

	// HasMore reports per column whether a load-more would fetch anything.
	HasMore map[string]bool `json:"has_more"`

	// Remaining is the per-column count of features not yet loaded.
	Remaining map[string]int `json:"remaining"`

	// PreviewsByID maps feature id to its truncated description preview.
	// A feature whose detail prefetch failed has no entry; its card renders
	// without a snippet.
	PreviewsByID map[string]string `json:"previews_by_id"`

	// Selected is the feature shown in the open modal, or nil.
	Selected *api.ShowFeature `json:"selected,omitempty"`

	// Voted reports whether the current modal session has already upvoted.
	Voted bool `json:"voted"`

	// Loading and Err cover only the initial full-board load.
	Loading bool   `json:"loading"`
	Err     string `json:"error,omitempty"`
}

// sortStatuses returns a copy of statuses sorted ascending by order.
// The sort is stable: equal orders keep their original fetch order.
func sortStatuses(statuses []api.Status) []api.Status {
	sorted := append([]api.Status(nil), statuses...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}
