package board

import (
	"testing"

	"github.com/featurekit/board-widget/pkg/api"
)

func TestDetailCache_GetPut(t *testing.T) {
	cache := NewDetailCache()

	if _, ok := cache.Get("f-1"); ok {
		t.Error("Empty cache should miss")
	}

	feature := &api.ShowFeature{Description: "<p>hello</p>"}
	feature.ID = "f-1"
	cache.Put("f-1", feature)

	got, ok := cache.Get("f-1")
	if !ok {
		t.Fatal("Expected cache hit")
	}
	if got != feature {
		t.Error("Get should return the stored record")
	}
	if cache.Len() != 1 {
		t.Errorf("Len = %d, want 1", cache.Len())
	}
}

func TestDetailCache_MissingPreviews(t *testing.T) {
	cache := NewDetailCache()
	cache.PutPreview("f-1", "cached preview")

	batch := []api.IndexFeature{
		{ID: "f-1"},
		{ID: "f-2"},
		{ID: "f-3"},
	}

	missing := cache.MissingPreviews(batch)
	if len(missing) != 2 {
		t.Fatalf("Got %d missing, want 2", len(missing))
	}
	if missing[0] != "f-2" || missing[1] != "f-3" {
		t.Errorf("Missing = %v, want [f-2 f-3] in batch order", missing)
	}
}

func TestDetailCache_PreviewsReturnsCopy(t *testing.T) {
	cache := NewDetailCache()
	cache.PutPreview("f-1", "preview")

	previews := cache.Previews()
	previews["f-1"] = "mutated"
	previews["f-2"] = "injected"

	if got, _ := cache.Preview("f-1"); got != "preview" {
		t.Error("Mutating the returned map must not affect the cache")
	}
	if _, ok := cache.Preview("f-2"); ok {
		t.Error("Mutating the returned map must not affect the cache")
	}
}
