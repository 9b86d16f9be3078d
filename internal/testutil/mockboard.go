// Package testutil provides testing utilities for the board widget.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/featurekit/board-widget/pkg/api"
	"github.com/google/uuid"
)

// MockBoard is a configurable in-process board API server for testing.
// Fixtures are full detail records; the list endpoint derives the index
// representation and paginates over them.
type MockBoard struct {
	server *httptest.Server

	mu           sync.RWMutex
	statuses     []api.Status
	features     map[string][]api.ShowFeature
	requireToken string

	failStatuses bool
	failFeatures map[string]bool
	failDetails  map[string]bool
	failUpvotes    bool
	rejectBody     string
	rejectFeatures string
	delay          time.Duration

	pathCounts map[string]int
}

// NewMockBoard creates a mock board API server with no fixtures.
func NewMockBoard() *MockBoard {
	mock := &MockBoard{
		features:     make(map[string][]api.ShowFeature),
		failFeatures: make(map[string]bool),
		failDetails:  make(map[string]bool),
		pathCounts:   make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(mock.route))
	return mock
}

// URL returns the mock server origin, usable as the client BaseURL.
func (m *MockBoard) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockBoard) Close() {
	m.server.Close()
}

// AddStatus registers a status column.
func (m *MockBoard) AddStatus(name string, order int) api.Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := api.Status{Name: name, Order: order}
	m.statuses = append(m.statuses, status)
	return status
}

// AddFeature registers a feature under a status key and returns its record.
func (m *MockBoard) AddFeature(statusKey, title, description string) api.ShowFeature {
	m.mu.Lock()
	defer m.mu.Unlock()

	feature := api.ShowFeature{
		IndexFeature: api.IndexFeature{
			ID:         uuid.NewString(),
			Title:      title,
			Status:     statusKey,
			InsertedAt: time.Now().UTC().Format(time.RFC3339),
			URL:        m.server.URL + "/features/",
		},
		Description: description,
	}
	feature.URL += feature.ID
	m.features[statusKey] = append(m.features[statusKey], feature)
	return feature
}

// RequireToken makes the server reject requests whose bearer token differs.
func (m *MockBoard) RequireToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requireToken = token
}

// FailStatuses makes the status list endpoint return 500.
func (m *MockBoard) FailStatuses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failStatuses = true
}

// FailFeatures makes the list endpoint return 500 for one status key.
func (m *MockBoard) FailFeatures(statusKey string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failFeatures[statusKey] = true
}

// FailDetail makes the detail endpoint return 500 for one feature id.
func (m *MockBoard) FailDetail(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failDetails[id] = true
}

// FailUpvotes makes the upvote endpoint return 500.
func (m *MockBoard) FailUpvotes() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failUpvotes = true
}

// RejectComments makes comment creation return 422 with the given body.
func (m *MockBoard) RejectComments(body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejectBody = body
}

// RejectFeatures makes feature creation return 422 with the given body.
func (m *MockBoard) RejectFeatures(body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejectFeatures = body
}

// SetDelay adds a fixed delay to every response.
func (m *MockBoard) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Requests returns the number of requests observed for an exact path.
func (m *MockBoard) Requests(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pathCounts[path]
}

// DetailRequests returns the number of detail fetches for a feature id.
func (m *MockBoard) DetailRequests(id string) int {
	return m.Requests("/features/" + id)
}

func (m *MockBoard) route(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.pathCounts[r.URL.Path]++
	delay := m.delay
	required := m.requireToken
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	if required != "" && r.Header.Get("Authorization") != "Bearer "+required {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case path == "/statuses" && r.Method == http.MethodGet:
		m.handleStatuses(w)
	case path == "/features" && r.Method == http.MethodGet:
		m.handleFeatureList(w, r)
	case path == "/features" && r.Method == http.MethodPost:
		m.handleCreateFeature(w, r)
	case strings.HasSuffix(path, "/comments") && r.Method == http.MethodPost:
		m.handleCreateComment(w, r)
	case strings.HasSuffix(path, "/upvotes") && r.Method == http.MethodPost:
		m.handleCreateUpvote(w)
	case strings.HasPrefix(path, "/features/") && r.Method == http.MethodGet:
		m.handleFeatureDetail(w, strings.TrimPrefix(path, "/features/"))
	default:
		http.NotFound(w, r)
	}
}

func (m *MockBoard) handleStatuses(w http.ResponseWriter) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failStatuses {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, api.StatusList{Records: append([]api.Status(nil), m.statuses...)})
}

func (m *MockBoard) handleFeatureList(w http.ResponseWriter, r *http.Request) {
	statusKey := r.URL.Query().Get("status")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 || perPage < 1 {
		http.Error(w, `{"error":"bad pagination"}`, http.StatusBadRequest)
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failFeatures[statusKey] {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}

	all := m.features[statusKey]
	start := (page - 1) * perPage
	end := start + perPage
	if start > len(all) {
		start = len(all)
	}
	if end > len(all) {
		end = len(all)
	}

	records := make([]api.IndexFeature, 0, end-start)
	for _, f := range all[start:end] {
		records = append(records, f.IndexFeature)
	}

	totalPages := (len(all) + perPage - 1) / perPage
	writeJSON(w, http.StatusOK, api.FeatureList{
		Page:       page,
		PerPage:    perPage,
		TotalCount: len(all),
		TotalPages: totalPages,
		Records:    records,
	})
}

func (m *MockBoard) handleFeatureDetail(w http.ResponseWriter, id string) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failDetails[id] {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}

	for _, features := range m.features {
		for _, f := range features {
			if f.ID == id {
				writeJSON(w, http.StatusOK, f)
				return
			}
		}
	}
	http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
}

func (m *MockBoard) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	rejectBody := m.rejectBody
	m.mu.RUnlock()

	if rejectBody != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, rejectBody)
		return
	}

	var input api.CommentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, `{"error":"bad request"}`, http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, api.Comment{
		ID:          uuid.NewString(),
		Message:     input.Message,
		InsertedAt:  time.Now().UTC().Format(time.RFC3339),
		Contributor: &input.Contributor,
	})
}

func (m *MockBoard) handleCreateUpvote(w http.ResponseWriter) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failUpvotes {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (m *MockBoard) handleCreateFeature(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	rejectFeatures := m.rejectFeatures
	m.mu.RUnlock()

	if rejectFeatures != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, rejectFeatures)
		return
	}

	var input api.FeatureInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, `{"error":"bad request"}`, http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(input.Title) == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"errors":{"title":["can't be blank"]}}`)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
