package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kalambet/quirk/internal/cache"
	"github.com/kalambet/quirk/internal/classify"
	"github.com/kalambet/quirk/internal/knowledge"
	"github.com/kalambet/quirk/internal/pipeline"
	"github.com/kalambet/quirk/internal/render"
	"github.com/kalambet/quirk/internal/resolve"
	"github.com/kalambet/quirk/internal/storage"
)

const testToken = "test-token"

func newTestHandler(t *testing.T) (http.Handler, *storage.Store) {
	t.Helper()

	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	kb := knowledge.New()
	orch := pipeline.New(pipeline.Deps{
		Classifier: classify.New(kb),
		Resolver:   resolve.New(kb),
		Cache:      cache.New(),
		Renderer:   render.New(),
	})

	return NewAppHandler(AppDeps{
		Orchestrator: orch,
		KB:           kb,
		Store:        store,
		Token:        testToken,
	}), store
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestResolve_Success(t *testing.T) {
	h, store := newTestHandler(t)

	w := doJSON(t, h, http.MethodPost, "/resolve", ResolveRequest{Description: "cowboy personality"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result pipeline.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %+v", result.Error)
	}
	if result.Config.Profile.Name != "Cowboy" {
		t.Errorf("profile name = %q, want Cowboy", result.Config.Profile.Name)
	}

	// The run is recorded in history.
	recs, err := store.ListResolutions(10)
	if err != nil {
		t.Fatalf("listing resolutions: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("history len = %d, want 1", len(recs))
	}
	if recs[0].ID != result.Config.RequestID {
		t.Errorf("history ID = %q, want request ID %q", recs[0].ID, result.Config.RequestID)
	}
	if !recs[0].Success || recs[0].ProfileName != "Cowboy" {
		t.Errorf("history record = %+v", recs[0])
	}
}

func TestResolve_UnclearInput(t *testing.T) {
	h, _ := newTestHandler(t)

	w := doJSON(t, h, http.MethodPost, "/resolve", ResolveRequest{Description: "xyzzyunknown123"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}

	var result pipeline.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.Success || result.Error == nil {
		t.Fatal("expected a failed result with error detail")
	}
	if result.Error.Code != pipeline.CodeUnclearInput {
		t.Errorf("error code = %q, want %q", result.Error.Code, pipeline.CodeUnclearInput)
	}
}

func TestResearch_PermissiveOnUnclear(t *testing.T) {
	h, _ := newTestHandler(t)

	// Research skips the input-quality gate, so an unresolvable input fails
	// with RESEARCH_FAILED rather than UNCLEAR_INPUT.
	w := doJSON(t, h, http.MethodPost, "/research", ResolveRequest{Description: "xyzzyunknown123"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}

	var result pipeline.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.Error == nil || result.Error.Code != pipeline.CodeResearchFailed {
		t.Errorf("error = %+v, want %s", result.Error, pipeline.CodeResearchFailed)
	}
}

func TestResearch_Success(t *testing.T) {
	h, _ := newTestHandler(t)

	w := doJSON(t, h, http.MethodPost, "/research", ResolveRequest{Description: "butler"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result pipeline.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !result.Success || result.Config.Profile.Name != "Butler" {
		t.Errorf("result = %+v", result)
	}
	if result.Config.Context != "" {
		t.Error("research should not render context")
	}
}

func TestResolve_MissingDescription(t *testing.T) {
	h, _ := newTestHandler(t)

	w := doJSON(t, h, http.MethodPost, "/resolve", ResolveRequest{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestResolveBatch_PreservesOrder(t *testing.T) {
	h, _ := newTestHandler(t)

	descriptions := []string{"drill sergeant", "xyzzyunknown123", "mentor"}
	w := doJSON(t, h, http.MethodPost, "/resolve/batch", BatchRequest{Descriptions: descriptions})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Results []pipeline.Result `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Results) != len(descriptions) {
		t.Fatalf("results len = %d, want %d", len(resp.Results), len(descriptions))
	}
	if !resp.Results[0].Success || resp.Results[0].Config.Profile.Name != "Drill Sergeant" {
		t.Errorf("result 0 = %+v", resp.Results[0])
	}
	if resp.Results[1].Success {
		t.Error("result 1 should have failed")
	}
	if !resp.Results[2].Success || resp.Results[2].Config.Profile.Name != "Mentor" {
		t.Errorf("result 2 = %+v", resp.Results[2])
	}
}

func TestResolveBatch_TooLarge(t *testing.T) {
	h, _ := newTestHandler(t)

	descs := make([]string, maxBatchDescriptions+1)
	for i := range descs {
		descs[i] = "mentor"
	}
	w := doJSON(t, h, http.MethodPost, "/resolve/batch", BatchRequest{Descriptions: descs})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestArchetypes(t *testing.T) {
	h, _ := newTestHandler(t)

	w := doJSON(t, h, http.MethodGet, "/archetypes", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var out []ArchetypeSummary
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("no archetypes returned")
	}
	found := false
	for _, a := range out {
		if a.Key == "cowboy" {
			found = true
			if a.Name != "Cowboy" || len(a.Traits) == 0 {
				t.Errorf("cowboy summary = %+v", a)
			}
		}
	}
	if !found {
		t.Error("cowboy archetype missing from listing")
	}
}

func TestHistory_Item(t *testing.T) {
	h, _ := newTestHandler(t)

	w := doJSON(t, h, http.MethodPost, "/resolve", ResolveRequest{Description: "pirate"})
	if w.Code != http.StatusOK {
		t.Fatalf("resolve status = %d", w.Code)
	}
	var result pipeline.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	w = doJSON(t, h, http.MethodGet, "/history/"+result.Config.RequestID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("history status = %d, body = %s", w.Code, w.Body.String())
	}

	var rec storage.Resolution
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decoding history item: %v", err)
	}
	if rec.Description != "pirate" {
		t.Errorf("description = %q, want pirate", rec.Description)
	}
}

func TestHistory_NotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	w := doJSON(t, h, http.MethodGet, "/history/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestAuth_Required(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/archetypes", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/archetypes", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status with bad token = %d, want 401", w.Code)
	}
}

func TestHealthz_NoAuth(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
