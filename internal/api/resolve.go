// Package api exposes the resolution pipeline over HTTP and MCP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kalambet/quirk/internal/classify"
	"github.com/kalambet/quirk/internal/knowledge"
	"github.com/kalambet/quirk/internal/pipeline"
	"github.com/kalambet/quirk/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB

const maxBatchDescriptions = 20

// ResolveRequest is the body of POST /resolve.
type ResolveRequest struct {
	Description string `json:"description"`
	UseCache    *bool  `json:"use_cache,omitempty"` // nil means true
	TargetPath  string `json:"target_path,omitempty"`
}

// BatchRequest is the body of POST /resolve/batch.
type BatchRequest struct {
	Descriptions []string `json:"descriptions"`
	UseCache     *bool    `json:"use_cache,omitempty"`
	TargetPath   string   `json:"target_path,omitempty"`
}

// AppDeps holds dependencies for the HTTP API.
type AppDeps struct {
	Orchestrator *pipeline.Orchestrator
	KB           *knowledge.Base
	Store        *storage.Store // optional; if nil, history is not recorded
	Token        string
}

// NewAppHandler returns the HTTP API. Everything except /healthz requires
// the bearer token.
func NewAppHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", handleHealthz)

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))
		r.Post("/resolve", handleResolve(deps))
		r.Post("/resolve/batch", handleResolveBatch(deps))
		r.Post("/research", handleResearch(deps))
		r.Get("/archetypes", handleArchetypes(deps))
		r.Get("/history", handleHistory(deps))
		r.Get("/history/{id}", handleHistoryItem(deps))
	})

	return r
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func handleResolve(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

		var req ResolveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Description == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "description is required")
			return
		}

		result := deps.Orchestrator.ResolvePersonality(r.Context(), req.Description, pipeline.Options{
			UseCache:   useCache(req.UseCache),
			TargetPath: req.TargetPath,
		})
		recordResolution(deps.Store, req.Description, result)

		w.Header().Set("Content-Type", "application/json")
		if !result.Success {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}
		json.NewEncoder(w).Encode(result)
	}
}

func handleResearch(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

		var req ResolveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Description == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "description is required")
			return
		}

		result := deps.Orchestrator.ResearchOnly(r.Context(), req.Description, useCache(req.UseCache))
		recordResolution(deps.Store, req.Description, result)

		w.Header().Set("Content-Type", "application/json")
		if !result.Success {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}
		json.NewEncoder(w).Encode(result)
	}
}

func handleResolveBatch(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

		var req BatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if len(req.Descriptions) == 0 {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "descriptions is required")
			return
		}
		if len(req.Descriptions) > maxBatchDescriptions {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "at most %d descriptions per batch", maxBatchDescriptions)
			return
		}

		results := deps.Orchestrator.ResolveBatch(r.Context(), req.Descriptions, pipeline.Options{
			UseCache:   useCache(req.UseCache),
			TargetPath: req.TargetPath,
		})
		for i, res := range results {
			recordResolution(deps.Store, req.Descriptions[i], res)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"results": results})
	}
}

// ArchetypeSummary is one entry of GET /archetypes.
type ArchetypeSummary struct {
	Key        string   `json:"key"`
	Name       string   `json:"name"`
	Traits     []string `json:"traits"`
	Tone       string   `json:"tone"`
	Mannerisms []string `json:"mannerisms,omitempty"`
}

func handleArchetypes(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keys := deps.KB.ArchetypeKeys()
		out := make([]ArchetypeSummary, 0, len(keys))
		for _, key := range keys {
			a, ok := deps.KB.Archetype(key)
			if !ok {
				continue
			}
			out = append(out, ArchetypeSummary{
				Key:        a.Key,
				Name:       a.Name,
				Traits:     a.Traits,
				Tone:       a.Tone,
				Mannerisms: a.Mannerisms,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	}
}

func handleHistory(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Store == nil {
			httpError(w, http.StatusNotImplemented, "api_error", "history storage is not configured")
			return
		}

		limit := parseIntParam(r, "limit", 20, 100)
		resolutions, err := deps.Store.ListResolutions(limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list history: %v", err)
			return
		}
		if resolutions == nil {
			resolutions = []storage.Resolution{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resolutions)
	}
}

func handleHistoryItem(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Store == nil {
			httpError(w, http.StatusNotImplemented, "api_error", "history storage is not configured")
			return
		}

		id := chi.URLParam(r, "id")
		resolution, err := deps.Store.GetResolution(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "resolution not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get resolution: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resolution)
	}
}

// recordResolution persists one pipeline run. History is best effort; a
// storage failure never fails the request.
func recordResolution(store *storage.Store, description string, result pipeline.Result) {
	if store == nil {
		return
	}

	rec := storage.Resolution{
		ID:          uuid.New().String(),
		Description: description,
		Success:     result.Success,
		CreatedAt:   time.Now().UTC(),
	}
	if a, ok := result.Partial[pipeline.PartialAnalysis].(classify.Analysis); ok {
		rec.Classification = string(a.Classification)
	}
	if result.Config != nil {
		rec.ID = result.Config.RequestID
		rec.Confidence = result.Config.Confidence
		rec.ProfileName = result.Config.Profile.Name
		rec.Environment = result.Config.Environment.TypeTag
		if b, err := json.Marshal(result.Config.Profile); err == nil {
			rec.ProfileJSON = string(b)
		}
	}
	if result.Error != nil {
		rec.ErrorCode = result.Error.Code
	}

	if err := store.SaveResolution(rec); err != nil {
		slog.Warn("failed to record resolution", "description", description, "error", err)
	}
}

func useCache(flag *bool) bool {
	if flag == nil {
		return true
	}
	return *flag
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
