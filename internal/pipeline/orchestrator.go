// Package pipeline drives the end-to-end personality resolution flow:
// classify, resolve, render, integrate. Each stage is isolated: a failure
// produces a coded result with whatever partial output exists, and only
// truly unexpected panics cross stage boundaries, where they are caught
// once and converted to a generic error.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kalambet/quirk/internal/cache"
	"github.com/kalambet/quirk/internal/classify"
	"github.com/kalambet/quirk/internal/integrate"
	"github.com/kalambet/quirk/internal/profile"
	"github.com/kalambet/quirk/internal/resolve"
)

// Stable error codes surfaced to callers.
const (
	CodeAmbiguousInput    = "AMBIGUOUS_INPUT"
	CodeUnclearInput      = "UNCLEAR_INPUT"
	CodeResearchFailed    = "RESEARCH_FAILED"
	CodeContextGenFailed  = "CONTEXT_GENERATION_FAILED"
	CodeOrchestration     = "ORCHESTRATION_ERROR"
	CodeBatchRequestError = "BATCH_REQUEST_ERROR"
)

// Partial-result keys.
const (
	PartialAnalysis = "analysis"
	PartialProfile  = "profile"
	PartialContext  = "context"
)

const defaultBatchLimit = 5

// Renderer produces narrative context text from a profile.
type Renderer interface {
	Render(p profile.Profile) (string, error)
}

// Integrator detects editor environments and writes their rule files.
type Integrator interface {
	Detect(path string) []integrate.Environment
	Write(typeTag string, p profile.Profile, context, path string) (integrate.WriteResult, error)
}

// EnvironmentConfig is the integration outcome in a final configuration.
// TypeTag "unknown" with Active false means integration was skipped or
// degraded.
type EnvironmentConfig struct {
	TypeTag     string `json:"type_tag"`
	Active      bool   `json:"active"`
	WrittenPath string `json:"written_path,omitempty"`
	Message     string `json:"message,omitempty"`
}

// Configuration is the successful output of a full pipeline run.
type Configuration struct {
	RequestID   string            `json:"request_id"`
	Description string            `json:"description"`
	Profile     profile.Profile   `json:"profile"`
	Context     string            `json:"context,omitempty"`
	Confidence  float64           `json:"confidence"`
	Environment EnvironmentConfig `json:"environment"`
}

// ErrorDetail describes a failed request: a stable code, a human message,
// and suggestions whenever a retry is plausible.
type ErrorDetail struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Result is produced once per request and not mutated afterwards. Partial
// carries diagnostics (the analysis, a partially resolved profile) for both
// successes and failures.
type Result struct {
	Success bool           `json:"success"`
	Config  *Configuration `json:"config,omitempty"`
	Error   *ErrorDetail   `json:"error,omitempty"`
	Partial map[string]any `json:"partial,omitempty"`
}

// Options controls one pipeline run.
type Options struct {
	UseCache   bool
	TargetPath string // empty disables the integrate stage
}

// Deps are the orchestrator's injected collaborators.
type Deps struct {
	Classifier *classify.Classifier
	Resolver   *resolve.Resolver
	Cache      *cache.Cache
	Renderer   Renderer
	Integrator Integrator
	CacheTTL   time.Duration // <= 0 uses cache.DefaultTTL
	BatchLimit int           // <= 0 uses defaultBatchLimit
}

// Orchestrator runs the resolution pipeline. Stages within one request are
// strictly sequential; across requests, ResolveBatch bounds concurrency.
type Orchestrator struct {
	classifier *classify.Classifier
	resolver   *resolve.Resolver
	cache      *cache.Cache
	renderer   Renderer
	integrator Integrator
	cacheTTL   time.Duration
	batchLimit int
}

// New creates an Orchestrator from explicitly constructed dependencies.
func New(deps Deps) *Orchestrator {
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	limit := deps.BatchLimit
	if limit <= 0 {
		limit = defaultBatchLimit
	}
	return &Orchestrator{
		classifier: deps.Classifier,
		resolver:   deps.Resolver,
		cache:      deps.Cache,
		renderer:   deps.Renderer,
		integrator: deps.Integrator,
		cacheTTL:   ttl,
		batchLimit: limit,
	}
}

var genericSuggestions = []string{
	"Try a specific character or person name (e.g. 'Tony Stark').",
	"Try an archetype such as 'mentor', 'cowboy', or 'drill sergeant'.",
	"Describe the tone you want (e.g. 'friendly and patient teacher').",
}

// ResolvePersonality runs the full pipeline for one description.
func (o *Orchestrator) ResolvePersonality(ctx context.Context, description string, opts Options) (result Result) {
	partial := make(map[string]any)
	defer func() {
		if r := recover(); r != nil {
			slog.Error("pipeline panic", "description", description, "panic", r)
			result = failure(CodeOrchestration, "an unexpected error occurred while resolving the personality", genericSuggestions, partial)
		}
	}()

	// Stage 1: classify. Ambiguous and unclear inputs stop the pipeline;
	// the caller gets suggestions or questions, never a retry.
	analysis := o.classifier.Classify(description)
	partial[PartialAnalysis] = analysis

	switch analysis.Classification {
	case classify.Ambiguous:
		suggestions := analysis.Suggestions
		if len(suggestions) == 0 {
			suggestions = analysis.Questions
		}
		return failure(CodeAmbiguousInput, "the description is ambiguous — did you mean one of these?", suggestions, partial)
	case classify.Unclear:
		return failure(CodeUnclearInput, "the description is too unclear to resolve", analysis.Questions, partial)
	}

	// Stage 2: resolve.
	resolved, confidence, ok := o.resolveStage(description, analysis, opts.UseCache)
	if !ok {
		return failure(CodeResearchFailed, "no matching personality profile was found", genericSuggestions, partial)
	}
	partial[PartialProfile] = resolved

	// Stage 3: render.
	contextText, err := o.renderer.Render(resolved)
	if err != nil || contextText == "" {
		if err != nil {
			slog.Warn("context rendering failed", "profile", resolved.Name, "error", err)
		}
		return failure(CodeContextGenFailed, "failed to generate personality context — please retry", genericSuggestions, partial)
	}
	partial[PartialContext] = contextText

	// Stage 4: integrate (best effort, only with a target path).
	envConfig := o.integrateStage(resolved, contextText, opts.TargetPath)

	return Result{
		Success: true,
		Config: &Configuration{
			RequestID:   uuid.New().String(),
			Description: description,
			Profile:     resolved,
			Context:     contextText,
			Confidence:  confidence,
			Environment: envConfig,
		},
		Partial: partial,
	}
}

// ResearchOnly resolves a description to a profile without rendering or
// integration. Unlike the full pipeline it attempts resolution even for
// ambiguous or unclear classifications, so callers probing the knowledge
// base get RESEARCH_FAILED rather than an input-quality error.
func (o *Orchestrator) ResearchOnly(ctx context.Context, description string, useCache bool) (result Result) {
	partial := make(map[string]any)
	defer func() {
		if r := recover(); r != nil {
			slog.Error("research panic", "description", description, "panic", r)
			result = failure(CodeOrchestration, "an unexpected error occurred while researching the personality", genericSuggestions, partial)
		}
	}()

	analysis := o.classifier.Classify(description)
	partial[PartialAnalysis] = analysis

	resolved, confidence, ok := o.resolveStage(description, analysis, useCache)
	if !ok {
		return failure(CodeResearchFailed, "no matching personality profile was found", genericSuggestions, partial)
	}
	partial[PartialProfile] = resolved

	return Result{
		Success: true,
		Config: &Configuration{
			RequestID:   uuid.New().String(),
			Description: description,
			Profile:     resolved,
			Confidence:  confidence,
			Environment: EnvironmentConfig{TypeTag: "unknown"},
		},
		Partial: partial,
	}
}

// ResolveBatch runs the pipeline for every description with bounded
// concurrency. Results preserve input order; a panic in one item becomes a
// failed result for that item only.
func (o *Orchestrator) ResolveBatch(ctx context.Context, descriptions []string, opts Options) []Result {
	results := make([]Result, len(descriptions))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(o.batchLimit)

	for i, desc := range descriptions {
		i, desc := i, desc
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("batch item panic", "index", i, "panic", r)
					results[i] = failure(CodeBatchRequestError, "the batch item failed unexpectedly", genericSuggestions, nil)
				}
			}()
			results[i] = o.ResolvePersonality(gCtx, desc, opts)
			return nil
		})
	}

	// Workers never return errors; Wait only synchronizes completion.
	_ = g.Wait()
	return results
}

// resolveStage resolves the classified subject, consulting the cache when
// enabled. Combination resolution falls back to a direct resolve of the
// extracted primary subject when blending fails outright.
func (o *Orchestrator) resolveStage(description string, analysis classify.Analysis, useCache bool) (profile.Profile, float64, bool) {
	if useCache && o.cache != nil {
		if hit, ok := o.cache.Get(description); ok {
			return hit.Profile, hit.Confidence, true
		}
	}

	p, conf, ok := o.resolveAnalysis(analysis)
	if !ok {
		return profile.Profile{}, 0, false
	}

	if useCache && o.cache != nil {
		o.cache.Set(description, cache.Resolution{Profile: p, Confidence: conf}, o.cacheTTL)
	}
	return p, conf, true
}

func (o *Orchestrator) resolveAnalysis(analysis classify.Analysis) (profile.Profile, float64, bool) {
	subject := analysis.Primary
	if subject == "" {
		return profile.Profile{}, 0, false
	}

	if analysis.Classification == classify.Combination {
		modifier := ""
		if len(analysis.Modifiers) > 0 {
			modifier = analysis.Modifiers[0]
		}
		if p, conf, ok := o.resolver.ResolveCombination(analysis.Kind, subject, modifier); ok {
			return p, conf, true
		}
		// Blending failed at the primary; fall through to direct paths.
	}

	if p, conf, ok := o.resolver.Resolve(subject); ok {
		return p, conf, true
	}
	if p, ok := o.resolver.Synthesize(subject); ok {
		return p, analysis.Confidence, true
	}
	return profile.Profile{}, 0, false
}

// integrateStage detects and writes editor configuration. Every failure
// path degrades to an inactive environment instead of failing the request.
func (o *Orchestrator) integrateStage(p profile.Profile, contextText, targetPath string) EnvironmentConfig {
	unknown := EnvironmentConfig{TypeTag: "unknown", Active: false}
	if targetPath == "" || o.integrator == nil {
		return unknown
	}

	envs := o.integrator.Detect(targetPath)
	if len(envs) == 0 {
		slog.Info("no editor environment detected", "path", targetPath)
		return unknown
	}

	best := envs[0]
	for _, e := range envs[1:] {
		if e.Confidence > best.Confidence {
			best = e
		}
	}

	written, err := o.integrator.Write(best.TypeTag, p, contextText, targetPath)
	if err != nil || !written.Success {
		slog.Warn("environment integration failed", "environment", best.TypeTag, "error", err)
		return EnvironmentConfig{TypeTag: best.TypeTag, Active: false, Message: "integration failed; configuration left inactive"}
	}

	return EnvironmentConfig{
		TypeTag:     best.TypeTag,
		Active:      true,
		WrittenPath: written.WrittenPath,
		Message:     written.Message,
	}
}

func failure(code, message string, suggestions []string, partial map[string]any) Result {
	if len(suggestions) == 0 {
		suggestions = genericSuggestions
	}
	return Result{
		Success: false,
		Error: &ErrorDetail{
			Code:        code,
			Message:     message,
			Suggestions: suggestions,
		},
		Partial: partial,
	}
}
