package coverletters

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"coverletter-backend/internal/llm"
	"coverletter-backend/internal/shared/metrics"
	"coverletter-backend/internal/shared/telemetry"
)

// Orchestrator produces the initial variants of a new document. Every style is
// generated concurrently; a failed style is dropped without affecting siblings.
type Orchestrator struct {
	Generator llm.Generator
	Repo      Repo
	// Timeout bounds each generator call independently.
	Timeout time.Duration
	// MaxParallel caps concurrent generator calls; zero means one per style.
	MaxParallel int
	Now         func() time.Time
	NewID       func() string
}

type styleOutcome struct {
	content  string
	err      error
	duration time.Duration
}

// Generate runs one generation cycle and persists the resulting draft document.
func (o *Orchestrator) Generate(ctx context.Context, ownerID string, req GenerationRequest) (Document, error) {
	if err := validateRequest(ownerID, req); err != nil {
		return Document{}, err
	}

	metrics.IncGenerationStarted()
	start := time.Now()
	outcomes := o.fanOut(ctx, req)
	metrics.ObserveGenerationDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	if err := ctx.Err(); err != nil {
		metrics.IncGenerationFailed()
		telemetry.Warn("coverletter.generation_cancelled", map[string]any{
			"user_id": ownerID,
			"error":   err.Error(),
		})
		return Document{}, err
	}

	now := o.now()
	variants := make([]Variant, 0, len(req.Styles))
	var failures []StyleFailure
	for i, spec := range req.Styles {
		out := outcomes[i]
		if out.err != nil {
			metrics.IncVariantFailed()
			failures = append(failures, StyleFailure{StyleID: spec.ID, Err: out.err})
			telemetry.Warn("coverletter.variant_failed", map[string]any{
				"user_id":     ownerID,
				"style_id":    spec.ID,
				"style":       spec.Style,
				"error":       out.err.Error(),
				"duration_ms": float64(out.duration.Microseconds()) / 1000.0,
			})
			continue
		}
		variants = append(variants, Variant{
			ID:        spec.ID,
			Style:     spec.Style,
			Content:   out.content,
			CreatedAt: now,
		})
	}

	if len(variants) == 0 {
		metrics.IncGenerationFailed()
		return Document{}, &AllVariantsFailedError{Failures: failures}
	}

	doc := Document{
		ID:                o.newID(),
		OwnerID:           ownerID,
		Job:               req.Job,
		Subject:           req.Subject,
		Variants:          variants,
		SelectedVariantID: variants[0].ID,
		Content:           variants[0].Content,
		Status:            StatusDraft,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	doc = doc.Clone()
	if err := o.Repo.Create(ctx, doc); err != nil {
		return Document{}, fmt.Errorf("create document: %w", err)
	}

	metrics.IncGenerationSucceeded()
	telemetry.Info("coverletter.generated", map[string]any{
		"user_id":        ownerID,
		"document_id":    doc.ID,
		"variants":       len(variants),
		"failed":         len(failures),
		"selected_style": doc.SelectedVariantID,
	})
	return doc, nil
}

// fanOut waits for every style task. Tasks never report errors to the group, so
// one failure cannot cancel the others; results are addressed by style index.
func (o *Orchestrator) fanOut(ctx context.Context, req GenerationRequest) []styleOutcome {
	outcomes := make([]styleOutcome, len(req.Styles))

	var g errgroup.Group
	if o.MaxParallel > 0 {
		g.SetLimit(o.MaxParallel)
	}
	for i, spec := range req.Styles {
		i, spec := i, spec
		g.Go(func() error {
			outcomes[i] = o.generateStyle(ctx, req, spec)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (o *Orchestrator) generateStyle(ctx context.Context, req GenerationRequest, spec StyleSpec) styleOutcome {
	start := time.Now()
	prompt, err := llm.CoverLetterPrompt(llm.CoverLetterInput{
		Candidate: candidateFor(req.Subject),
		Job:       jobFor(req.Job),
		Style:     spec.Style,
	})
	if err != nil {
		return styleOutcome{err: err, duration: time.Since(start)}
	}
	content, err := callGenerator(ctx, o.Generator, prompt, o.Timeout)
	return styleOutcome{content: content, err: err, duration: time.Since(start)}
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now().UTC()
	}
	return time.Now().UTC()
}

func (o *Orchestrator) newID() string {
	if o.NewID != nil {
		return o.NewID()
	}
	return uuid.NewString()
}
