package coverletters

import (
	"context"
	"fmt"
	"time"

	"coverletter-backend/internal/llm"
	"coverletter-backend/internal/shared/metrics"
	"coverletter-backend/internal/shared/telemetry"
)

// Operation names a revision applied to one variant.
type Operation string

const (
	OpRewrite    Operation = "rewrite"
	OpShorten    Operation = "shorten"
	OpExpand     Operation = "expand"
	OpManualEdit Operation = "manual_edit"
)

// RevisionEngine mutates a single variant of a document. Calls on the same
// variant are serialized; calls on different variants or documents are not.
// Rewrite, Shorten and Expand are generative and not idempotent; ManualEdit is.
type RevisionEngine struct {
	Generator llm.Generator
	Repo      Repo
	Timeout   time.Duration
	Locks     *VariantLocks
	Now       func() time.Time
}

// Rewrite regenerates the variant with the same facts and different wording.
func (e *RevisionEngine) Rewrite(ctx context.Context, ownerID, documentID, variantID string) (Document, error) {
	return e.regenerate(ctx, OpRewrite, ownerID, documentID, variantID)
}

// Shorten regenerates the variant at roughly 70-80% of its length.
func (e *RevisionEngine) Shorten(ctx context.Context, ownerID, documentID, variantID string) (Document, error) {
	return e.regenerate(ctx, OpShorten, ownerID, documentID, variantID)
}

// Expand regenerates the variant at roughly 120-130% of its length using the
// subject and job details stored on the document.
func (e *RevisionEngine) Expand(ctx context.Context, ownerID, documentID, variantID string) (Document, error) {
	return e.regenerate(ctx, OpExpand, ownerID, documentID, variantID)
}

// ManualEdit replaces the variant content verbatim.
func (e *RevisionEngine) ManualEdit(ctx context.Context, ownerID, documentID, variantID, content string) (Document, error) {
	if err := requireContent(content); err != nil {
		return Document{}, err
	}
	unlock, err := e.Locks.Lock(ctx, documentID, variantID)
	if err != nil {
		return Document{}, err
	}
	defer unlock()

	now := e.now()
	return e.Repo.Update(ctx, ownerID, documentID, func(d *Document) error {
		return applyVariantContent(d, variantID, content, now, canonicalWhileDraft)
	})
}

func (e *RevisionEngine) regenerate(ctx context.Context, op Operation, ownerID, documentID, variantID string) (Document, error) {
	unlock, err := e.Locks.Lock(ctx, documentID, variantID)
	if err != nil {
		return Document{}, err
	}
	defer unlock()

	doc, err := e.Repo.Get(ctx, ownerID, documentID)
	if err != nil {
		return Document{}, err
	}
	variant, ok := doc.Variant(variantID)
	if !ok {
		return Document{}, ErrVariantNotFound
	}

	prompt, err := revisionPrompt(op, doc, variant.Content)
	if err != nil {
		return Document{}, err
	}

	start := time.Now()
	content, err := callGenerator(ctx, e.Generator, prompt, e.Timeout)
	fields := map[string]any{
		"user_id":     ownerID,
		"document_id": documentID,
		"variant_id":  variantID,
		"operation":   string(op),
		"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
	}
	if err != nil {
		metrics.IncRevision(false)
		fields["error"] = err.Error()
		telemetry.Warn("coverletter.revision_failed", fields)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Document{}, ctxErr
		}
		return Document{}, &GenerationError{Op: op, VariantID: variantID, Err: err}
	}
	metrics.IncRevision(true)
	telemetry.Info("coverletter.revised", fields)

	now := e.now()
	return e.Repo.Update(ctx, ownerID, documentID, func(d *Document) error {
		return applyVariantContent(d, variantID, content, now, canonicalAlways)
	})
}

func (e *RevisionEngine) now() time.Time {
	if e.Now != nil {
		return e.Now().UTC()
	}
	return time.Now().UTC()
}

func revisionPrompt(op Operation, doc Document, original string) (string, error) {
	in := llm.RevisionInput{
		Original:  original,
		Candidate: candidateFor(doc.Subject),
		Job:       jobFor(doc.Job),
	}
	switch op {
	case OpRewrite:
		return llm.RewritePrompt(in)
	case OpShorten:
		return llm.ShortenPrompt(in)
	case OpExpand:
		return llm.ExpandPrompt(in)
	default:
		return "", fmt.Errorf("unsupported revision operation %q", op)
	}
}

// canonicalPolicy controls when a variant write also updates the document content.
type canonicalPolicy int

const (
	// canonicalWhileDraft follows the selected variant only until finalize.
	canonicalWhileDraft canonicalPolicy = iota
	// canonicalAlways follows the selected variant in any status.
	canonicalAlways
)

// applyVariantContent writes new content into a variant and, when the variant is
// selected and policy allows it, into the canonical content as well. Generated
// revisions use canonicalAlways; literal edits after finalize need a re-finalize.
func applyVariantContent(d *Document, variantID, content string, now time.Time, policy canonicalPolicy) error {
	v, ok := d.Variant(variantID)
	if !ok {
		return ErrVariantNotFound
	}
	v.Content = content
	v.CreatedAt = now
	if d.SelectedVariantID == variantID && (policy == canonicalAlways || d.Status == StatusDraft) {
		d.Content = content
	}
	d.UpdatedAt = now
	return nil
}
