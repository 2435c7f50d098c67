package coverletters

import (
	"context"
	"errors"
	"strings"
	"time"

	"coverletter-backend/internal/llm"
)

// DefaultTone is used when a request leaves the tone empty.
const DefaultTone = "professional"

// ErrProfileRequired indicates the owner has no subject profile to generate from.
var ErrProfileRequired = errors.New("profile required")

// ProfileSource resolves the subject profile of an owner.
type ProfileSource interface {
	SubjectProfile(ctx context.Context, ownerID string) (SubjectProfile, error)
}

// Options configures a Service.
type Options struct {
	Timeout     time.Duration
	MaxParallel int
	Styles      []StyleSpec
	Now         func() time.Time
	NewID       func() string
}

// Service is the entry point for cover letter operations. It shares one lock
// table between revisions and selection so writes to a variant never interleave.
type Service struct {
	Repo     Repo
	Profiles ProfileSource
	Styles   []StyleSpec

	orchestrator *Orchestrator
	revisions    *RevisionEngine
	selection    *SelectionStateMachine
}

// NewService wires the orchestrator, revision engine and selection state machine.
func NewService(repo Repo, gen llm.Generator, profiles ProfileSource, opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultGenerationTimeout
	}
	styles := opts.Styles
	if len(styles) == 0 {
		styles = DefaultStyles()
	}
	locks := NewVariantLocks()
	return &Service{
		Repo:     repo,
		Profiles: profiles,
		Styles:   styles,
		orchestrator: &Orchestrator{
			Generator:   gen,
			Repo:        repo,
			Timeout:     opts.Timeout,
			MaxParallel: opts.MaxParallel,
			Now:         opts.Now,
			NewID:       opts.NewID,
		},
		revisions: &RevisionEngine{
			Generator: gen,
			Repo:      repo,
			Timeout:   opts.Timeout,
			Locks:     locks,
			Now:       opts.Now,
		},
		selection: &SelectionStateMachine{
			Repo:  repo,
			Locks: locks,
			Now:   opts.Now,
		},
	}
}

// Create generates a document for the owner's stored profile using the
// configured styles. Tone defaults to DefaultTone and industry to the profile's.
func (s *Service) Create(ctx context.Context, ownerID string, job JobParams) (Document, error) {
	if s.Profiles == nil {
		return Document{}, ErrProfileRequired
	}
	subject, err := s.Profiles.SubjectProfile(ctx, ownerID)
	if err != nil {
		return Document{}, err
	}
	if strings.TrimSpace(job.Tone) == "" {
		job.Tone = DefaultTone
	}
	if strings.TrimSpace(job.Industry) == "" {
		job.Industry = subject.Industry
	}
	return s.Generate(ctx, ownerID, GenerationRequest{Subject: subject, Job: job, Styles: s.Styles})
}

// Generate runs one generation cycle for an explicit request.
func (s *Service) Generate(ctx context.Context, ownerID string, req GenerationRequest) (Document, error) {
	return s.orchestrator.Generate(ctx, ownerID, req)
}

// Rewrite regenerates one variant with different wording.
func (s *Service) Rewrite(ctx context.Context, ownerID, documentID, variantID string) (Document, error) {
	return s.revisions.Rewrite(ctx, ownerID, documentID, variantID)
}

// Shorten regenerates one variant at a shorter length.
func (s *Service) Shorten(ctx context.Context, ownerID, documentID, variantID string) (Document, error) {
	return s.revisions.Shorten(ctx, ownerID, documentID, variantID)
}

// Expand regenerates one variant at a longer length.
func (s *Service) Expand(ctx context.Context, ownerID, documentID, variantID string) (Document, error) {
	return s.revisions.Expand(ctx, ownerID, documentID, variantID)
}

// ManualEdit replaces one variant's content.
func (s *Service) ManualEdit(ctx context.Context, ownerID, documentID, variantID, content string) (Document, error) {
	return s.revisions.ManualEdit(ctx, ownerID, documentID, variantID, content)
}

// SaveVariant replaces the content of a variant when content is non-nil and
// optionally finalizes it.
func (s *Service) SaveVariant(ctx context.Context, ownerID, documentID, variantID string, content *string, finalize bool) (Document, error) {
	return s.selection.SaveVariant(ctx, ownerID, documentID, variantID, content, finalize)
}

// SelectVariant marks a variant as current.
func (s *Service) SelectVariant(ctx context.Context, ownerID, documentID, variantID string) (Document, error) {
	return s.selection.SelectVariant(ctx, ownerID, documentID, variantID)
}

// Finalize commits a variant, optionally with explicit content.
func (s *Service) Finalize(ctx context.Context, ownerID, documentID, variantID string, content *string) (Document, error) {
	return s.selection.Finalize(ctx, ownerID, documentID, variantID, content)
}

// Get returns one document.
func (s *Service) Get(ctx context.Context, ownerID, documentID string) (Document, error) {
	return s.Repo.Get(ctx, ownerID, documentID)
}

// List returns the owner's documents, newest first.
func (s *Service) List(ctx context.Context, ownerID string, limit, offset int) ([]Document, error) {
	return s.Repo.ListByOwner(ctx, ownerID, limit, offset)
}

// Delete removes one document.
func (s *Service) Delete(ctx context.Context, ownerID, documentID string) error {
	return s.Repo.Delete(ctx, ownerID, documentID)
}
