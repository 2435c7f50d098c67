package coverletters

import (
	"context"
	"time"
)

// SelectionStateMachine governs which variant is current and the
// draft to completed transition.
//
//	generated --SelectVariant--> selected --Finalize--> finalized
//	generated --Finalize--> finalized
//	finalized --Finalize--> finalized (correction)
type SelectionStateMachine struct {
	Repo  Repo
	Locks *VariantLocks
	Now   func() time.Time
}

// SelectVariant marks variantID as current. Canonical content is left alone.
func (m *SelectionStateMachine) SelectVariant(ctx context.Context, ownerID, documentID, variantID string) (Document, error) {
	now := m.now()
	return m.Repo.Update(ctx, ownerID, documentID, func(d *Document) error {
		return selectVariant(d, variantID, now)
	})
}

// Finalize commits the variant as the document's output. When explicit is non-nil
// it replaces the variant content as well, so the canonical content and the
// selected variant agree. Blank explicit content counts as absent. Finalizing
// again overwrites the previous result.
func (m *SelectionStateMachine) Finalize(ctx context.Context, ownerID, documentID, variantID string, explicit *string) (Document, error) {
	explicit = presentContent(explicit)
	unlock, err := m.Locks.Lock(ctx, documentID, variantID)
	if err != nil {
		return Document{}, err
	}
	defer unlock()

	now := m.now()
	return m.Repo.Update(ctx, ownerID, documentID, func(d *Document) error {
		return finalizeDocument(d, variantID, explicit, now)
	})
}

// SaveVariant optionally replaces the variant content and optionally finalizes,
// as one aggregate write. Blank content counts as absent.
func (m *SelectionStateMachine) SaveVariant(ctx context.Context, ownerID, documentID, variantID string, content *string, finalize bool) (Document, error) {
	content = presentContent(content)
	unlock, err := m.Locks.Lock(ctx, documentID, variantID)
	if err != nil {
		return Document{}, err
	}
	defer unlock()

	now := m.now()
	return m.Repo.Update(ctx, ownerID, documentID, func(d *Document) error {
		if _, ok := d.Variant(variantID); !ok {
			return ErrVariantNotFound
		}
		if content != nil {
			if err := applyVariantContent(d, variantID, *content, now, canonicalWhileDraft); err != nil {
				return err
			}
		}
		if finalize {
			return finalizeDocument(d, variantID, content, now)
		}
		return nil
	})
}

func (m *SelectionStateMachine) now() time.Time {
	if m.Now != nil {
		return m.Now().UTC()
	}
	return time.Now().UTC()
}

func selectVariant(d *Document, variantID string, now time.Time) error {
	if d.Status == StatusCompleted {
		return ErrDocumentFinalized
	}
	if _, ok := d.Variant(variantID); !ok {
		return ErrVariantNotFound
	}
	d.SelectedVariantID = variantID
	d.SelectedExplicitly = true
	d.UpdatedAt = now
	return nil
}

func finalizeDocument(d *Document, variantID string, explicit *string, now time.Time) error {
	v, ok := d.Variant(variantID)
	if !ok {
		return ErrVariantNotFound
	}
	if explicit != nil && v.Content != *explicit {
		v.Content = *explicit
		v.CreatedAt = now
	}
	d.SelectedVariantID = variantID
	d.SelectedExplicitly = true
	d.Content = v.Content
	d.Status = StatusCompleted
	d.UpdatedAt = now
	return nil
}
