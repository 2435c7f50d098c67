package coverletters

import "context"

// Repo defines persistence operations for cover letter documents. Every call is
// scoped to an owner; documents of other owners are reported as ErrDocumentNotFound.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	Get(ctx context.Context, ownerID, documentID string) (Document, error)
	// Update applies mutate to the current stored aggregate and persists the result
	// atomically. If mutate returns an error nothing is written.
	Update(ctx context.Context, ownerID, documentID string, mutate func(*Document) error) (Document, error)
	Delete(ctx context.Context, ownerID, documentID string) error
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Document, error)
}
