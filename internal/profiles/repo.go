package profiles

import "context"

// Repo persists one profile per user.
type Repo interface {
	Get(ctx context.Context, userID string) (Profile, error)
	Upsert(ctx context.Context, profile Profile) error
	SetResume(ctx context.Context, userID, fileName, text string) error
}
