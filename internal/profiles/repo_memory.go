package profiles

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo stores profiles in memory.
type MemoryRepo struct {
	mu     sync.RWMutex
	byUser map[string]Profile
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUser: make(map[string]Profile)}
}

func (r *MemoryRepo) Get(ctx context.Context, userID string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byUser[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	p.Skills = append([]string(nil), p.Skills...)
	return p, nil
}

// Upsert stores the profile fields and keeps any imported resume.
func (r *MemoryRepo) Upsert(ctx context.Context, profile Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	profile.Skills = append([]string(nil), profile.Skills...)
	if existing, ok := r.byUser[profile.UserID]; ok {
		profile.CreatedAt = existing.CreatedAt
		profile.ResumeText = existing.ResumeText
		profile.ResumeFileName = existing.ResumeFileName
	}
	r.byUser[profile.UserID] = profile
	return nil
}

// SetResume attaches imported resume text to an existing profile.
func (r *MemoryRepo) SetResume(ctx context.Context, userID, fileName, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byUser[userID]
	if !ok {
		return ErrNotFound
	}
	p.ResumeFileName = fileName
	p.ResumeText = text
	p.UpdatedAt = time.Now().UTC()
	r.byUser[userID] = p
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
