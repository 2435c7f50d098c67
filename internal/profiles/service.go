package profiles

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"coverletter-backend/internal/extract"
	"coverletter-backend/internal/shared/telemetry"
	"coverletter-backend/internal/shared/util"
)

// MaxResumeChars caps the resume text kept on a profile.
const MaxResumeChars = 12000

var validate = validator.New()

// Input is the editable part of a profile.
type Input struct {
	Industry        string
	ExperienceYears int
	Skills          []string
	Bio             string
}

// Service contains business logic for profiles.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Get returns the profile of a user.
func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return Profile{}, ErrInvalidInput
	}
	return s.Repo.Get(ctx, userID)
}

// Update validates and stores the profile. Industry is required and experience
// must be at least one year.
func (s *Service) Update(ctx context.Context, userID string, in Input) (Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return Profile{}, ErrInvalidInput
	}
	now := s.now()
	p := Profile{
		UserID:          userID,
		Industry:        strings.TrimSpace(in.Industry),
		ExperienceYears: in.ExperienceYears,
		Skills:          normalizeSkills(in.Skills),
		Bio:             strings.TrimSpace(in.Bio),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := validateProfile(p); err != nil {
		return Profile{}, err
	}
	if err := s.Repo.Upsert(ctx, p); err != nil {
		return Profile{}, err
	}
	telemetry.Info("profile.updated", map[string]any{
		"user_id":  userID,
		"industry": p.Industry,
		"skills":   len(p.Skills),
	})
	return s.Repo.Get(ctx, userID)
}

// ImportResume extracts text from an uploaded resume and attaches it to the
// profile, where it enriches generation prompts.
func (s *Service) ImportResume(ctx context.Context, userID, fileName, mimeType string, data []byte) (Profile, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return Profile{}, err
	}
	fileName, err := util.SanitizeFileName(fileName)
	if err != nil {
		return Profile{}, &ValidationError{Fields: []FieldError{{Field: "file", Rule: "name"}}}
	}
	text, err := extract.Text(ctx, data, mimeType, fileName)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupported) || errors.Is(err, extract.ErrEmpty) {
			return Profile{}, &ValidationError{Fields: []FieldError{{Field: "file", Rule: err.Error()}}}
		}
		return Profile{}, err
	}
	if runes := []rune(text); len(runes) > MaxResumeChars {
		text = string(runes[:MaxResumeChars])
	}
	if err := s.Repo.SetResume(ctx, userID, fileName, text); err != nil {
		return Profile{}, err
	}
	telemetry.Info("profile.resume_imported", map[string]any{
		"user_id":   userID,
		"file_name": fileName,
		"chars":     len(text),
	})
	return s.Repo.Get(ctx, userID)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func validateProfile(p Profile) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field: strings.TrimPrefix(fe.Namespace(), "Profile."),
			Rule:  fe.Tag(),
		})
	}
	return &ValidationError{Fields: fields}
}

func normalizeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
