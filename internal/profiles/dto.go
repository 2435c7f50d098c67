package profiles

import "time"

// UpdateRequest is the body of PUT /profile.
type UpdateRequest struct {
	Industry        string   `json:"industry"`
	ExperienceYears int      `json:"experienceYears"`
	Skills          []string `json:"skills"`
	Bio             string   `json:"bio"`
}

// ProfileResponse is the outward-facing representation of a profile.
type ProfileResponse struct {
	Industry        string    `json:"industry"`
	ExperienceYears int       `json:"experienceYears"`
	Skills          []string  `json:"skills"`
	Bio             string    `json:"bio"`
	HasResume       bool      `json:"hasResume"`
	ResumeFileName  string    `json:"resumeFileName,omitempty"`
	IsOnboarded     bool      `json:"isOnboarded"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toResponse(p Profile) ProfileResponse {
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	return ProfileResponse{
		Industry:        p.Industry,
		ExperienceYears: p.ExperienceYears,
		Skills:          skills,
		Bio:             p.Bio,
		HasResume:       p.ResumeText != "",
		ResumeFileName:  p.ResumeFileName,
		IsOnboarded:     p.Onboarded(),
		UpdatedAt:       p.UpdatedAt,
	}
}
