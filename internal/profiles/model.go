package profiles

import "time"

// Profile is the candidate information cover letters are written from.
type Profile struct {
	UserID          string    `json:"userId"`
	Industry        string    `json:"industry" validate:"required,max=128"`
	ExperienceYears int       `json:"experienceYears" validate:"gt=0,lte=70"`
	Skills          []string  `json:"skills" validate:"max=100,dive,required,max=64"`
	Bio             string    `json:"bio" validate:"max=4000"`
	ResumeText      string    `json:"resumeText,omitempty"`
	ResumeFileName  string    `json:"resumeFileName,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Onboarded reports whether the profile has enough data to generate letters.
func (p Profile) Onboarded() bool {
	return p.Industry != ""
}
