package coverletters

import (
	"context"
	"strings"
	"testing"
	"time"

	"coverletter-backend/internal/llm"
)

var fixedNow = time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

func sampleJob() JobParams {
	return JobParams{
		JobTitle:       "Backend Engineer",
		CompanyName:    "Acme",
		JobDescription: "Build and operate payment services in Go.",
		Tone:           "professional",
		Industry:       "fintech",
	}
}

func sampleSubject() SubjectProfile {
	return SubjectProfile{
		Industry:        "fintech",
		ExperienceYears: 6,
		Skills:          []string{"Go", "Postgres"},
		Bio:             "Backend engineer focused on reliability.",
	}
}

func threeStyles() []StyleSpec {
	return DefaultStyles()
}

// styleEcho answers a cover letter prompt with a letter tagged by its style.
func styleEcho() llm.Generator {
	return llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		for _, s := range DefaultStyles() {
			if strings.Contains(prompt, "Make this version "+s.Style) {
				return "letter: " + s.Style, nil
			}
		}
		return "letter", nil
	})
}

// originalOf pulls the letter out of a revision prompt.
func originalOf(prompt string) string {
	const marker = "Original letter:\n"
	i := strings.Index(prompt, marker)
	if i < 0 {
		return ""
	}
	rest := prompt[i+len(marker):]
	if j := strings.Index(rest, "\n\n"); j >= 0 {
		rest = rest[:j]
	}
	return rest
}

// seedDocument stores a draft with one variant per default style.
func seedDocument(t *testing.T, repo Repo, ownerID, id string) Document {
	t.Helper()
	doc := Document{
		ID:      id,
		OwnerID: ownerID,
		Job:     sampleJob(),
		Subject: sampleSubject(),
		Variants: []Variant{
			{ID: "variant1", Style: "concise and impactful", Content: "concise letter", CreatedAt: fixedNow},
			{ID: "variant2", Style: "narrative and story-driven", Content: "narrative letter", CreatedAt: fixedNow},
			{ID: "variant3", Style: "achievement-focused", Content: "achievement letter", CreatedAt: fixedNow},
		},
		SelectedVariantID: "variant1",
		Content:           "concise letter",
		Status:            StatusDraft,
		CreatedAt:         fixedNow,
		UpdatedAt:         fixedNow,
	}
	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("seed Create: %v", err)
	}
	return doc
}

func laterClock() func() time.Time {
	return func() time.Time { return fixedNow.Add(time.Hour) }
}
