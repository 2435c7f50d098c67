package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoverLetterPromptIncludesProfileJobAndStyle(t *testing.T) {
	prompt, err := CoverLetterPrompt(CoverLetterInput{
		Candidate: Candidate{
			Industry:        "fintech",
			ExperienceYears: 7,
			Skills:          []string{"Go", "Postgres"},
			Bio:             "Backend engineer",
		},
		Job: Job{
			Title:       "Staff Engineer",
			Company:     "Acme",
			Description: "Build payment rails",
			Tone:        "professional",
			Industry:    "payments",
		},
		Style: "narrative and story-driven",
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "Staff Engineer position at Acme")
	assert.Contains(t, prompt, "Skills: Go, Postgres")
	assert.Contains(t, prompt, "Years of Experience: 7")
	assert.Contains(t, prompt, "Make this version narrative and story-driven")
	assert.NotContains(t, prompt, "Resume excerpt")
}

func TestCoverLetterPromptAddsResumeExcerptWhenPresent(t *testing.T) {
	prompt, err := CoverLetterPrompt(CoverLetterInput{
		Candidate: Candidate{ResumeText: "Led the ledger migration"},
		Style:     "concise and impactful",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "Resume excerpt:\nLed the ledger migration")
}

func TestRevisionPromptsEmbedOriginal(t *testing.T) {
	in := RevisionInput{
		Original:  "Dear hiring manager,",
		Candidate: Candidate{Skills: []string{"Kafka"}},
		Job:       Job{Title: "SRE", Company: "Initech", Industry: "software"},
	}

	builders := map[string]func(RevisionInput) (string, error){
		"rewrite": RewritePrompt,
		"shorten": ShortenPrompt,
		"expand":  ExpandPrompt,
	}
	for name, build := range builders {
		prompt, err := build(in)
		require.NoError(t, err, name)
		assert.Contains(t, prompt, "Original letter:\nDear hiring manager,", name)
		assert.False(t, strings.HasSuffix(prompt, "\n"), name)
	}

	expand, err := ExpandPrompt(in)
	require.NoError(t, err)
	assert.Contains(t, expand, "Skills: Kafka")
	assert.Contains(t, expand, "Position: SRE")
}
