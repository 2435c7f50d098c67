package llm

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed prompts/*.tmpl
var promptFiles embed.FS

var promptTemplates = template.Must(
	template.New("prompts").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(promptFiles, "prompts/*.tmpl"),
)

// Candidate is the subject profile rendered into prompts.
type Candidate struct {
	Industry        string
	ExperienceYears int
	Skills          []string
	Bio             string
	ResumeText      string
}

// Job holds the target job parameters rendered into prompts.
type Job struct {
	Title       string
	Company     string
	Description string
	Tone        string
	Industry    string
}

// CoverLetterInput drives the initial generation prompt for one style.
type CoverLetterInput struct {
	Candidate Candidate
	Job       Job
	Style     string
}

// RevisionInput drives the rewrite, shorten and expand prompts.
type RevisionInput struct {
	Original  string
	Candidate Candidate
	Job       Job
}

// CoverLetterPrompt renders the generation prompt for a single style.
func CoverLetterPrompt(in CoverLetterInput) (string, error) {
	return render("cover_letter.tmpl", in)
}

// RewritePrompt renders the rewrite prompt.
func RewritePrompt(in RevisionInput) (string, error) {
	return render("rewrite.tmpl", in)
}

// ShortenPrompt renders the shorten prompt.
func ShortenPrompt(in RevisionInput) (string, error) {
	return render("shorten.tmpl", in)
}

// ExpandPrompt renders the expand prompt.
func ExpandPrompt(in RevisionInput) (string, error) {
	return render("expand.tmpl", in)
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := promptTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
