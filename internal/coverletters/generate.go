package coverletters

import (
	"context"
	"fmt"
	"strings"
	"time"

	"coverletter-backend/internal/llm"
)

// DefaultGenerationTimeout bounds a single generator call when none is configured.
const DefaultGenerationTimeout = 60 * time.Second

// callGenerator makes one bounded call. The deadline is enforced here as well as
// through ctx so a generator that ignores cancellation cannot stall the caller.
func callGenerator(ctx context.Context, gen llm.Generator, prompt string, timeout time.Duration) (string, error) {
	if gen == nil {
		return "", llm.ErrNotConfigured
	}
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- result{err: fmt.Errorf("generator panic: %v", rec)}
			}
		}()
		text, err := gen.Generate(callCtx, prompt)
		done <- result{text: text, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return "", res.err
		}
		text := strings.TrimSpace(res.text)
		if text == "" {
			return "", llm.ErrEmptyResponse
		}
		return text, nil
	case <-callCtx.Done():
		if ctx.Err() != nil {
			return "", fmt.Errorf("generation cancelled: %w", ctx.Err())
		}
		return "", fmt.Errorf("generation timed out after %s: %w", timeout, callCtx.Err())
	}
}

func candidateFor(p SubjectProfile) llm.Candidate {
	return llm.Candidate{
		Industry:        p.Industry,
		ExperienceYears: p.ExperienceYears,
		Skills:          p.Skills,
		Bio:             p.Bio,
		ResumeText:      p.ResumeText,
	}
}

func jobFor(j JobParams) llm.Job {
	return llm.Job{
		Title:       j.JobTitle,
		Company:     j.CompanyName,
		Description: j.JobDescription,
		Tone:        j.Tone,
		Industry:    j.Industry,
	}
}
