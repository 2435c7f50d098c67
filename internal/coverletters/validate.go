package coverletters

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func validateRequest(ownerID string, req GenerationRequest) error {
	var fields []FieldError
	if strings.TrimSpace(ownerID) == "" {
		fields = append(fields, FieldError{Field: "OwnerID", Rule: "required"})
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field: strings.TrimPrefix(fe.Namespace(), "GenerationRequest."),
				Rule:  fe.Tag(),
			})
		}
	}
	for _, f := range blankRequired(req) {
		fields = append(fields, FieldError{Field: f, Rule: "required"})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// blankRequired catches whitespace-only values, which the required tag accepts.
func blankRequired(req GenerationRequest) []string {
	var out []string
	if req.Job.JobTitle != "" && strings.TrimSpace(req.Job.JobTitle) == "" {
		out = append(out, "Job.JobTitle")
	}
	if req.Job.CompanyName != "" && strings.TrimSpace(req.Job.CompanyName) == "" {
		out = append(out, "Job.CompanyName")
	}
	if req.Job.JobDescription != "" && strings.TrimSpace(req.Job.JobDescription) == "" {
		out = append(out, "Job.JobDescription")
	}
	return out
}

func requireContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return &ValidationError{Fields: []FieldError{{Field: "Content", Rule: "required"}}}
	}
	return nil
}

func presentContent(content *string) *string {
	if content == nil || strings.TrimSpace(*content) == "" {
		return nil
	}
	return content
}
