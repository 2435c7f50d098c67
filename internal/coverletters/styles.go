package coverletters

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultStyles returns the built-in style vocabulary in presentation order.
func DefaultStyles() []StyleSpec {
	return []StyleSpec{
		{ID: "variant1", Style: "concise and impactful"},
		{ID: "variant2", Style: "narrative and story-driven"},
		{ID: "variant3", Style: "achievement-focused"},
	}
}

type stylesFile struct {
	Styles []StyleSpec `yaml:"styles"`
}

// LoadStyles reads a style vocabulary from a YAML file of the form
//
//	styles:
//	  - id: variant1
//	    style: concise and impactful
func LoadStyles(path string) ([]StyleSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read styles file %s: %w", path, err)
	}
	return ParseStyles(data)
}

// ParseStyles decodes and validates a YAML style vocabulary.
func ParseStyles(data []byte) ([]StyleSpec, error) {
	var file stylesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse styles: %w", err)
	}
	if err := validate.Var(file.Styles, "required,min=1,unique=ID"); err != nil {
		return nil, fmt.Errorf("invalid styles: %w", err)
	}
	for i, spec := range file.Styles {
		if err := validate.Struct(spec); err != nil {
			return nil, fmt.Errorf("invalid style %d: %w", i, err)
		}
	}
	return file.Styles, nil
}
