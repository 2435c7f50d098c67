package coverletters

import "time"

// Status is the lifecycle status of a cover letter document.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusCompleted Status = "completed"
)

// SelectionState is the derived position of a document in the selection lifecycle.
type SelectionState string

const (
	StateGenerated SelectionState = "generated"
	StateSelected  SelectionState = "selected"
	StateFinalized SelectionState = "finalized"
)

// StyleSpec is one entry of the style vocabulary. ID becomes the variant id.
type StyleSpec struct {
	ID    string `json:"id" yaml:"id" validate:"required,max=64"`
	Style string `json:"style" yaml:"style" validate:"required,max=200"`
}

// SubjectProfile describes the candidate the letter is written for.
type SubjectProfile struct {
	Industry        string   `json:"industry"`
	ExperienceYears int      `json:"experienceYears"`
	Skills          []string `json:"skills"`
	Bio             string   `json:"bio"`
	ResumeText      string   `json:"resumeText,omitempty"`
}

// JobParams are the immutable generation parameters of a document.
type JobParams struct {
	JobTitle       string `json:"jobTitle" validate:"required,max=200"`
	CompanyName    string `json:"companyName" validate:"required,max=200"`
	JobDescription string `json:"jobDescription" validate:"required"`
	Tone           string `json:"tone" validate:"max=64"`
	Industry       string `json:"industry" validate:"max=128"`
}

// GenerationRequest is the input of a generation cycle.
type GenerationRequest struct {
	Subject SubjectProfile
	Job     JobParams
	Styles  []StyleSpec `validate:"required,min=1,unique=ID,dive"`
}

// Variant is one stylistic rendering of a document.
type Variant struct {
	ID        string    `json:"id"`
	Style     string    `json:"style"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Document is one cover letter generation cycle for one job application.
// Variants keep style-list order; index maps variant ids to positions.
type Document struct {
	ID                 string
	OwnerID            string
	Job                JobParams
	Subject            SubjectProfile
	Variants           []Variant
	SelectedVariantID  string
	SelectedExplicitly bool
	Content            string
	Status             Status
	CreatedAt          time.Time
	UpdatedAt          time.Time

	index map[string]int
}

// Variant returns the variant with the given id.
func (d *Document) Variant(id string) (*Variant, bool) {
	if d.index == nil || len(d.index) != len(d.Variants) {
		d.reindex()
	}
	i, ok := d.index[id]
	if !ok || d.Variants[i].ID != id {
		return nil, false
	}
	return &d.Variants[i], true
}

// SelectedVariant returns the currently selected variant.
func (d *Document) SelectedVariant() (*Variant, bool) {
	return d.Variant(d.SelectedVariantID)
}

// SelectionState derives the selection lifecycle state.
func (d Document) SelectionState() SelectionState {
	switch {
	case d.Status == StatusCompleted:
		return StateFinalized
	case d.SelectedExplicitly:
		return StateSelected
	default:
		return StateGenerated
	}
}

// Clone returns a deep copy safe to mutate independently.
func (d Document) Clone() Document {
	out := d
	out.Variants = append([]Variant(nil), d.Variants...)
	out.Subject.Skills = append([]string(nil), d.Subject.Skills...)
	out.index = nil
	return out
}

func (d *Document) reindex() {
	d.index = make(map[string]int, len(d.Variants))
	for i, v := range d.Variants {
		d.index[v.ID] = i
	}
}
