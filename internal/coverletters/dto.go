package coverletters

import "time"

// CreateRequest is the body of POST /cover-letters.
type CreateRequest struct {
	JobTitle       string `json:"jobTitle"`
	CompanyName    string `json:"companyName"`
	JobDescription string `json:"jobDescription"`
	Tone           string `json:"tone"`
	Industry       string `json:"industry"`
}

// SaveVariantRequest is the body of PUT /cover-letters/:id/variants/:variantId.
type SaveVariantRequest struct {
	Content  *string `json:"content,omitempty"`
	Finalize bool    `json:"finalize"`
}

// SelectRequest is the body of POST /cover-letters/:id/select.
type SelectRequest struct {
	VariantID string `json:"variantId"`
}

// FinalizeRequest is the body of POST /cover-letters/:id/finalize.
type FinalizeRequest struct {
	VariantID string  `json:"variantId"`
	Content   *string `json:"content,omitempty"`
}

// VariantResponse is the outward-facing representation of a variant.
type VariantResponse struct {
	ID        string    `json:"id"`
	Style     string    `json:"style"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// DocumentResponse is the outward-facing representation of a cover letter.
type DocumentResponse struct {
	ID                string            `json:"id"`
	JobTitle          string            `json:"jobTitle"`
	CompanyName       string            `json:"companyName"`
	JobDescription    string            `json:"jobDescription"`
	Tone              string            `json:"tone,omitempty"`
	Industry          string            `json:"industry,omitempty"`
	Content           string            `json:"content"`
	Variants          []VariantResponse `json:"variants"`
	SelectedVariantID string            `json:"selectedVariantId"`
	SelectionState    SelectionState    `json:"selectionState"`
	Status            Status            `json:"status"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// SummaryResponse is the list representation of a cover letter.
type SummaryResponse struct {
	ID          string    `json:"id"`
	JobTitle    string    `json:"jobTitle"`
	CompanyName string    `json:"companyName"`
	Status      Status    `json:"status"`
	Variants    int       `json:"variants"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toResponse(doc Document) DocumentResponse {
	variants := make([]VariantResponse, 0, len(doc.Variants))
	for _, v := range doc.Variants {
		variants = append(variants, VariantResponse{
			ID:        v.ID,
			Style:     v.Style,
			Content:   v.Content,
			CreatedAt: v.CreatedAt,
		})
	}
	return DocumentResponse{
		ID:                doc.ID,
		JobTitle:          doc.Job.JobTitle,
		CompanyName:       doc.Job.CompanyName,
		JobDescription:    doc.Job.JobDescription,
		Tone:              doc.Job.Tone,
		Industry:          doc.Job.Industry,
		Content:           doc.Content,
		Variants:          variants,
		SelectedVariantID: doc.SelectedVariantID,
		SelectionState:    doc.SelectionState(),
		Status:            doc.Status,
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
	}
}

func toSummary(doc Document) SummaryResponse {
	return SummaryResponse{
		ID:          doc.ID,
		JobTitle:    doc.Job.JobTitle,
		CompanyName: doc.Job.CompanyName,
		Status:      doc.Status,
		Variants:    len(doc.Variants),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}
