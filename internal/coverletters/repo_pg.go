package coverletters

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. Variants and the subject profile are
// stored as jsonb columns so the aggregate is always written as a whole.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, user_id, job_title, company_name, job_description, tone, industry,
    subject, variants, selected_variant_id, selected_explicitly, content, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO cover_letters (
    id, user_id, job_title, company_name, job_description, tone, industry,
    subject, variants, selected_variant_id, selected_explicitly, content, status, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9::jsonb, $10, $11, $12, $13, $14, $15)`

	subject, variants, err := encodeAggregate(doc)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.OwnerID,
		doc.Job.JobTitle,
		doc.Job.CompanyName,
		doc.Job.JobDescription,
		doc.Job.Tone,
		doc.Job.Industry,
		subject,
		variants,
		doc.SelectedVariantID,
		doc.SelectedExplicitly,
		doc.Content,
		string(doc.Status),
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

// Get returns a document by ID for an owner.
func (r *PGRepo) Get(ctx context.Context, ownerID, documentID string) (Document, error) {
	query := `
SELECT ` + documentColumns + `
FROM cover_letters
WHERE id = $1 AND user_id = $2
LIMIT 1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, documentID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrDocumentNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// Update locks the row, applies mutate and writes the aggregate back in one transaction.
func (r *PGRepo) Update(ctx context.Context, ownerID, documentID string, mutate func(*Document) error) (Document, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Document{}, err
	}
	defer func() { _ = tx.Rollback() }()

	selectQuery := `
SELECT ` + documentColumns + `
FROM cover_letters
WHERE id = $1 AND user_id = $2
FOR UPDATE`
	doc, err := scanDocument(tx.QueryRowContext(ctx, selectQuery, documentID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrDocumentNotFound
		}
		return Document{}, err
	}

	if err := mutate(&doc); err != nil {
		return Document{}, err
	}

	subject, variants, err := encodeAggregate(doc)
	if err != nil {
		return Document{}, err
	}
	const updateQuery = `
UPDATE cover_letters
SET subject = $1::jsonb,
    variants = $2::jsonb,
    selected_variant_id = $3,
    selected_explicitly = $4,
    content = $5,
    status = $6,
    updated_at = $7
WHERE id = $8 AND user_id = $9`
	if _, err := tx.ExecContext(ctx, updateQuery,
		subject,
		variants,
		doc.SelectedVariantID,
		doc.SelectedExplicitly,
		doc.Content,
		string(doc.Status),
		doc.UpdatedAt,
		doc.ID,
		ownerID,
	); err != nil {
		return Document{}, err
	}
	if err := tx.Commit(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Delete removes a document.
func (r *PGRepo) Delete(ctx context.Context, ownerID, documentID string) error {
	const query = `DELETE FROM cover_letters WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, documentID, ownerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

// ListByOwner lists documents ordered newest-first.
func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Document, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query := `
SELECT ` + documentColumns + `
FROM cover_letters
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func scanDocument(row rowScanner) (Document, error) {
	var (
		doc      Document
		status   string
		subject  sql.NullString
		variants sql.NullString
		selected sql.NullString
	)
	if err := row.Scan(
		&doc.ID,
		&doc.OwnerID,
		&doc.Job.JobTitle,
		&doc.Job.CompanyName,
		&doc.Job.JobDescription,
		&doc.Job.Tone,
		&doc.Job.Industry,
		&subject,
		&variants,
		&selected,
		&doc.SelectedExplicitly,
		&doc.Content,
		&status,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	); err != nil {
		return Document{}, err
	}
	doc.Status = Status(status)
	if selected.Valid {
		doc.SelectedVariantID = selected.String
	}
	if subject.Valid && subject.String != "" {
		if err := json.Unmarshal([]byte(subject.String), &doc.Subject); err != nil {
			return Document{}, fmt.Errorf("decode subject for %s: %w", doc.ID, err)
		}
	}
	if variants.Valid && variants.String != "" {
		if err := json.Unmarshal([]byte(variants.String), &doc.Variants); err != nil {
			return Document{}, fmt.Errorf("decode variants for %s: %w", doc.ID, err)
		}
	}
	return doc, nil
}

func encodeAggregate(doc Document) (string, string, error) {
	subject, err := json.Marshal(doc.Subject)
	if err != nil {
		return "", "", fmt.Errorf("encode subject: %w", err)
	}
	variants := doc.Variants
	if variants == nil {
		variants = []Variant{}
	}
	encoded, err := json.Marshal(variants)
	if err != nil {
		return "", "", fmt.Errorf("encode variants: %w", err)
	}
	return string(subject), string(encoded), nil
}

var _ Repo = (*PGRepo)(nil)
