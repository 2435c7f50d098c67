package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Get(ctx context.Context, userID string) (Profile, error) {
	const query = `
SELECT user_id, industry, experience_years, skills, bio, resume_text, resume_file_name, created_at, updated_at
FROM profiles
WHERE user_id = $1
LIMIT 1`
	var (
		p          Profile
		skills     sql.NullString
		bio        sql.NullString
		resumeText sql.NullString
		resumeFile sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID,
		&p.Industry,
		&p.ExperienceYears,
		&skills,
		&bio,
		&resumeText,
		&resumeFile,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	if skills.Valid && skills.String != "" {
		if err := json.Unmarshal([]byte(skills.String), &p.Skills); err != nil {
			return Profile{}, fmt.Errorf("decode skills for %s: %w", userID, err)
		}
	}
	p.Bio = bio.String
	p.ResumeText = resumeText.String
	p.ResumeFileName = resumeFile.String
	return p, nil
}

func (r *PGRepo) Upsert(ctx context.Context, profile Profile) error {
	const query = `
INSERT INTO profiles (user_id, industry, experience_years, skills, bio, created_at, updated_at)
VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7)
ON CONFLICT (user_id) DO UPDATE SET
  industry = EXCLUDED.industry,
  experience_years = EXCLUDED.experience_years,
  skills = EXCLUDED.skills,
  bio = EXCLUDED.bio,
  updated_at = EXCLUDED.updated_at`
	skills := profile.Skills
	if skills == nil {
		skills = []string{}
	}
	encoded, err := json.Marshal(skills)
	if err != nil {
		return fmt.Errorf("encode skills: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query,
		profile.UserID,
		profile.Industry,
		profile.ExperienceYears,
		string(encoded),
		nullableString(profile.Bio),
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	return err
}

func (r *PGRepo) SetResume(ctx context.Context, userID, fileName, text string) error {
	const query = `
UPDATE profiles
SET resume_text = $2, resume_file_name = $3, updated_at = now()
WHERE user_id = $1`
	res, err := r.DB.ExecContext(ctx, query, userID, text, fileName)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
