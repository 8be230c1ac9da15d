package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"caltrack/internal/domain"
)

// GetProfile returns the profile document for userID, or nil when no row
// exists.
func (d *DB) GetProfile(ctx context.Context, userID string) (*domain.ProfileDoc, error) {
	var doc domain.ProfileDoc
	var profileRaw []byte
	err := d.sql.QueryRowContext(ctx,
		"SELECT email, profile, created_at, updated_at FROM profile_docs WHERE user_id=$1;",
		userID,
	).Scan(&doc.Email, &profileRaw, &doc.CreatedAt, &doc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if err := json.Unmarshal(profileRaw, &doc.Profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &doc, nil
}

// MergeProfile upserts the profile document, preserving created_at on
// existing rows.
func (d *DB) MergeProfile(ctx context.Context, userID string, doc domain.ProfileDoc) error {
	profileRaw, err := json.Marshal(doc.Profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err = d.sql.ExecContext(ctx,
		`INSERT INTO profile_docs(user_id, email, profile, created_at, updated_at)
		 VALUES($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) DO UPDATE SET
		   email=excluded.email, profile=excluded.profile, updated_at=excluded.updated_at;`,
		userID, doc.Email, profileRaw, createdAt, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("merge profile: %w", err)
	}
	return nil
}
