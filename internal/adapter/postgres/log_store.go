package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"caltrack/internal/domain"
)

// GetDayLog returns the log document for (userID, dayID), or nil when no row
// exists.
func (d *DB) GetDayLog(ctx context.Context, userID, dayID string) (*domain.DayLog, error) {
	var foodsRaw, totalsRaw []byte
	err := d.sql.QueryRowContext(ctx,
		"SELECT foods, totals FROM day_logs WHERE user_id=$1 AND day_id=$2;",
		userID, dayID,
	).Scan(&foodsRaw, &totalsRaw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get day log: %w", err)
	}

	l := domain.DayLog{DayID: dayID}
	if err := json.Unmarshal(foodsRaw, &l.Foods); err != nil {
		return nil, fmt.Errorf("decode foods: %w", err)
	}
	if err := json.Unmarshal(totalsRaw, &l.Totals); err != nil {
		return nil, fmt.Errorf("decode totals: %w", err)
	}
	return &l, nil
}

// MergeDayLog upserts the log document. Columns not carried by the document
// are left untouched, matching the merge-write contract.
func (d *DB) MergeDayLog(ctx context.Context, userID string, l domain.DayLog) error {
	foodsRaw, err := json.Marshal(l.Foods)
	if err != nil {
		return fmt.Errorf("encode foods: %w", err)
	}
	totalsRaw, err := json.Marshal(l.Totals)
	if err != nil {
		return fmt.Errorf("encode totals: %w", err)
	}
	_, err = d.sql.ExecContext(ctx,
		`INSERT INTO day_logs(user_id, day_id, foods, totals, updated_at)
		 VALUES($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, day_id) DO UPDATE SET
		   foods=excluded.foods, totals=excluded.totals, updated_at=excluded.updated_at;`,
		userID, l.DayID, foodsRaw, totalsRaw, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("merge day log: %w", err)
	}
	return nil
}
