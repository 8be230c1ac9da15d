package domain

import (
	"context"
	"math"
	"time"
)

// DayID formats t as the local calendar-day key used throughout the system.
func DayID(t time.Time) string {
	return t.In(time.Local).Format("2006-01-02")
}

// FoodEntry is one logged item. Entries are immutable once created; a day
// log only ever prepends new entries or removes existing ones wholesale.
type FoodEntry struct {
	Name     string    `json:"name"`
	Kcal     float64   `json:"kcal"`
	Protein  float64   `json:"protein"`
	Carb     float64   `json:"carb"`
	Fat      float64   `json:"fat"`
	LoggedAt time.Time `json:"loggedAt"`
}

// Totals is the aggregate derived from a day's food entries.
type Totals struct {
	Kcal    float64 `json:"kcal"`
	Protein float64 `json:"protein"`
	Carb    float64 `json:"carb"`
	Fat     float64 `json:"fat"`
}

// DayLog is the authoritative record for one calendar day. Foods are kept
// newest first. Totals must always equal the reduction of Foods; callers
// recompute them via SumTotals after every mutation.
type DayLog struct {
	DayID  string      `json:"dayId"`
	Foods  []FoodEntry `json:"foods"`
	Totals Totals      `json:"totals"`
}

// NewDayLog returns an empty log for the given day.
func NewDayLog(dayID string) DayLog {
	return DayLog{DayID: dayID, Foods: []FoodEntry{}}
}

// Clone returns a deep copy so callers cannot alias the owner's food slice.
func (l DayLog) Clone() DayLog {
	out := l
	out.Foods = make([]FoodEntry, len(l.Foods))
	copy(out.Foods, l.Foods)
	return out
}

// SumTotals reduces foods field-wise. Kcal is rounded to whole numbers and
// macros to one decimal, matching display precision. Non-finite values count
// as zero, so the function is total and never fails.
func SumTotals(foods []FoodEntry) Totals {
	var t Totals
	for _, f := range foods {
		t.Kcal += finite(f.Kcal)
		t.Protein += finite(f.Protein)
		t.Carb += finite(f.Carb)
		t.Fat += finite(f.Fat)
	}
	t.Kcal = Round(t.Kcal, 0)
	t.Protein = Round(t.Protein, 1)
	t.Carb = Round(t.Carb, 1)
	t.Fat = Round(t.Fat, 1)
	return t
}

// Round rounds v to the given number of decimal digits.
func Round(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// LogStore is the port for the remote per-user, per-day log documents.
// GetDayLog returns nil without error when no document exists for the key.
// MergeDayLog writes with merge semantics: fields not included in the
// document are left untouched on the store side.
type LogStore interface {
	GetDayLog(ctx context.Context, userID, dayID string) (*DayLog, error)
	MergeDayLog(ctx context.Context, userID string, log DayLog) error
}

// CacheStore is the port for durable on-device persistence. It holds one
// serialized profile and one serialized day log; the day slot carries its
// dayId so a stale entry can be detected and discarded on load. Loads return
// nil without error when a slot is empty. Cache operations are local and
// synchronous, so they take no context.
type CacheStore interface {
	LoadDayLog() (*DayLog, error)
	SaveDayLog(log DayLog) error
	LoadProfile() (*Profile, error)
	SaveProfile(p Profile) error
}
