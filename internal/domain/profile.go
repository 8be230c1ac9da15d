package domain

import (
	"context"
	"time"
)

// Gender selects the Mifflin-St Jeor constant.
type Gender string

// Supported genders.
const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// GoalType describes the direction of the calorie goal.
type GoalType string

// Supported goal types.
const (
	GoalMaintain GoalType = "maintain"
	GoalCut      GoalType = "cut"
	GoalBulk     GoalType = "bulk"
)

// MinCutKcal is the floor applied to cut targets regardless of delta.
const MinCutKcal = 1200

// Goal is the user's calorie goal. TargetKcal is always derived from the
// TDEE together with Type and Delta, never edited directly.
type Goal struct {
	Type       GoalType `json:"type"`
	Delta      float64  `json:"delta"`
	TargetKcal *float64 `json:"targetKcal"`
}

// Profile holds the user's measurements and derived energy values. The
// pointer fields stay nil until the user has entered measurements; derived
// values stay nil until they can be computed.
type Profile struct {
	Gender         Gender   `json:"gender"`
	Age            *float64 `json:"age"`
	HeightCm       *float64 `json:"heightCm"`
	WeightKg       *float64 `json:"weightKg"`
	ActivityFactor float64  `json:"activityFactor"`
	BMR            *float64 `json:"bmr"`
	TDEE           *float64 `json:"tdee"`
	Goal           Goal     `json:"goal"`
}

// DefaultProfile mirrors the initial state before the user has entered
// anything.
func DefaultProfile() Profile {
	return Profile{
		Gender:         GenderMale,
		ActivityFactor: 1.2,
		Goal:           Goal{Type: GoalMaintain, Delta: 300},
	}
}

// Derived holds the values computed from measurements and goal.
type Derived struct {
	BMR        *float64
	TDEE       *float64
	TargetKcal *float64
}

// ComputeDerived applies Mifflin-St Jeor and the goal adjustment. All fields
// of the result are nil when any required input is missing; it never panics
// and never substitutes zero for a missing measurement.
func ComputeDerived(p Profile) Derived {
	if p.Age == nil || p.HeightCm == nil || p.WeightKg == nil || p.ActivityFactor <= 0 {
		return Derived{}
	}
	base := 10*(*p.WeightKg) + 6.25*(*p.HeightCm) - 5*(*p.Age)
	bmr := base + 5
	if p.Gender == GenderFemale {
		bmr = base - 161
	}
	bmr = Round(bmr, 0)
	tdee := Round(bmr*p.ActivityFactor, 0)
	return Derived{
		BMR:        &bmr,
		TDEE:       &tdee,
		TargetKcal: TargetFromGoal(tdee, p.Goal.Type, p.Goal.Delta),
	}
}

// TargetFromGoal derives the daily calorie target. Cut targets are floored
// at MinCutKcal so an oversized delta cannot produce an unsafe target.
func TargetFromGoal(tdee float64, t GoalType, delta float64) *float64 {
	var target float64
	switch t {
	case GoalCut:
		target = tdee - delta
		if target < MinCutKcal {
			target = MinCutKcal
		}
	case GoalBulk:
		target = tdee + delta
	default:
		target = tdee
	}
	target = Round(target, 0)
	return &target
}

// ProfileDoc is the remote per-user profile document.
type ProfileDoc struct {
	Email     string    `json:"email"`
	Profile   Profile   `json:"profile"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProfileStore is the port for the remote profile documents. GetProfile
// returns nil without error when no document exists. MergeProfile writes
// with merge semantics; implementations preserve CreatedAt once set.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*ProfileDoc, error)
	MergeProfile(ctx context.Context, userID string, doc ProfileDoc) error
}
