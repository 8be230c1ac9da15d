package domain_test

import (
	"testing"

	"caltrack/internal/domain"
)

func f(v float64) *float64 { return &v }

func profileWith(gender domain.Gender, age, height, weight, activity float64, goal domain.Goal) domain.Profile {
	return domain.Profile{
		Gender:         gender,
		Age:            f(age),
		HeightCm:       f(height),
		WeightKg:       f(weight),
		ActivityFactor: activity,
		Goal:           goal,
	}
}

func TestComputeDerived(t *testing.T) {
	tests := []struct {
		name       string
		profile    domain.Profile
		wantBMR    float64
		wantTDEE   float64
		wantTarget float64
	}{
		{
			// 10*70 + 6.25*175 - 5*30 + 5 = 1649
			"male maintain",
			profileWith(domain.GenderMale, 30, 175, 70, 1.2, domain.Goal{Type: domain.GoalMaintain}),
			1649, 1979, 1979,
		},
		{
			// 10*60 + 6.25*165 - 5*25 - 161 = 1345
			"female maintain",
			profileWith(domain.GenderFemale, 25, 165, 60, 1.0, domain.Goal{Type: domain.GoalMaintain}),
			1345, 1345, 1345,
		},
		{
			"bulk adds delta",
			profileWith(domain.GenderMale, 30, 175, 70, 1.2, domain.Goal{Type: domain.GoalBulk, Delta: 300}),
			1649, 1979, 2279,
		},
		{
			"cut subtracts delta",
			profileWith(domain.GenderMale, 30, 175, 70, 1.2, domain.Goal{Type: domain.GoalCut, Delta: 500}),
			1649, 1979, 1479,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.ComputeDerived(tc.profile)
			if got.BMR == nil || got.TDEE == nil || got.TargetKcal == nil {
				t.Fatal("expected all derived values to be set")
			}
			if *got.BMR != tc.wantBMR {
				t.Errorf("bmr = %v; want %v", *got.BMR, tc.wantBMR)
			}
			if *got.TDEE != tc.wantTDEE {
				t.Errorf("tdee = %v; want %v", *got.TDEE, tc.wantTDEE)
			}
			if *got.TargetKcal != tc.wantTarget {
				t.Errorf("targetKcal = %v; want %v", *got.TargetKcal, tc.wantTarget)
			}
		})
	}
}

func TestComputeDerived_MissingInputs(t *testing.T) {
	tests := []struct {
		name    string
		profile domain.Profile
	}{
		{"empty profile", domain.DefaultProfile()},
		{"missing weight", domain.Profile{Gender: domain.GenderMale, Age: f(30), HeightCm: f(175), ActivityFactor: 1.2}},
		{"zero activity", domain.Profile{Gender: domain.GenderMale, Age: f(30), HeightCm: f(175), WeightKg: f(70)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.ComputeDerived(tc.profile)
			if got.BMR != nil || got.TDEE != nil || got.TargetKcal != nil {
				t.Errorf("expected nil derived values, got %+v", got)
			}
		})
	}
}

func TestComputeDerived_Pure(t *testing.T) {
	p := profileWith(domain.GenderMale, 30, 175, 70, 1.55, domain.Goal{Type: domain.GoalCut, Delta: 400})
	first := domain.ComputeDerived(p)
	second := domain.ComputeDerived(p)
	if *first.BMR != *second.BMR || *first.TDEE != *second.TDEE || *first.TargetKcal != *second.TargetKcal {
		t.Error("identical inputs must yield identical outputs")
	}
}

func TestTargetFromGoal_CutFloor(t *testing.T) {
	tests := []struct {
		name  string
		tdee  float64
		delta float64
		want  float64
	}{
		{"within range", 2000, 500, 1500},
		{"clamped", 2000, 900, 1200},
		{"oversized delta", 1500, 1000, 1200},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.TargetFromGoal(tc.tdee, domain.GoalCut, tc.delta)
			if got == nil || *got != tc.want {
				t.Errorf("TargetFromGoal(%v, cut, %v) = %v; want %v", tc.tdee, tc.delta, got, tc.want)
			}
		})
	}
}
