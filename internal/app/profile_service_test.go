package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caltrack/internal/domain"
)

type mockProfileStore struct {
	getFn  func(ctx context.Context, userID string) (*domain.ProfileDoc, error)
	merges []domain.ProfileDoc
}

func (m *mockProfileStore) GetProfile(ctx context.Context, userID string) (*domain.ProfileDoc, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockProfileStore) MergeProfile(ctx context.Context, userID string, doc domain.ProfileDoc) error {
	m.merges = append(m.merges, doc)
	return nil
}

func fptr(v float64) *float64 { return &v }

func TestSetMeasurements_RecomputesDerived(t *testing.T) {
	cache := &mockCache{}
	svc := NewProfileService(cache, &mockProfileStore{})

	require.NoError(t, svc.SetMeasurements(domain.GenderMale, 30, 175, 70, 1.2))

	p := svc.Profile()
	require.NotNil(t, p.BMR)
	assert.Equal(t, 1649.0, *p.BMR)
	require.NotNil(t, p.TDEE)
	assert.Equal(t, 1979.0, *p.TDEE)
	require.NotNil(t, p.Goal.TargetKcal)
	assert.Equal(t, 1979.0, *p.Goal.TargetKcal)

	// Written through to the cache, not to the remote store.
	require.NotNil(t, cache.profile)
	assert.Equal(t, 1649.0, *cache.profile.BMR)
}

func TestSetMeasurements_Validation(t *testing.T) {
	svc := NewProfileService(&mockCache{}, &mockProfileStore{})

	tests := []struct {
		name string
		err  error
	}{
		{"bad gender", svc.SetMeasurements("other", 30, 175, 70, 1.2)},
		{"zero age", svc.SetMeasurements(domain.GenderMale, 0, 175, 70, 1.2)},
		{"negative weight", svc.SetMeasurements(domain.GenderMale, 30, 175, -1, 1.2)},
		{"zero activity", svc.SetMeasurements(domain.GenderMale, 30, 175, 70, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.err, ErrValidation)
		})
	}
	p := svc.Profile()
	assert.Nil(t, p.Age, "failed updates must not change the profile")
}

func TestSetGoal_ReDerivesTarget(t *testing.T) {
	svc := NewProfileService(&mockCache{}, &mockProfileStore{})
	require.NoError(t, svc.SetMeasurements(domain.GenderMale, 30, 175, 70, 1.2)) // tdee 1979

	require.NoError(t, svc.SetGoal(domain.GoalCut, 500))
	assert.Equal(t, 1479.0, *svc.Profile().Goal.TargetKcal)

	// Oversized delta clamps to the safe floor.
	require.NoError(t, svc.SetGoal(domain.GoalCut, 900))
	assert.Equal(t, 1200.0, *svc.Profile().Goal.TargetKcal)

	require.NoError(t, svc.SetGoal(domain.GoalBulk, 300))
	assert.Equal(t, 2279.0, *svc.Profile().Goal.TargetKcal)

	require.ErrorIs(t, svc.SetGoal("starve", 100), ErrValidation)
}

func TestProfileHydrate_RemoteOverwritesDraft(t *testing.T) {
	cache := &mockCache{}
	remoteProfile := domain.Profile{
		Gender:         domain.GenderFemale,
		Age:            fptr(25),
		HeightCm:       fptr(165),
		WeightKg:       fptr(60),
		ActivityFactor: 1.0,
		Goal:           domain.Goal{Type: domain.GoalMaintain},
	}
	store := &mockProfileStore{
		getFn: func(context.Context, string) (*domain.ProfileDoc, error) {
			return &domain.ProfileDoc{Email: "u1@example.com", Profile: remoteProfile}, nil
		},
	}
	svc := NewProfileService(cache, store)
	require.NoError(t, svc.SetMeasurements(domain.GenderMale, 40, 180, 90, 1.55)) // local draft

	require.NoError(t, svc.Hydrate(context.Background(), session))

	p := svc.Profile()
	assert.Equal(t, domain.GenderFemale, p.Gender)
	assert.Equal(t, 1345.0, *p.BMR)
	// Mirrored to the cache.
	require.NotNil(t, cache.profile)
	assert.Equal(t, domain.GenderFemale, cache.profile.Gender)
}

func TestProfileHydrate_RemoteFailureKeepsState(t *testing.T) {
	store := &mockProfileStore{
		getFn: func(context.Context, string) (*domain.ProfileDoc, error) {
			return nil, errors.New("timeout")
		},
	}
	svc := NewProfileService(&mockCache{}, store)
	require.NoError(t, svc.SetMeasurements(domain.GenderMale, 30, 175, 70, 1.2))

	err := svc.Hydrate(context.Background(), session)
	require.ErrorIs(t, err, ErrRemoteUnavailable)
	assert.Equal(t, 1649.0, *svc.Profile().BMR, "failure must not corrupt the draft")
}

func TestEnsureRemote(t *testing.T) {
	store := &mockProfileStore{}
	svc := NewProfileService(&mockCache{}, store)

	require.NoError(t, svc.EnsureRemote(context.Background(), session))
	require.Len(t, store.merges, 1)
	assert.Equal(t, "u1@example.com", store.merges[0].Email)
	assert.False(t, store.merges[0].CreatedAt.IsZero())

	// An existing document is never overwritten.
	store.getFn = func(context.Context, string) (*domain.ProfileDoc, error) {
		return &domain.ProfileDoc{Email: "u1@example.com"}, nil
	}
	require.NoError(t, svc.EnsureRemote(context.Background(), session))
	assert.Len(t, store.merges, 1)
}

func TestProfileSave(t *testing.T) {
	cache := &mockCache{}
	store := &mockProfileStore{}
	svc := NewProfileService(cache, store)
	require.NoError(t, svc.SetMeasurements(domain.GenderMale, 30, 175, 70, 1.2))

	// Anonymous: cache mirror still happens, remote save refused.
	err := svc.Save(context.Background())
	require.ErrorIs(t, err, ErrAuthRequired)
	assert.Empty(t, store.merges)
	assert.NotNil(t, cache.profile)

	require.NoError(t, svc.Hydrate(context.Background(), session))
	require.NoError(t, svc.Save(context.Background()))
	require.Len(t, store.merges, 1)
	assert.Equal(t, "u1@example.com", store.merges[0].Email)
	assert.Equal(t, 1649.0, *store.merges[0].Profile.BMR)
}
