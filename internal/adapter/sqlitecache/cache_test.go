package sqlitecache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caltrack/internal/domain"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestDayLogRoundTrip(t *testing.T) {
	c := openTestCache(t)

	empty, err := c.LoadDayLog()
	require.NoError(t, err)
	assert.Nil(t, empty)

	in := domain.DayLog{
		DayID: "2024-06-01",
		Foods: []domain.FoodEntry{
			{Name: "Egg", Kcal: 140, Protein: 12, Carb: 1, Fat: 10, LoggedAt: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)},
			{Name: "Rice", Kcal: 215, Protein: 5, Carb: 45, Fat: 2, LoggedAt: time.Date(2024, 6, 1, 7, 30, 0, 0, time.UTC)},
		},
	}
	in.Totals = domain.SumTotals(in.Foods)
	require.NoError(t, c.SaveDayLog(in))

	out, err := c.LoadDayLog()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in.DayID, out.DayID)
	assert.Equal(t, in.Foods, out.Foods)
	assert.Equal(t, in.Totals, out.Totals)

	// Saving again replaces the slot.
	in.Foods = in.Foods[:1]
	in.Totals = domain.SumTotals(in.Foods)
	require.NoError(t, c.SaveDayLog(in))
	out, err = c.LoadDayLog()
	require.NoError(t, err)
	assert.Len(t, out.Foods, 1)
}

func TestProfileRoundTrip(t *testing.T) {
	c := openTestCache(t)

	empty, err := c.LoadProfile()
	require.NoError(t, err)
	assert.Nil(t, empty)

	age, height, weight := 30.0, 175.0, 70.0
	in := domain.Profile{
		Gender:         domain.GenderFemale,
		Age:            &age,
		HeightCm:       &height,
		WeightKg:       &weight,
		ActivityFactor: 1.55,
		Goal:           domain.Goal{Type: domain.GoalCut, Delta: 400},
	}
	require.NoError(t, c.SaveProfile(in))

	out, err := c.LoadProfile()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in, *out)
}

func TestUserStore(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	missing, err := c.GetUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	created, err := c.CreateUser(ctx, "id-1", "a@example.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", created.Email)

	got, err := c.GetUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "id-1", got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	_, err = c.CreateUser(ctx, "id-2", "a@example.com", "hash")
	assert.Error(t, err, "email is unique")
}
