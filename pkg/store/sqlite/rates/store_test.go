package rates

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/de-tools/time-atlas/pkg/models/store"
	"github.com/de-tools/time-atlas/pkg/store/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	store Store
}

func setupFixture(t *testing.T) *fixture {
	db, err := sqlite.NewDB(sqlite.Settings{DbPath: ":memory:"})
	require.NoError(t, err)

	s, err := NewStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return &fixture{db: db, store: s}
}

func intPtr(v int64) *int64 { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestRateStore_AddAndGetHistory(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	err := f.store.Add(ctx, []store.RateRecord{
		{WorkspaceID: 1, MemberID: 10, HourlyRateUSD: floatPtr(50), EffectiveDate: jan},
		{WorkspaceID: 1, MemberID: 10, ClientID: intPtr(7), HourlyRateUSD: floatPtr(80), HourlyRateEUR: floatPtr(72), EffectiveDate: jan},
		{WorkspaceID: 1, MemberID: 10, HourlyRateUSD: floatPtr(60), EffectiveDate: feb},
		{WorkspaceID: 2, MemberID: 10, HourlyRateUSD: floatPtr(99), EffectiveDate: jan},
	})
	require.NoError(t, err)

	history, err := f.store.GetHistory(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 3)

	// History is ordered by member then effective date.
	assert.True(t, history[0].EffectiveDate.Equal(jan))
	assert.True(t, history[2].EffectiveDate.Equal(feb))

	var override *store.RateRecord
	for i := range history {
		if history[i].ClientID != nil {
			override = &history[i]
		}
	}
	require.NotNil(t, override)
	assert.Equal(t, int64(7), *override.ClientID)
	require.NotNil(t, override.HourlyRateEUR)
	assert.Equal(t, 72.0, *override.HourlyRateEUR)
	assert.False(t, override.CreatedAt.IsZero())
}

func TestRateStore_GetMemberHistory(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	err := f.store.Add(ctx, []store.RateRecord{
		{WorkspaceID: 1, MemberID: 10, HourlyRateUSD: floatPtr(50), EffectiveDate: jan},
		{WorkspaceID: 1, MemberID: 11, HourlyRateUSD: floatPtr(40), EffectiveDate: jan},
	})
	require.NoError(t, err)

	history, err := f.store.GetMemberHistory(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, int64(10), history[0].MemberID)
	require.NotNil(t, history[0].HourlyRateUSD)
	assert.Equal(t, 50.0, *history[0].HourlyRateUSD)
	assert.Nil(t, history[0].HourlyRateEUR)
}

func TestRateStore_RejectsAmountlessRate(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	err := f.store.Add(ctx, []store.RateRecord{
		{WorkspaceID: 1, MemberID: 10, EffectiveDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no amount")
}

func TestRateStore_DuplicateScopeAndDateRejected(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := store.RateRecord{WorkspaceID: 1, MemberID: 10, HourlyRateUSD: floatPtr(50), EffectiveDate: jan}
	require.NoError(t, f.store.Add(ctx, []store.RateRecord{rec}))

	// Same member, same scope, same effective date violates the history
	// uniqueness constraint.
	err := f.store.Add(ctx, []store.RateRecord{rec})
	require.Error(t, err)

	// A client override on the same date is a different scope.
	override := rec
	override.ClientID = intPtr(7)
	require.NoError(t, f.store.Add(ctx, []store.RateRecord{override}))
}

func TestRateStore_AddWithinTransaction(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	tx, err := f.db.BeginTx(ctx, nil)
	require.NoError(t, err)

	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	txCtx := sqlite.WithTransaction(ctx, tx)
	err = f.store.Add(txCtx, []store.RateRecord{
		{WorkspaceID: 1, MemberID: 10, HourlyRateUSD: floatPtr(50), EffectiveDate: jan},
	})
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	history, err := f.store.GetHistory(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, history)
}
