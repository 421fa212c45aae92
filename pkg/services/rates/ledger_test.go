package rates

import (
	"testing"
	"time"

	"github.com/de-tools/time-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usd(v float64) *float64 { return &v }

func id(v int64) *int64 { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLedger_Resolve(t *testing.T) {
	ledger, err := NewLedger([]domain.RateRecord{
		{MemberID: 1, HourlyRateUSD: usd(50), EffectiveDate: day(2024, 1, 1)},
		{MemberID: 1, HourlyRateUSD: usd(60), EffectiveDate: day(2024, 2, 1)},
		{MemberID: 1, ClientID: id(7), HourlyRateUSD: usd(80), EffectiveDate: day(2024, 1, 10)},
	})
	require.NoError(t, err)

	t.Run("latest record not after work date wins", func(t *testing.T) {
		rate, ok := ledger.Resolve(1, nil, day(2024, 1, 15))
		require.True(t, ok)
		assert.Equal(t, 50.0, *rate.USD)

		rate, ok = ledger.Resolve(1, nil, day(2024, 2, 1))
		require.True(t, ok)
		assert.Equal(t, 60.0, *rate.USD)
	})

	t.Run("client override beats a more recent default", func(t *testing.T) {
		// The default changed on Feb 1 but the Jan 10 client record
		// still takes precedence for client 7.
		rate, ok := ledger.Resolve(1, id(7), day(2024, 3, 1))
		require.True(t, ok)
		assert.Equal(t, 80.0, *rate.USD)
	})

	t.Run("client scope falls back to default before the override exists", func(t *testing.T) {
		rate, ok := ledger.Resolve(1, id(7), day(2024, 1, 5))
		require.True(t, ok)
		assert.Equal(t, 50.0, *rate.USD)
	})

	t.Run("unknown client uses the default", func(t *testing.T) {
		rate, ok := ledger.Resolve(1, id(99), day(2024, 2, 15))
		require.True(t, ok)
		assert.Equal(t, 60.0, *rate.USD)
	})

	t.Run("no record before the work date", func(t *testing.T) {
		_, ok := ledger.Resolve(1, nil, day(2023, 12, 31))
		assert.False(t, ok)
	})

	t.Run("unknown member", func(t *testing.T) {
		_, ok := ledger.Resolve(42, nil, day(2024, 6, 1))
		assert.False(t, ok)
	})
}

func TestLedger_EffectiveDateIsInclusive(t *testing.T) {
	ledger, err := NewLedger([]domain.RateRecord{
		{MemberID: 1, HourlyRateUSD: usd(55), EffectiveDate: day(2024, 3, 15)},
	})
	require.NoError(t, err)

	rate, ok := ledger.Resolve(1, nil, day(2024, 3, 15))
	require.True(t, ok)
	assert.Equal(t, 55.0, *rate.USD)
}

func TestLedger_TimeOfDayIgnored(t *testing.T) {
	ledger, err := NewLedger([]domain.RateRecord{
		{MemberID: 1, HourlyRateUSD: usd(55), EffectiveDate: day(2024, 3, 15)},
	})
	require.NoError(t, err)

	rate, ok := ledger.Resolve(1, nil, time.Date(2024, 3, 15, 23, 45, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 55.0, *rate.USD)
}

func TestNewLedger_RejectsDuplicateEffectiveDates(t *testing.T) {
	_, err := NewLedger([]domain.RateRecord{
		{MemberID: 1, HourlyRateUSD: usd(50), EffectiveDate: day(2024, 1, 1)},
		{MemberID: 1, HourlyRateUSD: usd(60), EffectiveDate: day(2024, 1, 1)},
	})
	assert.Error(t, err)
}

func TestNewLedger_SameDateDifferentScopesAllowed(t *testing.T) {
	_, err := NewLedger([]domain.RateRecord{
		{MemberID: 1, HourlyRateUSD: usd(50), EffectiveDate: day(2024, 1, 1)},
		{MemberID: 1, ClientID: id(7), HourlyRateUSD: usd(80), EffectiveDate: day(2024, 1, 1)},
		{MemberID: 2, HourlyRateUSD: usd(40), EffectiveDate: day(2024, 1, 1)},
	})
	assert.NoError(t, err)
}
