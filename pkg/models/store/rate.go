package store

import "time"

// RateRecord is one row of the rate history. ClientID is nil for a member's
// default rate. At most one of the amount columns may be nil.
type RateRecord struct {
	ID            int64
	WorkspaceID   int64
	MemberID      int64
	ClientID      *int64
	HourlyRateUSD *float64
	HourlyRateEUR *float64
	EffectiveDate time.Time
	CreatedAt     time.Time
}
