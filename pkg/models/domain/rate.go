package domain

import "time"

// RateRecord is one row of a member's rate history. A nil ClientID marks
// the member's default rate; a set ClientID overrides the default for work
// done for that client. Records with the same (member, client, effective
// date) tuple are not allowed.
type RateRecord struct {
	MemberID      int64
	ClientID      *int64
	HourlyRateUSD *float64
	HourlyRateEUR *float64
	EffectiveDate time.Time // date precision, applies from this day inclusive
	CreatedAt     time.Time
}

// Rate is a resolved pair of hourly rates. Either currency may be absent.
type Rate struct {
	USD *float64
	EUR *float64
}
