package domain

// Period is a named reporting window resolved against the current date.
type Period string

const (
	PeriodLast7Days   Period = "last_7_days"
	PeriodLast30Days  Period = "last_30_days"
	PeriodLast90Days  Period = "last_90_days"
	PeriodThisMonth   Period = "this_month"
	PeriodLastMonth   Period = "last_month"
	PeriodThisQuarter Period = "this_quarter"
	PeriodLastQuarter Period = "last_quarter"
	PeriodThisYear    Period = "this_year"
	PeriodCustom      Period = "custom"
)

// Valid reports whether p is one of the known period tokens.
func (p Period) Valid() bool {
	switch p {
	case PeriodLast7Days, PeriodLast30Days, PeriodLast90Days,
		PeriodThisMonth, PeriodLastMonth,
		PeriodThisQuarter, PeriodLastQuarter,
		PeriodThisYear, PeriodCustom:
		return true
	}
	return false
}
