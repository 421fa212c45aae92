package domain

import "time"

// SortOrder controls sort direction for report groups and drill-down rows.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortKey names the attribute report groups are ordered by.
type SortKey string

const (
	SortByName          SortKey = "name"
	SortByTotalHours    SortKey = "total_hours"
	SortByBillableHours SortKey = "billable_hours"
	SortByEarningsUSD   SortKey = "earnings_usd"
	SortByEarningsEUR   SortKey = "earnings_eur"
)

// EntrySortKey names the attribute drill-down entries are ordered by.
type EntrySortKey string

const (
	EntrySortByStart       EntrySortKey = "start_time"
	EntrySortByDuration    EntrySortKey = "duration"
	EntrySortByDescription EntrySortKey = "description"
	EntrySortByMemberName  EntrySortKey = "member_name"
	EntrySortByProjectName EntrySortKey = "project_name"
	EntrySortByClientName  EntrySortKey = "client_name"
)

// Scope narrows a report to a single client or project. A nil ID selects
// the "no client" / "no project" bucket, which is distinct from any real
// identifier.
type Scope struct {
	ID *int64
}

// ReportRequest carries every parameter of a report build. It is an
// immutable value object and fully determines the cache fingerprint.
type ReportRequest struct {
	WorkspaceID int64
	Period      Period
	StartDate   time.Time // custom period only
	EndDate     time.Time // custom period only

	// Allow-lists; an empty list means "no restriction".
	ClientIDs []int64
	MemberIDs []int64

	IncludeNonBillable bool

	SortBy    SortKey
	SortOrder SortOrder

	// Drill-down pagination and sorting.
	Limit       int
	Offset      int
	EntrySortBy EntrySortKey

	// Scoping for client detail, member detail and drill-down.
	Client           *Scope
	Project          *Scope
	MemberID         int64
	ProjectBreakdown bool
}

// DateRange is a resolved inclusive reporting window with a presentational
// label. The label is deterministic for identical inputs.
type DateRange struct {
	Start       time.Time
	End         time.Time
	Description string
}

// Days is the inclusive length of the range in days.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}
