package domain

import "time"

// TimeEntry is a single tracked unit of work, owned by the snapshot store
// and read-only to the reporting engine. A negative duration marks a
// still-running entry, which never contributes to reports.
type TimeEntry struct {
	ID          int64
	WorkspaceID int64
	MemberID    int64
	MemberName  string
	ProjectID   *int64
	ProjectName string
	ClientID    *int64
	ClientName  string
	Description string
	Start       time.Time
	Stop        *time.Time
	Duration    int64 // seconds
	Billable    bool
	Tags        []string
}

// Running reports whether the entry is still being tracked.
func (e TimeEntry) Running() bool {
	return e.Duration < 0
}

// WorkDate is the calendar date the entry started on, used for rate lookups.
func (e TimeEntry) WorkDate() time.Time {
	y, m, d := e.Start.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
