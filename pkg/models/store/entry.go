package store

import "time"

// TimeEntryRecord is the persisted shape of one tracked interval. Stop is
// nil while the timer still runs; the duration column then carries the
// negative running marker.
type TimeEntryRecord struct {
	ID          int64
	WorkspaceID int64
	MemberID    int64
	MemberName  string
	ProjectID   *int64
	ProjectName string
	ClientID    *int64
	ClientName  string
	Description string
	StartTime   time.Time
	StopTime    *time.Time
	Seconds     int64
	Billable    bool
	Tags        []string
}

type EntryStats struct {
	RecordsCount    int64
	FirstRecordTime *time.Time
}
