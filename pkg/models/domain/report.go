package domain

import (
	"math"
	"time"
)

// NodeKind tags what a ReportNode groups by.
type NodeKind string

const (
	NodeClient  NodeKind = "client"
	NodeProject NodeKind = "project"
	NodeMember  NodeKind = "member"
)

// ReportTotals are the duration, count and earnings sums of one report
// group. Hours, billable percentage and average rate are always derived.
type ReportTotals struct {
	TotalSeconds    int64
	BillableSeconds int64
	EntryCount      int

	EarningsUSD         float64
	EarningsEUR         float64
	BillableEarningsUSD float64
	BillableEarningsEUR float64
}

// Add folds another group's totals into t. Parent totals are always the
// exact sum of their children, never recomputed from entries.
func (t *ReportTotals) Add(o ReportTotals) {
	t.TotalSeconds += o.TotalSeconds
	t.BillableSeconds += o.BillableSeconds
	t.EntryCount += o.EntryCount
	t.EarningsUSD += o.EarningsUSD
	t.EarningsEUR += o.EarningsEUR
	t.BillableEarningsUSD += o.BillableEarningsUSD
	t.BillableEarningsEUR += o.BillableEarningsEUR
}

func (t ReportTotals) TotalHours() float64 {
	return float64(t.TotalSeconds) / 3600
}

func (t ReportTotals) BillableHours() float64 {
	return float64(t.BillableSeconds) / 3600
}

// BillablePercentage is billable hours over total hours, zero when no time
// was tracked.
func (t ReportTotals) BillablePercentage() float64 {
	if t.TotalSeconds == 0 {
		return 0
	}
	return math.Round(float64(t.BillableSeconds)/float64(t.TotalSeconds)*1000) / 10
}

// AverageHourlyRateUSD is earnings over hours, zero when no time was tracked.
func (t ReportTotals) AverageHourlyRateUSD() float64 {
	if t.TotalSeconds == 0 {
		return 0
	}
	return math.RoundToEven(t.EarningsUSD/t.TotalHours()*100) / 100
}

func (t ReportTotals) AverageHourlyRateEUR() float64 {
	if t.TotalSeconds == 0 {
		return 0
	}
	return math.RoundToEven(t.EarningsEUR/t.TotalHours()*100) / 100
}

// ReportNode is one group in a hierarchical report. The tree shape is fixed
// per report type; Kind tells what the node groups by. A nil ID is the
// "no client" / "no project" bucket.
type ReportNode struct {
	Kind   NodeKind
	ID     *int64
	Name   string
	Totals ReportTotals

	// Member nodes carry the display rate resolved at the range end.
	HourlyRateUSD *float64
	HourlyRateEUR *float64

	// Client nodes carry the number of distinct projects seen in range.
	ProjectCount int

	Children []ReportNode
}

// WorkspaceSummary counts the population behind a workspace report.
// Totals cover the snapshot window before allow-list filtering; active
// counts cover the filtered result.
type WorkspaceSummary struct {
	TotalClients  int
	ActiveClients int
	TotalMembers  int
	ActiveMembers int
	TotalProjects int
}

// WorkspaceReport is the workspace summary: clients with member children.
type WorkspaceReport struct {
	WorkspaceID int64
	Range       DateRange
	Totals      ReportTotals
	Summary     WorkspaceSummary
	Clients     []ReportNode
}

// ClientReport details one client (or the "no client" bucket), broken down
// by project with member children, or directly by member.
type ClientReport struct {
	WorkspaceID int64
	ClientID    *int64
	ClientName  string
	Range       DateRange
	Totals      ReportTotals
	Groups      []ReportNode
}

// MemberReport details one member across the clients they worked for.
type MemberReport struct {
	WorkspaceID int64
	MemberID    int64
	MemberName  string
	Range       DateRange
	Totals      ReportTotals
	Clients     []ReportNode
}

// TimeEntryView is a single drill-down row.
type TimeEntryView struct {
	ID          int64
	Description string
	Start       time.Time
	Stop        *time.Time
	Hours       float64
	MemberName  string
	ProjectName string
	ClientName  string
	Billable    bool
	Tags        []string
}

// Pagination describes the window a drill-down page covers.
type Pagination struct {
	Limit        int
	Offset       int
	TotalEntries int
	TotalPages   int
	CurrentPage  int
}

// DrillDownPage is one page of raw matching entries plus the totals of the
// whole filtered set, not just the page.
type DrillDownPage struct {
	WorkspaceID int64
	Range       DateRange
	Entries     []TimeEntryView
	Pagination  Pagination
	Summary     ReportTotals
}
