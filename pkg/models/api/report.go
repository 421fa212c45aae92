package api

import "time"

type DateRange struct {
	Start       string `json:"start_date"`
	End         string `json:"end_date"`
	Description string `json:"description"`
	Days        int    `json:"days"`
}

type ReportTotals struct {
	TotalHours          float64 `json:"total_hours"`
	BillableHours       float64 `json:"billable_hours"`
	BillablePercentage  float64 `json:"billable_percentage"`
	EntryCount          int     `json:"entry_count"`
	EarningsUSD         float64 `json:"earnings_usd"`
	EarningsEUR         float64 `json:"earnings_eur"`
	BillableEarningsUSD float64 `json:"billable_earnings_usd"`
	BillableEarningsEUR float64 `json:"billable_earnings_eur"`
	AverageRateUSD      float64 `json:"average_hourly_rate_usd"`
	AverageRateEUR      float64 `json:"average_hourly_rate_eur"`
}

type ReportNode struct {
	Kind          string       `json:"kind"`
	Id            *int64       `json:"id"`
	Name          string       `json:"name"`
	Totals        ReportTotals `json:"totals"`
	HourlyRateUSD *float64     `json:"hourly_rate_usd,omitempty"`
	HourlyRateEUR *float64     `json:"hourly_rate_eur,omitempty"`
	ProjectCount  int          `json:"project_count,omitempty"`
	Children      []ReportNode `json:"children,omitempty"`
}

type WorkspaceSummary struct {
	TotalClients  int `json:"total_clients"`
	ActiveClients int `json:"active_clients"`
	TotalMembers  int `json:"total_members"`
	ActiveMembers int `json:"active_members"`
	TotalProjects int `json:"total_projects"`
}

type WorkspaceReport struct {
	WorkspaceId int64            `json:"workspace_id"`
	Range       DateRange        `json:"range"`
	Totals      ReportTotals     `json:"totals"`
	Summary     WorkspaceSummary `json:"summary"`
	Clients     []ReportNode     `json:"clients"`
}

type ClientReport struct {
	WorkspaceId int64        `json:"workspace_id"`
	ClientId    *int64       `json:"client_id"`
	ClientName  string       `json:"client_name"`
	Range       DateRange    `json:"range"`
	Totals      ReportTotals `json:"totals"`
	Groups      []ReportNode `json:"groups"`
}

type MemberReport struct {
	WorkspaceId int64        `json:"workspace_id"`
	MemberId    int64        `json:"member_id"`
	MemberName  string       `json:"member_name"`
	Range       DateRange    `json:"range"`
	Totals      ReportTotals `json:"totals"`
	Clients     []ReportNode `json:"clients"`
}

type TimeEntry struct {
	Id          int64      `json:"id"`
	Description string     `json:"description"`
	Start       time.Time  `json:"start"`
	Stop        *time.Time `json:"stop,omitempty"`
	Hours       float64    `json:"hours"`
	MemberName  string     `json:"member_name"`
	ProjectName string     `json:"project_name,omitempty"`
	ClientName  string     `json:"client_name,omitempty"`
	Billable    bool       `json:"billable"`
	Tags        []string   `json:"tags,omitempty"`
}

type Pagination struct {
	Limit        int `json:"limit"`
	Offset       int `json:"offset"`
	TotalEntries int `json:"total_entries"`
	TotalPages   int `json:"total_pages"`
	CurrentPage  int `json:"current_page"`
}

type DrillDownPage struct {
	WorkspaceId int64        `json:"workspace_id"`
	Range       DateRange    `json:"range"`
	Entries     []TimeEntry  `json:"entries"`
	Pagination  Pagination   `json:"pagination"`
	Summary     ReportTotals `json:"summary"`
}

type InvalidationResult struct {
	Removed int `json:"removed"`
}
