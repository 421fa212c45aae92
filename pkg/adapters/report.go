package adapters

import (
	"time"

	"github.com/de-tools/time-atlas/pkg/models/api"
	"github.com/de-tools/time-atlas/pkg/models/domain"
)

func MapDateRangeDomainToApi(rng domain.DateRange) api.DateRange {
	return api.DateRange{
		Start:       rng.Start.Format(time.DateOnly),
		End:         rng.End.Format(time.DateOnly),
		Description: rng.Description,
		Days:        rng.Days(),
	}
}

func MapReportTotalsDomainToApi(t domain.ReportTotals) api.ReportTotals {
	return api.ReportTotals{
		TotalHours:          t.TotalHours(),
		BillableHours:       t.BillableHours(),
		BillablePercentage:  t.BillablePercentage(),
		EntryCount:          t.EntryCount,
		EarningsUSD:         t.EarningsUSD,
		EarningsEUR:         t.EarningsEUR,
		BillableEarningsUSD: t.BillableEarningsUSD,
		BillableEarningsEUR: t.BillableEarningsEUR,
		AverageRateUSD:      t.AverageHourlyRateUSD(),
		AverageRateEUR:      t.AverageHourlyRateEUR(),
	}
}

func MapReportNodeDomainToApi(node domain.ReportNode) api.ReportNode {
	apiNode := api.ReportNode{
		Kind:          string(node.Kind),
		Id:            node.ID,
		Name:          node.Name,
		Totals:        MapReportTotalsDomainToApi(node.Totals),
		HourlyRateUSD: node.HourlyRateUSD,
		HourlyRateEUR: node.HourlyRateEUR,
		ProjectCount:  node.ProjectCount,
	}
	for _, child := range node.Children {
		apiNode.Children = append(apiNode.Children, MapReportNodeDomainToApi(child))
	}
	return apiNode
}

func mapReportNodesDomainToApi(nodes []domain.ReportNode) []api.ReportNode {
	out := make([]api.ReportNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, MapReportNodeDomainToApi(n))
	}
	return out
}

func MapWorkspaceReportDomainToApi(rep *domain.WorkspaceReport) api.WorkspaceReport {
	return api.WorkspaceReport{
		WorkspaceId: rep.WorkspaceID,
		Range:       MapDateRangeDomainToApi(rep.Range),
		Totals:      MapReportTotalsDomainToApi(rep.Totals),
		Summary: api.WorkspaceSummary{
			TotalClients:  rep.Summary.TotalClients,
			ActiveClients: rep.Summary.ActiveClients,
			TotalMembers:  rep.Summary.TotalMembers,
			ActiveMembers: rep.Summary.ActiveMembers,
			TotalProjects: rep.Summary.TotalProjects,
		},
		Clients: mapReportNodesDomainToApi(rep.Clients),
	}
}

func MapClientReportDomainToApi(rep *domain.ClientReport) api.ClientReport {
	return api.ClientReport{
		WorkspaceId: rep.WorkspaceID,
		ClientId:    rep.ClientID,
		ClientName:  rep.ClientName,
		Range:       MapDateRangeDomainToApi(rep.Range),
		Totals:      MapReportTotalsDomainToApi(rep.Totals),
		Groups:      mapReportNodesDomainToApi(rep.Groups),
	}
}

func MapMemberReportDomainToApi(rep *domain.MemberReport) api.MemberReport {
	return api.MemberReport{
		WorkspaceId: rep.WorkspaceID,
		MemberId:    rep.MemberID,
		MemberName:  rep.MemberName,
		Range:       MapDateRangeDomainToApi(rep.Range),
		Totals:      MapReportTotalsDomainToApi(rep.Totals),
		Clients:     mapReportNodesDomainToApi(rep.Clients),
	}
}

func MapTimeEntryViewDomainToApi(e domain.TimeEntryView) api.TimeEntry {
	return api.TimeEntry{
		Id:          e.ID,
		Description: e.Description,
		Start:       e.Start,
		Stop:        e.Stop,
		Hours:       e.Hours,
		MemberName:  e.MemberName,
		ProjectName: e.ProjectName,
		ClientName:  e.ClientName,
		Billable:    e.Billable,
		Tags:        e.Tags,
	}
}

func MapDrillDownPageDomainToApi(page *domain.DrillDownPage) api.DrillDownPage {
	entries := make([]api.TimeEntry, 0, len(page.Entries))
	for _, e := range page.Entries {
		entries = append(entries, MapTimeEntryViewDomainToApi(e))
	}
	return api.DrillDownPage{
		WorkspaceId: page.WorkspaceID,
		Range:       MapDateRangeDomainToApi(page.Range),
		Entries:     entries,
		Pagination: api.Pagination{
			Limit:        page.Pagination.Limit,
			Offset:       page.Pagination.Offset,
			TotalEntries: page.Pagination.TotalEntries,
			TotalPages:   page.Pagination.TotalPages,
			CurrentPage:  page.Pagination.CurrentPage,
		},
		Summary: MapReportTotalsDomainToApi(page.Summary),
	}
}
