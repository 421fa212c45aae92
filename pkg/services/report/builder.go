package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/de-tools/time-atlas/pkg/models/domain"
	"github.com/de-tools/time-atlas/pkg/services/aggregate"
	"github.com/de-tools/time-atlas/pkg/services/daterange"
	"github.com/de-tools/time-atlas/pkg/services/earnings"
	"github.com/de-tools/time-atlas/pkg/services/rates"
)

// EntryProvider supplies the materialized time entry snapshot for a
// workspace and coarse date window. Fine-grained filtering happens here.
type EntryProvider interface {
	EntriesForWorkspace(ctx context.Context, workspaceID int64, start, end time.Time) ([]domain.TimeEntry, error)
}

// RateProvider supplies the full rate history for a workspace.
type RateProvider interface {
	RatesForWorkspace(ctx context.Context, workspaceID int64) ([]domain.RateRecord, error)
}

// Builder assembles the four report shapes from snapshot data. It holds no
// mutable state; every build is a pure function over provider output.
type Builder struct {
	entries  EntryProvider
	rates    RateProvider
	resolver *daterange.Resolver
	policy   earnings.Policy
}

func NewBuilder(entries EntryProvider, rateProvider RateProvider, resolver *daterange.Resolver, policy earnings.Policy) *Builder {
	if resolver == nil {
		resolver = daterange.NewResolver()
	}
	return &Builder{
		entries:  entries,
		rates:    rateProvider,
		resolver: resolver,
		policy:   policy,
	}
}

// ResolveRange resolves the request's period into concrete dates. An unset
// period defaults to the last 30 days.
func (b *Builder) ResolveRange(req domain.ReportRequest) (domain.DateRange, error) {
	period := req.Period
	if period == "" {
		period = domain.PeriodLast30Days
	}
	return b.resolver.Resolve(period, req.StartDate, req.EndDate)
}

// load resolves the range and materializes entries, ledger and calculator
// for one build.
func (b *Builder) load(ctx context.Context, req domain.ReportRequest) (domain.DateRange, []domain.TimeEntry, *earnings.Calculator, error) {
	rng, err := b.ResolveRange(req)
	if err != nil {
		return domain.DateRange{}, nil, nil, err
	}

	entries, err := b.entries.EntriesForWorkspace(ctx, req.WorkspaceID, rng.Start, rng.End.AddDate(0, 0, 1))
	if err != nil {
		return domain.DateRange{}, nil, nil, fmt.Errorf("load entries: %w", err)
	}

	records, err := b.rates.RatesForWorkspace(ctx, req.WorkspaceID)
	if err != nil {
		return domain.DateRange{}, nil, nil, fmt.Errorf("load rates: %w", err)
	}
	ledger, err := rates.NewLedger(records)
	if err != nil {
		return domain.DateRange{}, nil, nil, fmt.Errorf("index rates: %w", err)
	}

	return rng, entries, earnings.NewCalculator(ledger, b.policy), nil
}

func baseFilters(req domain.ReportRequest) aggregate.Filters {
	return aggregate.Filters{
		ClientIDs:    req.ClientIDs,
		MemberIDs:    req.MemberIDs,
		BillableOnly: !req.IncludeNonBillable,
	}
}

// BuildWorkspaceReport produces the workspace summary: one node per client
// with member children, sorted by the requested key.
func (b *Builder) BuildWorkspaceReport(ctx context.Context, req domain.ReportRequest) (*domain.WorkspaceReport, error) {
	rng, entries, calc, err := b.load(ctx, req)
	if err != nil {
		return nil, err
	}

	filters := baseFilters(req)
	res, err := aggregate.Aggregate(entries, []aggregate.Level{aggregate.LevelClient, aggregate.LevelMember}, filters)
	if err != nil {
		return nil, err
	}

	clients := nodesFromBuckets(res.Buckets, []domain.NodeKind{domain.NodeClient, domain.NodeMember}, nil, calc, rng)
	if err := sortNodes(clients, req.SortBy, req.SortOrder); err != nil {
		return nil, err
	}

	kept, _ := aggregate.Apply(entries, filters)
	attachProjectCounts(clients, kept)

	var totals domain.ReportTotals
	for _, c := range clients {
		totals.Add(c.Totals)
	}

	all, _ := aggregate.Apply(entries, aggregate.Filters{})
	totalClients, totalMembers, totalProjects := distinctCounts(all)
	activeClients, activeMembers, _ := distinctCounts(kept)

	return &domain.WorkspaceReport{
		WorkspaceID: req.WorkspaceID,
		Range:       rng,
		Totals:      totals,
		Summary: domain.WorkspaceSummary{
			TotalClients:  totalClients,
			ActiveClients: activeClients,
			TotalMembers:  totalMembers,
			ActiveMembers: activeMembers,
			TotalProjects: totalProjects,
		},
		Clients: clients,
	}, nil
}

// BuildClientReport details one client, broken down by project with member
// children, or directly by member.
func (b *Builder) BuildClientReport(ctx context.Context, req domain.ReportRequest) (*domain.ClientReport, error) {
	if req.Client == nil {
		return nil, fmt.Errorf("%w: client report requires a client scope", domain.ErrInvalidFilter)
	}

	rng, entries, calc, err := b.load(ctx, req)
	if err != nil {
		return nil, err
	}

	filters := baseFilters(req)
	filters.Client = req.Client

	levels := []aggregate.Level{aggregate.LevelMember}
	kinds := []domain.NodeKind{domain.NodeMember}
	if req.ProjectBreakdown {
		levels = []aggregate.Level{aggregate.LevelProject, aggregate.LevelMember}
		kinds = []domain.NodeKind{domain.NodeProject, domain.NodeMember}
	}

	res, err := aggregate.Aggregate(entries, levels, filters)
	if err != nil {
		return nil, err
	}

	groups := nodesFromBuckets(res.Buckets, kinds, req.Client.ID, calc, rng)
	if err := sortNodes(groups, req.SortBy, req.SortOrder); err != nil {
		return nil, err
	}

	var totals domain.ReportTotals
	for _, g := range groups {
		totals.Add(g.Totals)
	}

	kept, _ := aggregate.Apply(entries, filters)
	name := "No Client"
	if req.Client.ID != nil {
		name = fmt.Sprintf("Client %d", *req.Client.ID)
		for _, e := range kept {
			if e.ClientName != "" {
				name = e.ClientName
				break
			}
		}
	}

	return &domain.ClientReport{
		WorkspaceID: req.WorkspaceID,
		ClientID:    req.Client.ID,
		ClientName:  name,
		Range:       rng,
		Totals:      totals,
		Groups:      groups,
	}, nil
}

// BuildMemberReport details one member across the clients they worked for.
func (b *Builder) BuildMemberReport(ctx context.Context, req domain.ReportRequest) (*domain.MemberReport, error) {
	if req.MemberID == 0 {
		return nil, fmt.Errorf("%w: member report requires a member id", domain.ErrInvalidFilter)
	}

	rng, entries, calc, err := b.load(ctx, req)
	if err != nil {
		return nil, err
	}

	filters := baseFilters(req)
	filters.MemberID = req.MemberID

	res, err := aggregate.Aggregate(entries, []aggregate.Level{aggregate.LevelClient}, filters)
	if err != nil {
		return nil, err
	}

	clients := nodesFromBuckets(res.Buckets, []domain.NodeKind{domain.NodeClient}, nil, calc, rng)
	for i := range clients {
		// The member's rate for each client, for display.
		if rate, ok := calc.DisplayRate(req.MemberID, clients[i].ID, rng); ok {
			clients[i].HourlyRateUSD = rate.USD
			clients[i].HourlyRateEUR = rate.EUR
		}
	}
	if err := sortNodes(clients, req.SortBy, req.SortOrder); err != nil {
		return nil, err
	}

	var totals domain.ReportTotals
	for _, c := range clients {
		totals.Add(c.Totals)
	}

	kept, _ := aggregate.Apply(entries, filters)
	name := ""
	for _, e := range kept {
		if e.MemberName != "" {
			name = e.MemberName
			break
		}
	}

	return &domain.MemberReport{
		WorkspaceID: req.WorkspaceID,
		MemberID:    req.MemberID,
		MemberName:  name,
		Range:       rng,
		Totals:      totals,
		Clients:     clients,
	}, nil
}

// BuildDrillDown returns one page of raw matching entries plus totals over
// the whole filtered set.
func (b *Builder) BuildDrillDown(ctx context.Context, req domain.ReportRequest) (*domain.DrillDownPage, error) {
	if req.Limit <= 0 {
		return nil, fmt.Errorf("%w: pagination limit must be positive", domain.ErrInvalidFilter)
	}
	if req.Offset < 0 {
		return nil, fmt.Errorf("%w: pagination offset must not be negative", domain.ErrInvalidFilter)
	}

	rng, entries, calc, err := b.load(ctx, req)
	if err != nil {
		return nil, err
	}

	filters := baseFilters(req)
	filters.Client = req.Client
	filters.Project = req.Project
	filters.MemberID = req.MemberID

	kept, _ := aggregate.Apply(entries, filters)
	if err := sortEntries(kept, req.EntrySortBy, req.SortOrder); err != nil {
		return nil, err
	}

	summary := entriesTotals(kept, calc)

	total := len(kept)
	start := req.Offset
	if start > total {
		start = total
	}
	end := start + req.Limit
	if end > total {
		end = total
	}

	views := make([]domain.TimeEntryView, 0, end-start)
	for _, e := range kept[start:end] {
		views = append(views, entryView(e))
	}

	return &domain.DrillDownPage{
		WorkspaceID: req.WorkspaceID,
		Range:       rng,
		Entries:     views,
		Pagination: domain.Pagination{
			Limit:        req.Limit,
			Offset:       req.Offset,
			TotalEntries: total,
			TotalPages:   (total + req.Limit - 1) / req.Limit,
			CurrentPage:  req.Offset/req.Limit + 1,
		},
		Summary: summary,
	}, nil
}

// nodesFromBuckets converts one level of aggregation buckets into report
// nodes. Parent totals are the exact sum of their children so earnings stay
// additive bottom-up. clientID is the client context for rate display on
// member leaves.
func nodesFromBuckets(
	buckets map[aggregate.Key]*aggregate.Bucket,
	kinds []domain.NodeKind,
	clientID *int64,
	calc *earnings.Calculator,
	rng domain.DateRange,
) []domain.ReportNode {
	nodes := make([]domain.ReportNode, 0, len(buckets))
	for _, bucket := range buckets {
		node := domain.ReportNode{
			Kind: kinds[0],
			ID:   idOf(bucket.Key),
			Name: bucket.Name,
		}

		if len(kinds) == 1 {
			node.Totals = leafTotals(bucket, calc)
		} else {
			childClient := clientID
			if kinds[0] == domain.NodeClient {
				childClient = node.ID
			}
			children := nodesFromBuckets(bucket.Children, kinds[1:], childClient, calc, rng)
			// Children default to most hours first.
			_ = sortNodes(children, domain.SortByTotalHours, domain.SortDesc)
			for _, c := range children {
				node.Totals.Add(c.Totals)
			}
			node.Children = children
		}

		if node.Kind == domain.NodeMember && node.ID != nil {
			if rate, ok := calc.DisplayRate(*node.ID, clientID, rng); ok {
				node.HourlyRateUSD = rate.USD
				node.HourlyRateEUR = rate.EUR
			}
		}

		nodes = append(nodes, node)
	}
	return nodes
}

func leafTotals(bucket *aggregate.Bucket, calc *earnings.Calculator) domain.ReportTotals {
	totals := domain.ReportTotals{
		TotalSeconds: bucket.TotalSeconds,
		EntryCount:   bucket.EntryCount,
	}
	for _, e := range bucket.Entries {
		if calc.Billable(e) {
			totals.BillableSeconds += e.Duration
		}
	}
	a := calc.ForEntries(bucket.Entries)
	totals.EarningsUSD = a.USD
	totals.EarningsEUR = a.EUR
	totals.BillableEarningsUSD = a.BillableUSD
	totals.BillableEarningsEUR = a.BillableEUR
	return totals
}

func entriesTotals(entries []domain.TimeEntry, calc *earnings.Calculator) domain.ReportTotals {
	totals := domain.ReportTotals{EntryCount: len(entries)}
	for _, e := range entries {
		totals.TotalSeconds += e.Duration
		if calc.Billable(e) {
			totals.BillableSeconds += e.Duration
		}
	}
	a := calc.ForEntries(entries)
	totals.EarningsUSD = a.USD
	totals.EarningsEUR = a.EUR
	totals.BillableEarningsUSD = a.BillableUSD
	totals.BillableEarningsEUR = a.BillableEUR
	return totals
}

func entryView(e domain.TimeEntry) domain.TimeEntryView {
	return domain.TimeEntryView{
		ID:          e.ID,
		Description: e.Description,
		Start:       e.Start,
		Stop:        e.Stop,
		Hours:       earnings.RoundMoney(float64(e.Duration) / 3600),
		MemberName:  e.MemberName,
		ProjectName: e.ProjectName,
		ClientName:  e.ClientName,
		Billable:    e.Billable,
		Tags:        e.Tags,
	}
}

// attachProjectCounts sets the number of distinct projects seen per client
// node, the "no project" bucket included.
func attachProjectCounts(clients []domain.ReportNode, entries []domain.TimeEntry) {
	counts := make(map[aggregate.Key]map[aggregate.Key]bool)
	for _, e := range entries {
		ck := aggregate.Key{Missing: true}
		if e.ClientID != nil {
			ck = aggregate.Key{ID: *e.ClientID}
		}
		pk := aggregate.Key{Missing: true}
		if e.ProjectID != nil {
			pk = aggregate.Key{ID: *e.ProjectID}
		}
		if counts[ck] == nil {
			counts[ck] = make(map[aggregate.Key]bool)
		}
		counts[ck][pk] = true
	}
	for i := range clients {
		ck := aggregate.Key{Missing: true}
		if clients[i].ID != nil {
			ck = aggregate.Key{ID: *clients[i].ID}
		}
		clients[i].ProjectCount = len(counts[ck])
	}
}

func distinctCounts(entries []domain.TimeEntry) (clients, members, projects int) {
	cs := make(map[aggregate.Key]bool)
	ms := make(map[int64]bool)
	ps := make(map[aggregate.Key]bool)
	for _, e := range entries {
		if e.ClientID != nil {
			cs[aggregate.Key{ID: *e.ClientID}] = true
		} else {
			cs[aggregate.Key{Missing: true}] = true
		}
		ms[e.MemberID] = true
		if e.ProjectID != nil {
			ps[aggregate.Key{ID: *e.ProjectID}] = true
		} else {
			ps[aggregate.Key{Missing: true}] = true
		}
	}
	return len(cs), len(ms), len(ps)
}

func sortNodes(nodes []domain.ReportNode, key domain.SortKey, order domain.SortOrder) error {
	if key == "" {
		key = domain.SortByTotalHours
	}
	if order == "" {
		order = domain.SortDesc
	}
	if order != domain.SortAsc && order != domain.SortDesc {
		return fmt.Errorf("%w: unknown sort order %q", domain.ErrInvalidFilter, order)
	}

	var less func(a, b domain.ReportNode) bool
	switch key {
	case domain.SortByName:
		less = func(a, b domain.ReportNode) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case domain.SortByTotalHours:
		less = func(a, b domain.ReportNode) bool { return a.Totals.TotalSeconds < b.Totals.TotalSeconds }
	case domain.SortByBillableHours:
		less = func(a, b domain.ReportNode) bool { return a.Totals.BillableSeconds < b.Totals.BillableSeconds }
	case domain.SortByEarningsUSD:
		less = func(a, b domain.ReportNode) bool { return a.Totals.EarningsUSD < b.Totals.EarningsUSD }
	case domain.SortByEarningsEUR:
		less = func(a, b domain.ReportNode) bool { return a.Totals.EarningsEUR < b.Totals.EarningsEUR }
	default:
		return fmt.Errorf("%w: unknown sort key %q", domain.ErrInvalidFilter, key)
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if order == domain.SortDesc {
			a, b = b, a
		}
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		// Ties resolve by name so output stays deterministic.
		return strings.ToLower(nodes[i].Name) < strings.ToLower(nodes[j].Name)
	})
	return nil
}

func sortEntries(entries []domain.TimeEntry, key domain.EntrySortKey, order domain.SortOrder) error {
	if key == "" {
		key = domain.EntrySortByStart
	}
	if order == "" {
		order = domain.SortDesc
	}
	if order != domain.SortAsc && order != domain.SortDesc {
		return fmt.Errorf("%w: unknown sort order %q", domain.ErrInvalidFilter, order)
	}

	var less func(a, b domain.TimeEntry) bool
	switch key {
	case domain.EntrySortByStart:
		less = func(a, b domain.TimeEntry) bool { return a.Start.Before(b.Start) }
	case domain.EntrySortByDuration:
		less = func(a, b domain.TimeEntry) bool { return a.Duration < b.Duration }
	case domain.EntrySortByDescription:
		less = func(a, b domain.TimeEntry) bool { return a.Description < b.Description }
	case domain.EntrySortByMemberName:
		less = func(a, b domain.TimeEntry) bool { return a.MemberName < b.MemberName }
	case domain.EntrySortByProjectName:
		less = func(a, b domain.TimeEntry) bool { return a.ProjectName < b.ProjectName }
	case domain.EntrySortByClientName:
		less = func(a, b domain.TimeEntry) bool { return a.ClientName < b.ClientName }
	default:
		return fmt.Errorf("%w: unknown entry sort key %q", domain.ErrInvalidFilter, key)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if order == domain.SortDesc {
			a, b = b, a
		}
		return less(a, b)
	})
	return nil
}

func idOf(k aggregate.Key) *int64 {
	if k.Missing {
		return nil
	}
	id := k.ID
	return &id
}
