package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/de-tools/time-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Cache memoizes built reports. Implementations must be safe for
// concurrent use; concurrent misses on the same key may each compute.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	InvalidateMatching(pattern string) int
	Purge()
}

// Service is the cached report facade exposed to collaborators. It never
// invalidates on its own; sync and rate mutations trigger the Invalidate*
// hooks from outside.
type Service struct {
	builder *Builder
	cache   Cache
}

func NewService(builder *Builder, cache Cache) *Service {
	return &Service{builder: builder, cache: cache}
}

func (s *Service) BuildWorkspaceReport(ctx context.Context, req domain.ReportRequest) (*domain.WorkspaceReport, error) {
	key, err := s.fingerprint("workspace", req)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s.cache, key, func() (*domain.WorkspaceReport, error) {
		return s.builder.BuildWorkspaceReport(ctx, req)
	})
}

func (s *Service) BuildClientReport(ctx context.Context, req domain.ReportRequest) (*domain.ClientReport, error) {
	key, err := s.fingerprint("client_detail", req)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s.cache, key, func() (*domain.ClientReport, error) {
		return s.builder.BuildClientReport(ctx, req)
	})
}

func (s *Service) BuildMemberReport(ctx context.Context, req domain.ReportRequest) (*domain.MemberReport, error) {
	key, err := s.fingerprint("member_detail", req)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s.cache, key, func() (*domain.MemberReport, error) {
		return s.builder.BuildMemberReport(ctx, req)
	})
}

func (s *Service) BuildDrillDown(ctx context.Context, req domain.ReportRequest) (*domain.DrillDownPage, error) {
	key, err := s.fingerprint("drilldown", req)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s.cache, key, func() (*domain.DrillDownPage, error) {
		return s.builder.BuildDrillDown(ctx, req)
	})
}

// InvalidateWorkspace purges every cached report for the workspace.
func (s *Service) InvalidateWorkspace(workspaceID int64) int {
	if s.cache == nil {
		return 0
	}
	return s.cache.InvalidateMatching(fmt.Sprintf("workspace:%d|", workspaceID))
}

// InvalidateClient purges cached reports scoped to or filtered by the client.
func (s *Service) InvalidateClient(clientID int64) int {
	if s.cache == nil {
		return 0
	}
	return s.cache.InvalidateMatching(fmt.Sprintf("client:%d|", clientID))
}

// InvalidateMember purges cached reports scoped to or filtered by the member.
func (s *Service) InvalidateMember(memberID int64) int {
	if s.cache == nil {
		return 0
	}
	return s.cache.InvalidateMatching(fmt.Sprintf("member:%d|", memberID))
}

// PurgeCache drops every cached report.
func (s *Service) PurgeCache() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

// fingerprint derives the cache key from every request parameter. Resolved
// dates are part of the key so "last_30_days" asked on different days never
// shares an entry; id tokens are delimiter-terminated so substring
// invalidation by workspace, client or member is exact.
func (s *Service) fingerprint(kind string, req domain.ReportRequest) (string, error) {
	rng, err := s.builder.ResolveRange(req)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "report:%s|workspace:%d|", kind, req.WorkspaceID)
	fmt.Fprintf(&b, "range:%s..%s|", rng.Start.Format(time.DateOnly), rng.End.Format(time.DateOnly))

	for _, id := range sortedIDs(req.ClientIDs) {
		fmt.Fprintf(&b, "client:%d|", id)
	}
	for _, id := range sortedIDs(req.MemberIDs) {
		fmt.Fprintf(&b, "member:%d|", id)
	}
	if req.Client != nil {
		if req.Client.ID != nil {
			fmt.Fprintf(&b, "client:%d|", *req.Client.ID)
		} else {
			b.WriteString("client:none|")
		}
	}
	if req.Project != nil {
		if req.Project.ID != nil {
			fmt.Fprintf(&b, "project:%d|", *req.Project.ID)
		} else {
			b.WriteString("project:none|")
		}
	}
	if req.MemberID != 0 {
		fmt.Fprintf(&b, "member:%d|", req.MemberID)
	}

	fmt.Fprintf(&b, "nonbillable:%t|breakdown:%t|", req.IncludeNonBillable, req.ProjectBreakdown)
	fmt.Fprintf(&b, "sort:%s:%s:%s|", req.SortBy, req.EntrySortBy, req.SortOrder)
	fmt.Fprintf(&b, "page:%d:%d", req.Offset, req.Limit)
	return b.String(), nil
}

func sortedIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	out := append([]int64(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// cached looks key up before computing, and stores the result after. No
// lock is held across compute: two concurrent misses both build, which is
// accepted for this workload.
func cached[T any](ctx context.Context, c Cache, key string, compute func() (T, error)) (T, error) {
	logger := zerolog.Ctx(ctx)

	if c != nil {
		if v, ok := c.Get(key); ok {
			if result, ok := v.(T); ok {
				logger.Debug().Str("key", key).Msg("report cache hit")
				return result, nil
			}
		}
	}

	result, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}
	if c != nil {
		logger.Debug().Str("key", key).Msg("report cache store")
		c.Set(key, result)
	}
	return result, nil
}
