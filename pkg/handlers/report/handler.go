package report

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/time-atlas/pkg/adapters"
	"github.com/de-tools/time-atlas/pkg/models/api"
	"github.com/de-tools/time-atlas/pkg/models/domain"
	"github.com/de-tools/time-atlas/pkg/services/report"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const defaultDrillDownLimit = 100

// scopeNone in a URL selects the "no client" / "no project" bucket.
const scopeNone = "none"

type Service interface {
	BuildWorkspaceReport(ctx context.Context, req domain.ReportRequest) (*domain.WorkspaceReport, error)
	BuildClientReport(ctx context.Context, req domain.ReportRequest) (*domain.ClientReport, error)
	BuildMemberReport(ctx context.Context, req domain.ReportRequest) (*domain.MemberReport, error)
	BuildDrillDown(ctx context.Context, req domain.ReportRequest) (*domain.DrillDownPage, error)
	InvalidateWorkspace(workspaceID int64) int
	InvalidateClient(clientID int64) int
	InvalidateMember(memberID int64) int
	PurgeCache()
}

var _ Service = (*report.Service)(nil)

type Handler struct {
	reports Service
}

func NewHandler(reports Service) *Handler {
	return &Handler{reports: reports}
}

func (h *Handler) GetWorkspaceReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := parseRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rep, err := h.reports.BuildWorkspaceReport(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, adapters.MapWorkspaceReportDomainToApi(rep))
}

func (h *Handler) GetClientReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := parseRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	client, err := parseScope(chi.URLParam(r, "client"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	req.Client = client

	rep, err := h.reports.BuildClientReport(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, adapters.MapClientReportDomainToApi(rep))
}

func (h *Handler) GetMemberReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := parseRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	memberID, err := parseID(chi.URLParam(r, "member"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	req.MemberID = memberID

	rep, err := h.reports.BuildMemberReport(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, adapters.MapMemberReportDomainToApi(rep))
}

func (h *Handler) GetDrillDown(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := parseRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if req.Limit == 0 {
		req.Limit = defaultDrillDownLimit
	}

	page, err := h.reports.BuildDrillDown(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, adapters.MapDrillDownPageDomainToApi(page))
}

func (h *Handler) InvalidateWorkspace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	workspaceID, err := parseID(chi.URLParam(r, "workspace"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	removed := h.reports.InvalidateWorkspace(workspaceID)
	writeJSON(ctx, w, api.InvalidationResult{Removed: removed})
}

func (h *Handler) InvalidateClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientID, err := parseID(chi.URLParam(r, "client"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	removed := h.reports.InvalidateClient(clientID)
	writeJSON(ctx, w, api.InvalidationResult{Removed: removed})
}

func (h *Handler) InvalidateMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	memberID, err := parseID(chi.URLParam(r, "member"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	removed := h.reports.InvalidateMember(memberID)
	writeJSON(ctx, w, api.InvalidationResult{Removed: removed})
}

func (h *Handler) PurgeCache(w http.ResponseWriter, r *http.Request) {
	h.reports.PurgeCache()
	w.WriteHeader(http.StatusNoContent)
}

// parseRequest reads the shared report parameters out of the URL. It never
// validates semantics; the engine owns validation.
func parseRequest(r *http.Request) (domain.ReportRequest, error) {
	q := r.URL.Query()

	workspaceID, err := parseID(chi.URLParam(r, "workspace"))
	if err != nil {
		return domain.ReportRequest{}, err
	}

	req := domain.ReportRequest{
		WorkspaceID: workspaceID,
		Period:      domain.Period(q.Get("period")),
		SortBy:      domain.SortKey(q.Get("sort_by")),
		SortOrder:   domain.SortOrder(q.Get("sort_order")),
		EntrySortBy: domain.EntrySortKey(q.Get("entry_sort_by")),
	}

	if req.StartDate, err = parseDate(q.Get("start_date")); err != nil {
		return domain.ReportRequest{}, err
	}
	if req.EndDate, err = parseDate(q.Get("end_date")); err != nil {
		return domain.ReportRequest{}, err
	}
	if req.ClientIDs, err = parseIDList(q.Get("client_ids")); err != nil {
		return domain.ReportRequest{}, err
	}
	if req.MemberIDs, err = parseIDList(q.Get("member_ids")); err != nil {
		return domain.ReportRequest{}, err
	}

	req.IncludeNonBillable = q.Get("include_nonbillable") != "false"
	req.ProjectBreakdown = q.Get("project_breakdown") == "true"

	if v := q.Get("limit"); v != "" {
		if req.Limit, err = strconv.Atoi(v); err != nil {
			return domain.ReportRequest{}, badParam("limit", v)
		}
	}
	if v := q.Get("offset"); v != "" {
		if req.Offset, err = strconv.Atoi(v); err != nil {
			return domain.ReportRequest{}, badParam("offset", v)
		}
	}
	if v := q.Get("project_id"); v != "" {
		if req.Project, err = parseScope(v); err != nil {
			return domain.ReportRequest{}, err
		}
	}

	return req, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, badParam("id", raw)
	}
	return id, nil
}

func parseScope(raw string) (*domain.Scope, error) {
	if raw == scopeNone {
		return &domain.Scope{}, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, badParam("scope", raw)
	}
	return &domain.Scope{ID: &id}, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, badParam("date", raw)
	}
	return t, nil
}

func parseIDList(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, badParam("id list", raw)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func badParam(name, value string) error {
	return &paramError{name: name, value: value}
}

type paramError struct {
	name  string
	value string
}

func (e *paramError) Error() string {
	return "invalid " + e.name + " " + strconv.Quote(e.value)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, payload any) {
	logger := zerolog.Ctx(ctx)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode response")
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := zerolog.Ctx(ctx)

	status := http.StatusInternalServerError
	var pe *paramError
	switch {
	case errors.As(err, &pe),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrInvalidFilter),
		errors.Is(err, domain.ErrUnknownGroupingLevel):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("report build failed")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(map[string]string{"error": err.Error()}); encErr != nil {
		logger.Error().
			Err(encErr).
			Msg("failed to encode error response")
	}
}
