package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/time-atlas/pkg/models/api"
	"github.com/de-tools/time-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReportService struct {
	mock.Mock
}

func (m *mockReportService) BuildWorkspaceReport(
	ctx context.Context,
	req domain.ReportRequest,
) (*domain.WorkspaceReport, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkspaceReport), args.Error(1)
}

func (m *mockReportService) BuildClientReport(
	ctx context.Context,
	req domain.ReportRequest,
) (*domain.ClientReport, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClientReport), args.Error(1)
}

func (m *mockReportService) BuildMemberReport(
	ctx context.Context,
	req domain.ReportRequest,
) (*domain.MemberReport, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MemberReport), args.Error(1)
}

func (m *mockReportService) BuildDrillDown(
	ctx context.Context,
	req domain.ReportRequest,
) (*domain.DrillDownPage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DrillDownPage), args.Error(1)
}

func (m *mockReportService) InvalidateWorkspace(workspaceID int64) int {
	return m.Called(workspaceID).Int(0)
}

func (m *mockReportService) InvalidateClient(clientID int64) int {
	return m.Called(clientID).Int(0)
}

func (m *mockReportService) InvalidateMember(memberID int64) int {
	return m.Called(memberID).Int(0)
}

func (m *mockReportService) PurgeCache() {
	m.Called()
}

func TestWebAPI_Endpoints(t *testing.T) {
	logger := zerolog.Nop()

	mockSvc := new(mockReportService)

	config := Config{
		Addr:            ":8080",
		ShutdownTimeout: 10 * time.Second,
		Dependencies: Dependencies{
			Reports: mockSvc,
			Logger:  logger,
		},
	}
	router := ConfigureRouter(config)
	testServer := httptest.NewServer(router)
	defer testServer.Close()

	rng := domain.DateRange{
		Start:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:         time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Description: "January 2024",
	}

	tests := []struct {
		name           string
		method         string
		path           string
		setupMocks     func()
		expectedStatus int
		expected       interface{}
		parseResponse  func([]byte) (interface{}, error)
	}{
		{
			name:   "GetWorkspaceReport",
			method: http.MethodGet,
			path:   "/api/v1/workspaces/1/report?period=custom&start_date=2024-01-01&end_date=2024-01-31",
			setupMocks: func() {
				mockSvc.On("BuildWorkspaceReport", mock.Anything, mock.MatchedBy(func(req domain.ReportRequest) bool {
					return req.WorkspaceID == 1 &&
						req.Period == domain.PeriodCustom &&
						req.StartDate.Equal(rng.Start) &&
						req.EndDate.Equal(rng.End)
				})).Return(&domain.WorkspaceReport{
					WorkspaceID: 1,
					Range:       rng,
					Totals:      domain.ReportTotals{TotalSeconds: 36000, BillableSeconds: 36000, EntryCount: 1, EarningsUSD: 500},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expected: api.WorkspaceReport{
				WorkspaceId: 1,
				Range:       api.DateRange{Start: "2024-01-01", End: "2024-01-31", Description: "January 2024", Days: 31},
				Totals: api.ReportTotals{
					TotalHours:         10,
					BillableHours:      10,
					BillablePercentage: 100,
					EntryCount:         1,
					EarningsUSD:        500,
					AverageRateUSD:     50,
				},
				Clients: []api.ReportNode{},
			},
			parseResponse: unmarshalResponse[api.WorkspaceReport](),
		},
		{
			name:   "GetClientReport_SentinelScope",
			method: http.MethodGet,
			path:   "/api/v1/workspaces/1/clients/none/report",
			setupMocks: func() {
				mockSvc.On("BuildClientReport", mock.Anything, mock.MatchedBy(func(req domain.ReportRequest) bool {
					return req.Client != nil && req.Client.ID == nil
				})).Return(&domain.ClientReport{
					WorkspaceID: 1,
					ClientName:  "No Client",
					Range:       rng,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expected: api.ClientReport{
				WorkspaceId: 1,
				ClientName:  "No Client",
				Range:       api.DateRange{Start: "2024-01-01", End: "2024-01-31", Description: "January 2024", Days: 31},
				Groups:      []api.ReportNode{},
			},
			parseResponse: unmarshalResponse[api.ClientReport](),
		},
		{
			name:   "GetMemberReport_InvalidRange",
			method: http.MethodGet,
			path:   "/api/v1/workspaces/1/members/3/report?period=custom&start_date=2024-02-01&end_date=2024-01-01",
			setupMocks: func() {
				mockSvc.On("BuildMemberReport", mock.Anything, mock.MatchedBy(func(req domain.ReportRequest) bool {
					return req.MemberID == 3
				})).Return(nil, domain.ErrInvalidDateRange)
			},
			expectedStatus: http.StatusBadRequest,
			expected:       map[string]interface{}{"error": domain.ErrInvalidDateRange.Error()},
			parseResponse:  unmarshalResponse[map[string]interface{}](),
		},
		{
			name:           "GetWorkspaceReport_BadWorkspaceID",
			method:         http.MethodGet,
			path:           "/api/v1/workspaces/not-a-number/report",
			setupMocks:     func() {},
			expectedStatus: http.StatusBadRequest,
			expected:       map[string]interface{}{"error": `invalid id "not-a-number"`},
			parseResponse:  unmarshalResponse[map[string]interface{}](),
		},
		{
			name:   "GetDrillDown_DefaultLimit",
			method: http.MethodGet,
			path:   "/api/v1/workspaces/1/entries",
			setupMocks: func() {
				mockSvc.On("BuildDrillDown", mock.Anything, mock.MatchedBy(func(req domain.ReportRequest) bool {
					return req.Limit == 100 && req.Offset == 0
				})).Return(&domain.DrillDownPage{
					WorkspaceID: 1,
					Range:       rng,
					Pagination:  domain.Pagination{Limit: 100, TotalEntries: 0, TotalPages: 0, CurrentPage: 1},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expected: api.DrillDownPage{
				WorkspaceId: 1,
				Range:       api.DateRange{Start: "2024-01-01", End: "2024-01-31", Description: "January 2024", Days: 31},
				Entries:     []api.TimeEntry{},
				Pagination:  api.Pagination{Limit: 100, CurrentPage: 1},
			},
			parseResponse: unmarshalResponse[api.DrillDownPage](),
		},
		{
			name:   "InvalidateWorkspaceCache",
			method: http.MethodPost,
			path:   "/api/v1/workspaces/5/cache/invalidate",
			setupMocks: func() {
				mockSvc.On("InvalidateWorkspace", int64(5)).Return(3)
			},
			expectedStatus: http.StatusOK,
			expected:       api.InvalidationResult{Removed: 3},
			parseResponse:  unmarshalResponse[api.InvalidationResult](),
		},
		{
			name:   "InvalidateClientCache",
			method: http.MethodPost,
			path:   "/api/v1/cache/clients/7/invalidate",
			setupMocks: func() {
				mockSvc.On("InvalidateClient", int64(7)).Return(2)
			},
			expectedStatus: http.StatusOK,
			expected:       api.InvalidationResult{Removed: 2},
			parseResponse:  unmarshalResponse[api.InvalidationResult](),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMocks()

			req, err := http.NewRequest(tc.method, testServer.URL+tc.path, nil)
			require.NoError(t, err, "Failed to build request")

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err, "Failed to send request")
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "Status code mismatch")

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err, "Failed to read response body")

			actual, err := tc.parseResponse(body)
			require.NoError(t, err, "Failed to parse response")

			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestWebAPI_PurgeCache(t *testing.T) {
	logger := zerolog.Nop()

	mockSvc := new(mockReportService)
	mockSvc.On("PurgeCache").Return()

	router := ConfigureRouter(Config{
		Dependencies: Dependencies{Reports: mockSvc, Logger: logger},
	})
	testServer := httptest.NewServer(router)
	defer testServer.Close()

	req, err := http.NewRequest(http.MethodDelete, testServer.URL+"/api/v1/cache", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	mockSvc.AssertCalled(t, "PurgeCache")
}

func unmarshalResponse[T any]() func([]byte) (interface{}, error) {
	return func(data []byte) (interface{}, error) {
		var response T
		err := json.Unmarshal(data, &response)
		return response, err
	}
}
