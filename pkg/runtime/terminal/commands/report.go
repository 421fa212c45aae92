package commands

import (
	"context"
	"time"

	"github.com/de-tools/time-atlas/pkg/models/domain"
	"github.com/spf13/cobra"
)

// WorkspaceReporter is what the report command needs from the engine.
type WorkspaceReporter interface {
	BuildWorkspaceReport(ctx context.Context, req domain.ReportRequest) (*domain.WorkspaceReport, error)
}

// ReportSink consumes a built report for rendering.
type ReportSink interface {
	Handle(report *domain.WorkspaceReport) error
}

func NewReportCmd(reports WorkspaceReporter, sink ReportSink) *cobra.Command {
	var (
		workspaceID int64
		period      string
		startDate   string
		endDate     string
		billable    bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build a workspace report for a period",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := domain.ReportRequest{
				WorkspaceID:        workspaceID,
				Period:             domain.Period(period),
				IncludeNonBillable: !billable,
			}

			if startDate != "" {
				start, err := time.Parse(time.DateOnly, startDate)
				if err != nil {
					return err
				}
				req.StartDate = start
			}
			if endDate != "" {
				end, err := time.Parse(time.DateOnly, endDate)
				if err != nil {
					return err
				}
				req.EndDate = end
			}

			report, err := reports.BuildWorkspaceReport(cmd.Context(), req)
			if err != nil {
				return err
			}
			return sink.Handle(report)
		},
	}

	cmd.Flags().Int64Var(&workspaceID, "workspace", 0, "workspace id")
	cmd.Flags().StringVar(&period, "period", string(domain.PeriodLast30Days), "reporting period")
	cmd.Flags().StringVar(&startDate, "start", "", "custom period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", "", "custom period end (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&billable, "billable-only", false, "exclude non-billable entries")
	_ = cmd.MarkFlagRequired("workspace")

	return cmd
}
