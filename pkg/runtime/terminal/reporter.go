package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/time-atlas/pkg/models/domain"
)

// Reporter outputs reports to the console in a formatted text form
type Reporter struct {
	writer io.Writer
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (c *Reporter) Handle(report *domain.WorkspaceReport) error {
	tmpl := `
Workspace {{.WorkspaceID}}: {{.Range.Description}}
Period: {{.Range.Start.Format "2006-01-02"}} to {{.Range.End.Format "2006-01-02"}} ({{.Range.Days}} days)
Total: {{printf "%.2f" .Totals.TotalHours}}h tracked, {{printf "%.2f" .Totals.BillableHours}}h billable ({{printf "%.1f" .Totals.BillablePercentage}}%)
Earnings: {{printf "%.2f" .Totals.EarningsUSD}} USD / {{printf "%.2f" .Totals.EarningsEUR}} EUR
Clients: {{.Summary.ActiveClients}} of {{.Summary.TotalClients}} active, {{.Summary.ActiveMembers}} of {{.Summary.TotalMembers}} members
{{range .Clients}}
=== {{.Name}} ({{.ProjectCount}} projects) ===
Hours: {{printf "%.2f" .Totals.TotalHours}} | Earnings: {{printf "%.2f" .Totals.EarningsUSD}} USD
{{range .Children}}
- {{.Name}}: {{printf "%.2f" .Totals.TotalHours}}h, {{printf "%.2f" .Totals.EarningsUSD}} USD{{if .HourlyRateUSD}} @ {{printf "%.2f" (deref .HourlyRateUSD)}}/h{{end}}
{{end}}
{{end}}
`
	t, err := template.New("report").Funcs(template.FuncMap{
		"deref": func(v *float64) float64 {
			if v == nil {
				return 0
			}
			return *v
		},
	}).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}
