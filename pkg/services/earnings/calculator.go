package earnings

import (
	"math"

	"github.com/de-tools/time-atlas/pkg/models/domain"
	"github.com/de-tools/time-atlas/pkg/services/rates"
)

// Policy decides which entries count as billable. The product never settled
// on one interpretation, so it stays configurable.
type Policy string

const (
	// PolicyRespectFlag treats only flagged entries as billable.
	PolicyRespectFlag Policy = "respect_flag"
	// PolicyAllBillable treats every tracked entry as billable.
	PolicyAllBillable Policy = "all_billable"
)

// Amounts are summed per-entry earnings in both currencies.
type Amounts struct {
	USD         float64
	EUR         float64
	BillableUSD float64
	BillableEUR float64
}

func (a *Amounts) add(o Amounts) {
	a.USD += o.USD
	a.EUR += o.EUR
	a.BillableUSD += o.BillableUSD
	a.BillableEUR += o.BillableEUR
}

// Calculator turns durations into money using the rate in effect on each
// entry's work date. Earnings are always computed per entry before any
// summation: a group spanning a rate change must reflect the blended rate,
// never the latest one.
type Calculator struct {
	ledger *rates.Ledger
	policy Policy
}

func NewCalculator(ledger *rates.Ledger, policy Policy) *Calculator {
	if policy == "" {
		policy = PolicyRespectFlag
	}
	return &Calculator{ledger: ledger, policy: policy}
}

// ForEntry prices a single entry. Entries without an applicable rate earn
// zero; that is data absence, not an error.
func (c *Calculator) ForEntry(e domain.TimeEntry) Amounts {
	rate, ok := c.ledger.Resolve(e.MemberID, e.ClientID, e.WorkDate())
	if !ok {
		return Amounts{}
	}

	hours := float64(e.Duration) / 3600
	var a Amounts
	if rate.USD != nil {
		a.USD = RoundMoney(hours * *rate.USD)
	}
	if rate.EUR != nil {
		a.EUR = RoundMoney(hours * *rate.EUR)
	}
	if c.Billable(e) {
		a.BillableUSD = a.USD
		a.BillableEUR = a.EUR
	}
	return a
}

// ForEntries sums per-entry earnings. Because each entry's contribution is
// rounded once and then only added, the sum is exactly additive across any
// partition of the entries.
func (c *Calculator) ForEntries(entries []domain.TimeEntry) Amounts {
	var total Amounts
	for _, e := range entries {
		a := c.ForEntry(e)
		total.add(a)
	}
	return total
}

// Billable applies the configured policy to one entry.
func (c *Calculator) Billable(e domain.TimeEntry) bool {
	return c.policy == PolicyAllBillable || e.Billable
}

// DisplayRate exposes the underlying ledger lookup for presentational
// rates on member nodes.
func (c *Calculator) DisplayRate(memberID int64, clientID *int64, at domain.DateRange) (domain.Rate, bool) {
	return c.ledger.Resolve(memberID, clientID, at.End)
}

// RoundMoney rounds to 2 decimal places, half to even, so rounding bias
// cannot accumulate across thousands of entries.
func RoundMoney(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
