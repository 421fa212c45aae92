package rates

import (
	"fmt"
	"sort"
	"time"

	"github.com/de-tools/time-atlas/pkg/models/domain"
)

// scope keys one rate history: a member's default rates or their rates for
// a specific client. The two scopes are indexed separately because the
// client dimension changes precedence, not just the key.
type scope struct {
	memberID  int64
	clientID  int64
	hasClient bool
}

// Ledger answers "what hourly rate applied to member M for client C on date
// D". Histories are sorted by effective date at construction so lookups are
// a binary search.
type Ledger struct {
	index map[scope][]domain.RateRecord
}

// NewLedger indexes the given rate history. Two records sharing the same
// (member, client, effective date) tuple are rejected.
func NewLedger(records []domain.RateRecord) (*Ledger, error) {
	index := make(map[scope][]domain.RateRecord)
	for _, rec := range records {
		rec.EffectiveDate = toDate(rec.EffectiveDate)
		index[scopeOf(rec)] = append(index[scopeOf(rec)], rec)
	}

	for sc, history := range index {
		sort.Slice(history, func(i, j int) bool {
			return history[i].EffectiveDate.Before(history[j].EffectiveDate)
		})
		for i := 1; i < len(history); i++ {
			if history[i].EffectiveDate.Equal(history[i-1].EffectiveDate) {
				return nil, fmt.Errorf("duplicate rate for member %d on %s",
					sc.memberID, history[i].EffectiveDate.Format(time.DateOnly))
			}
		}
		index[sc] = history
	}

	return &Ledger{index: index}, nil
}

// Resolve returns the rate in effect for the member on workDate. A
// client-specific record effective on or before the work date always beats
// a default record, regardless of which is more recent; within a scope the
// latest record not after the work date wins. The second return is false
// when no record applies in either scope.
func (l *Ledger) Resolve(memberID int64, clientID *int64, workDate time.Time) (domain.Rate, bool) {
	workDate = toDate(workDate)

	if clientID != nil {
		if rec, ok := l.latest(scope{memberID: memberID, clientID: *clientID, hasClient: true}, workDate); ok {
			return domain.Rate{USD: rec.HourlyRateUSD, EUR: rec.HourlyRateEUR}, true
		}
	}
	if rec, ok := l.latest(scope{memberID: memberID}, workDate); ok {
		return domain.Rate{USD: rec.HourlyRateUSD, EUR: rec.HourlyRateEUR}, true
	}
	return domain.Rate{}, false
}

func (l *Ledger) latest(sc scope, workDate time.Time) (domain.RateRecord, bool) {
	history := l.index[sc]
	// First record strictly after workDate; the one before it applies.
	i := sort.Search(len(history), func(i int) bool {
		return history[i].EffectiveDate.After(workDate)
	})
	if i == 0 {
		return domain.RateRecord{}, false
	}
	return history[i-1], true
}

func scopeOf(rec domain.RateRecord) scope {
	if rec.ClientID != nil {
		return scope{memberID: rec.MemberID, clientID: *rec.ClientID, hasClient: true}
	}
	return scope{memberID: rec.MemberID}
}

func toDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
