package aggregate

import (
	"fmt"

	"github.com/de-tools/time-atlas/pkg/models/domain"
)

// Level is one grouping dimension of a report.
type Level string

const (
	LevelClient  Level = "client"
	LevelProject Level = "project"
	LevelMember  Level = "member"
)

// Filters narrow the entry set before grouping. Empty allow-lists mean
// "no restriction".
type Filters struct {
	ClientIDs    []int64
	MemberIDs    []int64
	Client       *domain.Scope
	Project      *domain.Scope
	MemberID     int64
	BillableOnly bool
}

// Key identifies a group. Missing marks the "no client" / "no project"
// bucket, which never collides with a real id.
type Key struct {
	ID      int64
	Missing bool
}

// Bucket is one group of entries with its duration sums. Leaf buckets
// retain their entries so earnings can be computed per entry afterwards.
type Bucket struct {
	Key  Key
	Name string

	TotalSeconds    int64
	BillableSeconds int64
	EntryCount      int

	Entries  []domain.TimeEntry
	Children map[Key]*Bucket
}

// Result is a nested grouping of the filtered entries. Skipped counts
// entries dropped for non-positive duration; they never reach totals.
type Result struct {
	Buckets map[Key]*Bucket
	Skipped int
}

// Apply returns the entries passing f, and the number dropped for having a
// non-positive duration (still-running timers).
func Apply(entries []domain.TimeEntry, f Filters) ([]domain.TimeEntry, int) {
	clients := toSet(f.ClientIDs)
	members := toSet(f.MemberIDs)

	kept := make([]domain.TimeEntry, 0, len(entries))
	skipped := 0
	for _, e := range entries {
		if e.Duration <= 0 {
			skipped++
			continue
		}
		if len(clients) > 0 && (e.ClientID == nil || !clients[*e.ClientID]) {
			continue
		}
		if len(members) > 0 && !members[e.MemberID] {
			continue
		}
		if f.Client != nil && !scopeMatches(f.Client, e.ClientID) {
			continue
		}
		if f.Project != nil && !scopeMatches(f.Project, e.ProjectID) {
			continue
		}
		if f.MemberID != 0 && e.MemberID != f.MemberID {
			continue
		}
		if f.BillableOnly && !e.Billable {
			continue
		}
		kept = append(kept, e)
	}
	return kept, skipped
}

// Aggregate filters entries and groups them along the given levels,
// producing a nested mapping rather than a flat cross-product.
func Aggregate(entries []domain.TimeEntry, levels []Level, f Filters) (*Result, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: no grouping levels given", domain.ErrUnknownGroupingLevel)
	}
	for _, lvl := range levels {
		switch lvl {
		case LevelClient, LevelProject, LevelMember:
		default:
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownGroupingLevel, lvl)
		}
	}

	kept, skipped := Apply(entries, f)
	result := &Result{Buckets: make(map[Key]*Bucket), Skipped: skipped}

	for _, e := range kept {
		buckets := result.Buckets
		for depth, lvl := range levels {
			key, name := keyFor(lvl, e)
			b, ok := buckets[key]
			if !ok {
				b = &Bucket{Key: key, Name: name}
				buckets[key] = b
			}
			b.TotalSeconds += e.Duration
			if e.Billable {
				b.BillableSeconds += e.Duration
			}
			b.EntryCount++

			if depth == len(levels)-1 {
				b.Entries = append(b.Entries, e)
			} else {
				if b.Children == nil {
					b.Children = make(map[Key]*Bucket)
				}
				buckets = b.Children
			}
		}
	}

	return result, nil
}

func keyFor(lvl Level, e domain.TimeEntry) (Key, string) {
	switch lvl {
	case LevelClient:
		if e.ClientID == nil {
			return Key{Missing: true}, "No Client"
		}
		return Key{ID: *e.ClientID}, displayName(e.ClientName, "Client", *e.ClientID)
	case LevelProject:
		if e.ProjectID == nil {
			return Key{Missing: true}, "No Project"
		}
		return Key{ID: *e.ProjectID}, displayName(e.ProjectName, "Project", *e.ProjectID)
	default: // LevelMember, validated upfront
		return Key{ID: e.MemberID}, displayName(e.MemberName, "Member", e.MemberID)
	}
}

func displayName(name, kind string, id int64) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%s %d", kind, id)
}

func scopeMatches(s *domain.Scope, entityID *int64) bool {
	if s.ID == nil {
		return entityID == nil
	}
	return entityID != nil && *entityID == *s.ID
}

func toSet(ids []int64) map[int64]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
