package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/time-atlas/pkg/adapters"
	"github.com/de-tools/time-atlas/pkg/models/domain"
	"github.com/de-tools/time-atlas/pkg/store/sqlite/entries"
	"github.com/de-tools/time-atlas/pkg/store/sqlite/rates"
)

// Provider reads the synced snapshot out of SQLite in domain shape. It is
// the data source behind report builds.
type Provider struct {
	entries entries.Store
	rates   rates.Store
}

func NewProvider(entryStore entries.Store, rateStore rates.Store) (*Provider, error) {
	if entryStore == nil || rateStore == nil {
		return nil, fmt.Errorf("snapshot provider requires both stores")
	}
	return &Provider{entries: entryStore, rates: rateStore}, nil
}

func (p *Provider) EntriesForWorkspace(
	ctx context.Context,
	workspaceID int64,
	start, end time.Time,
) ([]domain.TimeEntry, error) {
	records, err := p.entries.GetWindow(ctx, workspaceID, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TimeEntry, 0, len(records))
	for _, r := range records {
		out = append(out, adapters.MapStoreEntryToDomain(r))
	}
	return out, nil
}

func (p *Provider) RatesForWorkspace(ctx context.Context, workspaceID int64) ([]domain.RateRecord, error) {
	records, err := p.rates.GetHistory(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RateRecord, 0, len(records))
	for _, r := range records {
		out = append(out, adapters.MapStoreRateToDomain(r))
	}
	return out, nil
}
