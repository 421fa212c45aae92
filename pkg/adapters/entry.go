package adapters

import (
	"slices"

	"github.com/de-tools/time-atlas/pkg/models/domain"
	"github.com/de-tools/time-atlas/pkg/models/store"
)

func MapStoreEntryToDomain(record store.TimeEntryRecord) domain.TimeEntry {
	return domain.TimeEntry{
		ID:          record.ID,
		WorkspaceID: record.WorkspaceID,
		MemberID:    record.MemberID,
		MemberName:  record.MemberName,
		ProjectID:   record.ProjectID,
		ProjectName: record.ProjectName,
		ClientID:    record.ClientID,
		ClientName:  record.ClientName,
		Description: record.Description,
		Start:       record.StartTime,
		Stop:        record.StopTime,
		Duration:    record.Seconds,
		Billable:    record.Billable,
		Tags:        slices.Clone(record.Tags),
	}
}

func MapDomainEntryToStore(entry domain.TimeEntry) store.TimeEntryRecord {
	return store.TimeEntryRecord{
		ID:          entry.ID,
		WorkspaceID: entry.WorkspaceID,
		MemberID:    entry.MemberID,
		MemberName:  entry.MemberName,
		ProjectID:   entry.ProjectID,
		ProjectName: entry.ProjectName,
		ClientID:    entry.ClientID,
		ClientName:  entry.ClientName,
		Description: entry.Description,
		StartTime:   entry.Start,
		StopTime:    entry.Stop,
		Seconds:     entry.Duration,
		Billable:    entry.Billable,
		Tags:        slices.Clone(entry.Tags),
	}
}

func MapStoreRateToDomain(record store.RateRecord) domain.RateRecord {
	return domain.RateRecord{
		MemberID:      record.MemberID,
		ClientID:      record.ClientID,
		HourlyRateUSD: record.HourlyRateUSD,
		HourlyRateEUR: record.HourlyRateEUR,
		EffectiveDate: record.EffectiveDate,
		CreatedAt:     record.CreatedAt,
	}
}

func MapDomainRateToStore(workspaceID int64, rate domain.RateRecord) store.RateRecord {
	return store.RateRecord{
		WorkspaceID:   workspaceID,
		MemberID:      rate.MemberID,
		ClientID:      rate.ClientID,
		HourlyRateUSD: rate.HourlyRateUSD,
		HourlyRateEUR: rate.HourlyRateEUR,
		EffectiveDate: rate.EffectiveDate,
		CreatedAt:     rate.CreatedAt,
	}
}
