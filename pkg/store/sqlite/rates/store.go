package rates

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/de-tools/time-atlas/pkg/models/store"
	"github.com/de-tools/time-atlas/pkg/store/sqlite"
)

// Store persists the append-only rate history. Rows are never updated in
// place; a rate change is a new row with a later effective date.
type Store interface {
	Add(ctx context.Context, records []store.RateRecord) error
	GetHistory(ctx context.Context, workspaceID int64) ([]store.RateRecord, error)
	GetMemberHistory(ctx context.Context, workspaceID, memberID int64) ([]store.RateRecord, error)
}

type rateStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &rateStore{db: db, now: time.Now}, nil
}

func (s *rateStore) Add(ctx context.Context, records []store.RateRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx := sqlite.GetTransaction(ctx)
	query := `
		INSERT INTO rate_history (
			workspace_id, member_id, client_id,
			hourly_rate_usd, hourly_rate_eur, effective_date, created_at
		) VALUES (
			?, ?, ?, ?, ?, ?, ?
		)`

	var stmt *sql.Stmt
	var err error
	if tx == nil {
		stmt, err = s.db.PrepareContext(ctx, query)
	} else {
		stmt, err = tx.PrepareContext(ctx, query)
	}
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		if record.HourlyRateUSD == nil && record.HourlyRateEUR == nil {
			return fmt.Errorf("rate for member %d carries no amount", record.MemberID)
		}

		createdAt := record.CreatedAt
		if createdAt.IsZero() {
			createdAt = s.now().UTC()
		}

		_, err = stmt.ExecContext(ctx,
			record.WorkspaceID,
			record.MemberID,
			record.ClientID,
			record.HourlyRateUSD,
			record.HourlyRateEUR,
			record.EffectiveDate,
			createdAt,
		)
		if err != nil {
			return fmt.Errorf("insert rate: %w", err)
		}
	}

	return nil
}

func (s *rateStore) GetHistory(ctx context.Context, workspaceID int64) ([]store.RateRecord, error) {
	query := `
		SELECT id, workspace_id, member_id, client_id,
			hourly_rate_usd, hourly_rate_eur, effective_date, created_at
		FROM rate_history
		WHERE workspace_id = ?
		ORDER BY member_id ASC, effective_date ASC
	`
	rows, err := s.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("query rate history: %w", err)
	}
	defer rows.Close()
	return scanRateRows(rows)
}

func (s *rateStore) GetMemberHistory(ctx context.Context, workspaceID, memberID int64) ([]store.RateRecord, error) {
	query := `
		SELECT id, workspace_id, member_id, client_id,
			hourly_rate_usd, hourly_rate_eur, effective_date, created_at
		FROM rate_history
		WHERE workspace_id = ? AND member_id = ?
		ORDER BY effective_date ASC
	`
	rows, err := s.db.QueryContext(ctx, query, workspaceID, memberID)
	if err != nil {
		return nil, fmt.Errorf("query member rate history: %w", err)
	}
	defer rows.Close()
	return scanRateRows(rows)
}

func scanRateRows(rows *sql.Rows) ([]store.RateRecord, error) {
	records := make([]store.RateRecord, 0)
	for rows.Next() {
		var (
			r        store.RateRecord
			clientID sql.NullInt64
			usd, eur sql.NullFloat64
		)
		err := rows.Scan(
			&r.ID,
			&r.WorkspaceID,
			&r.MemberID,
			&clientID,
			&usd,
			&eur,
			&r.EffectiveDate,
			&r.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if clientID.Valid {
			id := clientID.Int64
			r.ClientID = &id
		}
		if usd.Valid {
			v := usd.Float64
			r.HourlyRateUSD = &v
		}
		if eur.Valid {
			v := eur.Float64
			r.HourlyRateEUR = &v
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
