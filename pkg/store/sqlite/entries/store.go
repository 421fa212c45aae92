package entries

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/de-tools/time-atlas/pkg/models/store"
	"github.com/de-tools/time-atlas/pkg/store/sqlite"
)

// Store supports both ingestion (Add) and read (Get*) operations for time
// entries in SQLite. Add upserts on (workspace, id) so re-imports of an
// overlapping window are safe.
type Store interface {
	Add(ctx context.Context, records []store.TimeEntryRecord) error
	GetWindow(ctx context.Context, workspaceID int64, startTime, endTime time.Time) ([]store.TimeEntryRecord, error)
	GetStats(ctx context.Context, workspaceID int64) (*store.EntryStats, error)
	Delete(ctx context.Context, workspaceID int64, ids []int64) error
}

type entryStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &entryStore{db: db}, nil
}

func (s *entryStore) Add(ctx context.Context, records []store.TimeEntryRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx := sqlite.GetTransaction(ctx)
	query := `
		INSERT OR REPLACE INTO time_entries (
			id, workspace_id, member_id, member_name, project_id, project_name,
			client_id, client_name, description, start_time, stop_time,
			seconds, billable, tags
		) VALUES (
			?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
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
		tags, err := json.Marshal(record.Tags)
		if err != nil {
			return fmt.Errorf("marshal tags: %w", err)
		}

		_, err = stmt.ExecContext(ctx,
			record.ID,
			record.WorkspaceID,
			record.MemberID,
			record.MemberName,
			record.ProjectID,
			record.ProjectName,
			record.ClientID,
			record.ClientName,
			record.Description,
			record.StartTime,
			record.StopTime,
			record.Seconds,
			record.Billable,
			tags,
		)
		if err != nil {
			return fmt.Errorf("insert entry %d: %w", record.ID, err)
		}
	}

	return nil
}

func (s *entryStore) GetWindow(
	ctx context.Context,
	workspaceID int64,
	startTime, endTime time.Time,
) ([]store.TimeEntryRecord, error) {
	query := `
		SELECT id, workspace_id, member_id, member_name, project_id, project_name,
			client_id, client_name, description, start_time, stop_time,
			seconds, billable, tags
		FROM time_entries
		WHERE workspace_id = ? AND start_time >= ? AND start_time < ?
		ORDER BY start_time ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, workspaceID, startTime, endTime)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()
	return scanEntryRows(rows)
}

func (s *entryStore) GetStats(ctx context.Context, workspaceID int64) (*store.EntryStats, error) {
	query := `SELECT COUNT(*), MIN(start_time) FROM time_entries WHERE workspace_id = ?`

	var total int64
	var earliest sql.NullTime
	if err := s.db.QueryRowContext(ctx, query, workspaceID).Scan(&total, &earliest); err != nil {
		return nil, fmt.Errorf("get entry stats: %w", err)
	}

	var first *time.Time
	if earliest.Valid {
		t := earliest.Time
		first = &t
	}
	return &store.EntryStats{RecordsCount: total, FirstRecordTime: first}, nil
}

func (s *entryStore) Delete(ctx context.Context, workspaceID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, 0, 1+len(ids))
	args = append(args, workspaceID)
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}

	query := fmt.Sprintf(
		`DELETE FROM time_entries WHERE workspace_id = ? AND id IN (%s)`,
		join(placeholders, ","),
	)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}
	return nil
}

func scanEntryRows(rows *sql.Rows) ([]store.TimeEntryRecord, error) {
	records := make([]store.TimeEntryRecord, 0)
	for rows.Next() {
		var (
			r         store.TimeEntryRecord
			projectID sql.NullInt64
			clientID  sql.NullInt64
			stopTime  sql.NullTime
			tagsRaw   []byte
		)
		err := rows.Scan(
			&r.ID,
			&r.WorkspaceID,
			&r.MemberID,
			&r.MemberName,
			&projectID,
			&r.ProjectName,
			&clientID,
			&r.ClientName,
			&r.Description,
			&r.StartTime,
			&stopTime,
			&r.Seconds,
			&r.Billable,
			&tagsRaw,
		)
		if err != nil {
			return nil, err
		}
		if projectID.Valid {
			id := projectID.Int64
			r.ProjectID = &id
		}
		if clientID.Valid {
			id := clientID.Int64
			r.ClientID = &id
		}
		if stopTime.Valid {
			t := stopTime.Time
			r.StopTime = &t
		}
		if len(tagsRaw) > 0 {
			_ = json.Unmarshal(tagsRaw, &r.Tags)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func join(items []string, sep string) string {
	if len(items) == 0 {
		return ""
	}
	out := items[0]
	for i := 1; i < len(items); i++ {
		out += sep + items[i]
	}
	return out
}
