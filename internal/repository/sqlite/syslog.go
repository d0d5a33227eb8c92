package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"campusmart/internal/domain"
	"campusmart/internal/service"
)

// AppendLog inserts an audit entry and trims its logType back to the
// retention cap in the same transaction. A reader can never observe
// more than the cap, and never a trim without the insert.
func (r *Repository) AppendLog(ctx context.Context, e *domain.SystemLogEntry) error {
	if e.Type != domain.LogAdmin && e.Type != domain.LogUser {
		return fmt.Errorf("unknown log type %q", e.Type)
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	unlock := r.locks.lock("syslog/" + string(e.Type))
	defer unlock()

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO system_logs (log_type, action, actor, target, detail, timestamp)
			VALUES (?, ?, ?, ?, ?, ?)
		`, string(e.Type), e.Action, e.Actor, e.Target, e.Detail, e.Timestamp)
		if err != nil {
			return fmt.Errorf("insert log entry: %w", mapWriteErr(err))
		}
		if id, err := res.LastInsertId(); err == nil {
			e.ID = id
		}

		// Keep only the newest cap rows of this type; id breaks
		// timestamp ties so the fresh insert always survives.
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM system_logs
			WHERE log_type = ? AND id NOT IN (
				SELECT id FROM system_logs
				WHERE log_type = ?
				ORDER BY timestamp DESC, id DESC
				LIMIT ?
			)
		`, string(e.Type), string(e.Type), r.logRetention); err != nil {
			return fmt.Errorf("trim log entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.notify.TableChanged(service.TopicSystemLogs)
	return nil
}

// ListLogs returns the retained entries of one logType, newest first
func (r *Repository) ListLogs(ctx context.Context, typ domain.LogType) ([]domain.SystemLogEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, log_type, action, actor, target, detail, timestamp
		FROM system_logs WHERE log_type = ?
		ORDER BY timestamp DESC, id DESC
	`, string(typ))
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	var entries []domain.SystemLogEntry
	for rows.Next() {
		var e domain.SystemLogEntry
		var t string
		if err := rows.Scan(&e.ID, &t, &e.Action, &e.Actor, &e.Target, &e.Detail, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		e.Type = domain.LogType(t)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
