package repository

import (
	"context"
	"errors"
	"log"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/streakhq/streakboard/pkg/cleanup"
	"github.com/streakhq/streakboard/pkg/entity"
)

// notifyChannel is raised by the user_records trigger with the changed uid
// as payload.
const notifyChannel = "user_records_changed"

// RecordWatcher turns Postgres LISTEN/NOTIFY on user_records into change
// subscriptions. Each Watch call holds one dedicated connection from the
// pool for the lifetime of its context.
type RecordWatcher struct {
	pool    *pgxpool.Pool
	records UserRecordsRepositoryI
}

func NewRecordWatcher(cfg DBConfig, records UserRecordsRepositoryI) *RecordWatcher {
	if records == nil {
		log.Fatal("provided nil records repo to watcher")
	}
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for recordWatcher error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for recordWatcher: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing recordWatcher pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &RecordWatcher{
		pool:    pool,
		records: records,
	}
}

// Watch delivers the current record for uid, then re-fetches and delivers it
// on every matching notification. Every delivered record is a full snapshot
// replacing whatever the caller held before. Returns nil once ctx is
// cancelled.
func (w *RecordWatcher) Watch(ctx context.Context, uid uuid.UUID, onChange func(*entity.UserRecord)) error {
	rec, err := w.records.Get(ctx, uid)
	if err != nil {
		return errors.New("fetching initial record error: " + err.Error())
	}
	onChange(rec)

	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return errors.New("acquiring listen connection error: " + err.Error())
	}
	defer conn.Release()
	if _, err := conn.Exec(ctx, `LISTEN `+notifyChannel+`;`); err != nil {
		return errors.New("listen error: " + err.Error())
	}
	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.New("waiting for notification error: " + err.Error())
		}
		if n.Payload != uid.String() {
			continue
		}
		rec, err := w.records.Get(ctx, uid)
		if err != nil {
			slog.Default().Error("re-fetching record after change failed", slog.String("error", err.Error()))
			continue
		}
		onChange(rec)
	}
}

// WatchAll reports the uid of every changed record. Returns nil once ctx is
// cancelled.
func (w *RecordWatcher) WatchAll(ctx context.Context, onChange func(uuid.UUID)) error {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return errors.New("acquiring listen connection error: " + err.Error())
	}
	defer conn.Release()
	if _, err := conn.Exec(ctx, `LISTEN `+notifyChannel+`;`); err != nil {
		return errors.New("listen error: " + err.Error())
	}
	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.New("waiting for notification error: " + err.Error())
		}
		uid, err := uuid.Parse(n.Payload)
		if err != nil {
			slog.Default().Error("notification with invalid uid payload", slog.String("payload", n.Payload))
			continue
		}
		onChange(uid)
	}
}
