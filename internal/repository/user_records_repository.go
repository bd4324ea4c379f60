package repository

import (
	"context"
	"errors"
	"log"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/streakhq/streakboard/internal/error_values"
	"github.com/streakhq/streakboard/pkg/cleanup"
	"github.com/streakhq/streakboard/pkg/entity"
)

// UserRecordsRepository stores one document per user: username plus the
// full task list as jsonb. Writes are merge-upserts; a trigger on the table
// notifies the user_records_changed channel after every write, which feeds
// RecordWatcher.
type UserRecordsRepository struct {
	conn PgConnection
}

func NewUserRecordsRepo(cfg DBConfig) *UserRecordsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for userRecordsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for userRecordsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing userRecordsRepo pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &UserRecordsRepository{
		conn: pool,
	}
}

func NewUserRecordsRepoWithConn(conn PgConnection) *UserRecordsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for userRecordsRepo: " + err.Error())
	}
	return &UserRecordsRepository{
		conn: conn,
	}
}

func (rr *UserRecordsRepository) Get(ctx context.Context, uid uuid.UUID) (*entity.UserRecord, error) {
	var rec entity.UserRecord
	var tasksJSON []byte
	row := rr.conn.QueryRow(ctx, `SELECT uid, COALESCE(username, ''), tasks FROM user_records WHERE uid = $1;`, uid)
	if err := row.Scan(&rec.UID, &rec.Username, &tasksJSON); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrRecordNotFound
		}
		return nil, errors.New("searching record by uid error: " + err.Error())
	}
	if err := sonic.Unmarshal(tasksJSON, &rec.Tasks); err != nil {
		return nil, errors.New("record tasks parsing error: " + err.Error())
	}
	return &rec, nil
}

func (rr *UserRecordsRepository) Put(ctx context.Context, uid uuid.UUID, patch *RecordPatch) error {
	if patch == nil {
		return errors.New("patch is nil")
	}
	var tasksJSON []byte
	if patch.Tasks != nil {
		var err error
		tasksJSON, err = sonic.Marshal(patch.Tasks)
		if err != nil {
			return errors.New("record tasks encoding error: " + err.Error())
		}
	}
	_, err := rr.conn.Exec(
		ctx,
		`INSERT INTO user_records (uid, username, tasks) VALUES ($1, $2, COALESCE($3, '[]'::jsonb)) ON CONFLICT (uid) DO UPDATE SET username = COALESCE($2, user_records.username), tasks = COALESCE($3, user_records.tasks), updated_at = now();`,
		uid,
		patch.Username,
		tasksJSON,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return errorvalues.ErrUserNotFound
			}
		}
		return errors.New("putting record error: " + err.Error())
	}
	return nil
}

func (rr *UserRecordsRepository) ListAll(ctx context.Context) ([]entity.UserRecord, error) {
	rows, err := rr.conn.Query(ctx, `SELECT uid, COALESCE(username, ''), tasks FROM user_records ORDER BY created_at;`)
	if err != nil {
		return nil, errors.New("listing records error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.UserRecord, 0, 8)
	for rows.Next() {
		var rec entity.UserRecord
		var tasksJSON []byte
		if err := rows.Scan(&rec.UID, &rec.Username, &tasksJSON); err != nil {
			return nil, errors.New("record row parsing error: " + err.Error())
		}
		if err := sonic.Unmarshal(tasksJSON, &rec.Tasks); err != nil {
			return nil, errors.New("record tasks parsing error: " + err.Error())
		}
		result = append(result, rec)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected record rows error: " + rows.Err().Error())
	}
	return result, nil
}
