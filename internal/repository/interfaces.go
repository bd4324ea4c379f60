package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/streakhq/streakboard/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database
	Create(ctx context.Context, user *entity.User) error
	// Looks up user by name. Can be used for login
	FindByName(ctx context.Context, name string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
}

// RecordPatch is a merge write: nil fields stay untouched in the stored
// record, non-nil ones replace the stored value. An empty but non-nil Tasks
// slice overwrites the stored task list with an empty one.
type RecordPatch struct {
	Username *string
	Tasks    []entity.Task
}

type UserRecordsRepositoryI interface {
	// Fetches the record stored for uid
	Get(ctx context.Context, uid uuid.UUID) (*entity.UserRecord, error)
	// Upserts the record for uid, merging patch into whatever is stored.
	// Every successful put notifies record watchers
	Put(ctx context.Context, uid uuid.UUID, patch *RecordPatch) error
	// Lists every stored record in creation order. Used by leaderboard aggregation
	ListAll(ctx context.Context) ([]entity.UserRecord, error)
}

type RecordWatcherI interface {
	// Delivers the current record for uid immediately, then again on every
	// change, until ctx is cancelled
	Watch(ctx context.Context, uid uuid.UUID, onChange func(*entity.UserRecord)) error
	// Invokes onChange with the uid of any record that changed, until ctx is
	// cancelled. Used as the global re-aggregation trigger
	WatchAll(ctx context.Context, onChange func(uuid.UUID)) error
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
