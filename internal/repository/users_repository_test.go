package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	errorvalues "github.com/streakhq/streakboard/internal/error_values"
	"github.com/streakhq/streakboard/internal/repository"
	"github.com/streakhq/streakboard/pkg/entity"
)

var (
	userID = uuid.New()
)

func TestCreateUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewUsersRepoWithConn(mock)
	ctx := context.Background()
	user := entity.User{
		Name:         "test_name",
		PasswordHash: "test_passhash",
	}
	query := regexp.QuoteMeta(`INSERT INTO users (name, password_hash) VALUES ($1, $2);`)
	t.Run("successfully created", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(user.Name, user.PasswordHash).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		err := repo.Create(ctx, &user)
		assert.NoError(t, err)
	})
	t.Run("unique violation", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(user.Name, user.PasswordHash).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		err := repo.Create(ctx, &user)
		assert.ErrorIs(t, err, errorvalues.ErrUserExists)
	})
	t.Run("nil user", func(t *testing.T) {
		err := repo.Create(ctx, nil)
		assert.Error(t, err)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(user.Name, user.PasswordHash).
			WillReturnError(errors.New("db error"))
		err := repo.Create(ctx, &user)
		assert.Error(t, err)
	})
}

func TestFindUserByName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewUsersRepoWithConn(mock)
	ctx := context.Background()
	query := regexp.QuoteMeta(`SELECT id, name, password_hash FROM users WHERE name = $1;`)
	t.Run("successfully found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs("test_name").
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "password_hash"}).
				AddRow(userID, "test_name", "test_passhash"))
		user, err := repo.FindByName(ctx, "test_name")
		assert.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, "test_name", user.Name)
	})
	t.Run("user not found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs("unknown").
			WillReturnError(pgx.ErrNoRows)
		_, err := repo.FindByName(ctx, "unknown")
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
}

func TestFindUserByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewUsersRepoWithConn(mock)
	ctx := context.Background()
	query := regexp.QuoteMeta(`SELECT id, name, password_hash FROM users WHERE id = $1;`)
	t.Run("successfully found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "password_hash"}).
				AddRow(userID, "test_name", "test_passhash"))
		user, err := repo.FindByID(ctx, userID)
		assert.NoError(t, err)
		assert.Equal(t, "test_name", user.Name)
	})
	t.Run("user not found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(userID).
			WillReturnError(pgx.ErrNoRows)
		_, err := repo.FindByID(ctx, userID)
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
}
