package session

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

// Both backends must honour the same contract.
func backends(t *testing.T) map[string]Repository {
	return map[string]Repository{
		"sqlite": NewSQLiteRepository(setupDB(t)),
		"memory": NewMemoryRepository(),
	}
}

func TestRepository_SetGetOverwrite(t *testing.T) {
	for name, r := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, r.Set(ctx, "authToken", []byte("old")))
			require.NoError(t, r.Set(ctx, "authToken", []byte("new")))

			v, err := r.Get(ctx, "authToken")
			require.NoError(t, err)
			require.Equal(t, []byte("new"), v)
		})
	}
}

func TestRepository_GetMissingIsNilNil(t *testing.T) {
	for name, r := range backends(t) {
		t.Run(name, func(t *testing.T) {
			v, err := r.Get(context.Background(), "absent")
			require.NoError(t, err)
			require.Nil(t, v)
		})
	}
}

func TestRepository_SetManyDeleteClear(t *testing.T) {
	for name, r := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, r.SetMany(ctx, map[string][]byte{
				"authToken": []byte("t"),
				"user":      []byte(`{"id":"u1"}`),
			}))

			v, err := r.Get(ctx, "user")
			require.NoError(t, err)
			require.Equal(t, `{"id":"u1"}`, string(v))

			require.NoError(t, r.Delete(ctx, "user"))
			require.NoError(t, r.Delete(ctx, "user"), "delete is idempotent")
			v, err = r.Get(ctx, "user")
			require.NoError(t, err)
			require.Nil(t, v)

			require.NoError(t, r.Clear(ctx))
			v, err = r.Get(ctx, "authToken")
			require.NoError(t, err)
			require.Nil(t, v)
		})
	}
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	in := []byte("abc")
	require.NoError(t, r.Set(ctx, "k", in))
	in[0] = 'X'

	out, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "abc", string(out))
	out[0] = 'Y'

	again, _ := r.Get(ctx, "k")
	require.Equal(t, "abc", string(again))
}

func newMockRepo(t *testing.T) (*SQLiteRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db), mock
}

func TestSQLite_SetManyRollsBackOnFailure(t *testing.T) {
	r, mock := newMockRepo(t)

	insert := regexp.QuoteMeta(`INSERT INTO metadata (key, value) VALUES (?, ?)`)
	mock.ExpectBegin()
	mock.ExpectExec(insert).WithArgs("authToken", []byte("t")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(insert).WithArgs("user", []byte("u")).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := r.SetMany(context.Background(), map[string][]byte{"user": []byte("u"), "authToken": []byte("t")})
	require.ErrorContains(t, err, "failed to set metadata[user]")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLite_ErrorsAreWrapped(t *testing.T) {
	ctx := context.Background()

	t.Run("get", func(t *testing.T) {
		r, mock := newMockRepo(t)
		mock.ExpectQuery(`SELECT value FROM metadata`).WithArgs("k").WillReturnError(errors.New("boom"))
		_, err := r.Get(ctx, "k")
		require.ErrorContains(t, err, "failed to get metadata[k]")
	})

	t.Run("delete", func(t *testing.T) {
		r, mock := newMockRepo(t)
		mock.ExpectExec(`DELETE FROM metadata WHERE key`).WithArgs("k").WillReturnError(errors.New("boom"))
		require.ErrorContains(t, r.Delete(ctx, "k"), "failed to delete metadata[k]")
	})

	t.Run("clear", func(t *testing.T) {
		r, mock := newMockRepo(t)
		mock.ExpectExec(`DELETE FROM metadata`).WillReturnError(errors.New("boom"))
		require.ErrorContains(t, r.Clear(ctx), "failed to clear metadata")
	})
}
