package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/useraccounts-server/internal/model"
)

var userRowColumns = []string{
	"id", "email", "password_hash", "full_name", "phone", "country", "billing_address",
	"default_shipping_address", "user_type", "created_at", "updated_at",
}

func newMockConnection(t *testing.T) (*Connection, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &Connection{DB: db}, mock
}

func userRow(u model.User) *sqlmock.Rows {
	return sqlmock.NewRows(userRowColumns).AddRow(
		u.ID.String(), u.Email, u.PasswordHash, u.FullName, u.Phone, u.Country,
		u.BillingAddress, u.DefaultShippingAddress, string(u.UserType), u.CreatedAt, u.UpdatedAt,
	)
}

func testUser() model.User {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return model.User{
		ID:                     uuid.New(),
		Email:                  "jane@example.com",
		PasswordHash:           "hash",
		FullName:               "Jane Doe",
		Phone:                  "+31000000",
		Country:                "NL",
		BillingAddress:         "Main st 1",
		DefaultShippingAddress: "Main st 2",
		UserType:               model.UserTypeCustomer,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

func TestNewUserRepository(t *testing.T) {
	db := &Connection{}
	repo := NewUserRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	t.Parallel()

	user := testUser()
	query := regexp.QuoteMeta(`FROM users WHERE email = $1`)

	tests := map[string]struct {
		setup   func(mock sqlmock.Sqlmock)
		want    model.User
		wantErr error
	}{
		"found": {
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs(user.Email).WillReturnRows(userRow(user))
			},
			want: user,
		},
		"not found": {
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs(user.Email).WillReturnError(sql.ErrNoRows)
			},
			wantErr: model.ErrNotFound,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			conn, mock := newMockConnection(t)
			tt.setup(mock)

			got, err := NewUserRepository(conn).GetByEmail(context.Background(), user.Email)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	t.Parallel()

	user := testUser()
	query := regexp.QuoteMeta(`FROM users WHERE id = $1`)

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		conn, mock := newMockConnection(t)
		mock.ExpectQuery(query).WithArgs(user.ID).WillReturnRows(userRow(user))

		got, err := NewUserRepository(conn).GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, user, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error is wrapped", func(t *testing.T) {
		t.Parallel()
		conn, mock := newMockConnection(t)
		boom := errors.New("boom")
		mock.ExpectQuery(query).WithArgs(user.ID).WillReturnError(boom)

		_, err := NewUserRepository(conn).GetByID(context.Background(), user.ID)
		require.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, model.ErrNotFound)
	})
}

func TestUserRepository_List(t *testing.T) {
	t.Parallel()

	first := testUser()
	second := testUser()
	second.Email = "john@example.com"
	second.UserType = model.UserTypeAdmin

	conn, mock := newMockConnection(t)
	rows := userRow(first).AddRow(
		second.ID.String(), second.Email, second.PasswordHash, second.FullName, second.Phone, second.Country,
		second.BillingAddress, second.DefaultShippingAddress, string(second.UserType), second.CreatedAt, second.UpdatedAt,
	)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users ORDER BY created_at, id`)).WillReturnRows(rows)

	got, err := NewUserRepository(conn).List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first, got[0])
	assert.Equal(t, model.UserTypeAdmin, got[1].UserType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create(t *testing.T) {
	t.Parallel()

	user := testUser()
	query := regexp.QuoteMeta(`INSERT INTO users`)

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		conn, mock := newMockConnection(t)
		mock.ExpectQuery(query).
			WithArgs(user.ID, user.Email, user.PasswordHash, user.FullName, user.Phone, user.Country,
				user.BillingAddress, user.DefaultShippingAddress, string(user.UserType), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(userRow(user))

		got, err := NewUserRepository(conn).Create(context.Background(), user)
		require.NoError(t, err)
		assert.Equal(t, user, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		conn, mock := newMockConnection(t)
		mock.ExpectQuery(query).WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

		_, err := NewUserRepository(conn).Create(context.Background(), user)
		require.ErrorIs(t, err, model.ErrEmailTaken)
	})
}

func TestUserRepository_Update(t *testing.T) {
	t.Parallel()

	user := testUser()
	query := regexp.QuoteMeta(`UPDATE users SET`)

	tests := map[string]struct {
		err     error
		wantErr error
	}{
		"success":         {},
		"missing user":    {err: sql.ErrNoRows, wantErr: model.ErrNotFound},
		"duplicate email": {err: &pgconn.PgError{Code: uniqueViolationCode}, wantErr: model.ErrEmailTaken},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			conn, mock := newMockConnection(t)
			exp := mock.ExpectQuery(query).WithArgs(user.ID, user.Email, user.PasswordHash, user.FullName,
				user.Phone, user.Country, user.BillingAddress, user.DefaultShippingAddress,
				string(user.UserType), sqlmock.AnyArg())
			if tt.err != nil {
				exp.WillReturnError(tt.err)
			} else {
				exp.WillReturnRows(userRow(user))
			}

			got, err := NewUserRepository(conn).Update(context.Background(), user)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user, got)
		})
	}
}

func TestUserRepository_Delete(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	query := regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()
		conn, mock := newMockConnection(t)
		mock.ExpectExec(query).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewUserRepository(conn).Delete(context.Background(), id))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows", func(t *testing.T) {
		t.Parallel()
		conn, mock := newMockConnection(t)
		mock.ExpectExec(query).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))

		require.ErrorIs(t, NewUserRepository(conn).Delete(context.Background(), id), model.ErrNotFound)
	})
}
