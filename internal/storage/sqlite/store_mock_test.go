package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/finance-be/internal/models"
	"github.com/hongminglow/finance-be/internal/storage"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return newStore(db), mock
}

func TestUpdateAccountWithoutRowsIsNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`UPDATE accounts SET name = \? WHERE id = \? AND user_id = \?`).
		WithArgs("Main", "acc-1", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_id"}))

	_, err := store.UpdateAccount(context.Background(), "user-1", "acc-1", "Main")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTransactionRollsBackOnForeignAccount(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM accounts WHERE id = \? AND user_id = \?`).
		WithArgs("acc-1", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := store.CreateTransaction(context.Background(), "user-1", models.Transaction{AccountID: "acc-1", Payee: "X", Amount: 1})
	assert.ErrorIs(t, err, storage.ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDriverErrorsPassThrough(t *testing.T) {
	store, mock := newMockStore(t)
	boom := errors.New("disk I/O error")
	mock.ExpectQuery(`SELECT id, name, user_id FROM categories`).
		WithArgs("user-1").
		WillReturnError(boom)

	_, err := store.ListCategories(context.Background(), "user-1")
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
