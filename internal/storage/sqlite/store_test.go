package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/hongminglow/finance-be/internal/models"
	"github.com/hongminglow/finance-be/internal/storage"
)

// StoreTestSuite runs the store against a fresh database file per test.
type StoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *Store
	alice models.User
	bob   models.User
}

func (suite *StoreTestSuite) SetupTest() {
	suite.ctx = context.Background()
	store, err := NewStore(suite.ctx, filepath.Join(suite.T().TempDir(), "data", "ledger.db"))
	require.NoError(suite.T(), err, "failed to create test database")
	suite.store = store

	suite.alice = suite.createUser("alice@example.com", "Alice")
	suite.bob = suite.createUser("bob@example.com", "Bob")
}

func (suite *StoreTestSuite) TearDownTest() {
	if suite.store != nil {
		suite.store.Close()
	}
}

func (suite *StoreTestSuite) createUser(email, name string) models.User {
	user, err := suite.store.CreateUser(suite.ctx, models.User{Email: email, Name: name, PasswordHash: "hash"})
	require.NoError(suite.T(), err)
	return user
}

func (suite *StoreTestSuite) createTransaction(userID string, tx models.Transaction) models.Transaction {
	created, err := suite.store.CreateTransaction(suite.ctx, userID, tx)
	require.NoError(suite.T(), err)
	return created
}

func date(s string) time.Time {
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func ptr[T any](v T) *T { return &v }

func (suite *StoreTestSuite) TestCreateUserLowercasesAndRejectsDuplicates() {
	user, err := suite.store.CreateUser(suite.ctx, models.User{Email: "Carol@Example.com", Name: "Carol", PasswordHash: "hash"})
	require.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), user.ID)
	assert.Equal(suite.T(), "carol@example.com", user.Email)
	assert.False(suite.T(), user.CreatedAt.IsZero())

	_, err = suite.store.CreateUser(suite.ctx, models.User{Email: "CAROL@example.com", Name: "Other", PasswordHash: "hash"})
	assert.ErrorIs(suite.T(), err, storage.ErrAlreadyExists)

	found, err := suite.store.FindByEmail(suite.ctx, "carol@EXAMPLE.com")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.ID, found.ID)
	assert.Equal(suite.T(), "hash", found.PasswordHash)
	assert.False(suite.T(), found.CreatedAt.IsZero())

	_, err = suite.store.FindByEmail(suite.ctx, "nobody@example.com")
	assert.ErrorIs(suite.T(), err, storage.ErrNotFound)
}

func (suite *StoreTestSuite) TestAccountsAreScopedToOwner() {
	checking, err := suite.store.CreateAccount(suite.ctx, suite.alice.ID, "Checking")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.alice.ID, checking.UserID)

	accounts, err := suite.store.ListAccounts(suite.ctx, suite.bob.ID)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), accounts)

	_, err = suite.store.UpdateAccount(suite.ctx, suite.bob.ID, checking.ID, "Mine")
	assert.ErrorIs(suite.T(), err, storage.ErrNotFound)
	_, err = suite.store.DeleteAccount(suite.ctx, suite.bob.ID, checking.ID)
	assert.ErrorIs(suite.T(), err, storage.ErrNotFound)
	_, err = suite.store.UpdateAccount(suite.ctx, suite.bob.ID, "does-not-exist", "Mine")
	assert.ErrorIs(suite.T(), err, storage.ErrNotFound)

	renamed, err := suite.store.UpdateAccount(suite.ctx, suite.alice.ID, checking.ID, "Main")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Main", renamed.Name)

	accounts, err = suite.store.ListAccounts(suite.ctx, suite.alice.ID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), accounts, 1)
	assert.Equal(suite.T(), "Main", accounts[0].Name)

	deleted, err := suite.store.DeleteAccount(suite.ctx, suite.alice.ID, checking.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), checking.ID, deleted.ID)
}

func (suite *StoreTestSuite) TestCategoriesAreScopedToOwner() {
	food, err := suite.store.CreateCategory(suite.ctx, suite.alice.ID, "Food")
	require.NoError(suite.T(), err)
	_, err = suite.store.CreateCategory(suite.ctx, suite.bob.ID, "Rent")
	require.NoError(suite.T(), err)

	categories, err := suite.store.ListCategories(suite.ctx, suite.alice.ID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), categories, 1)
	assert.Equal(suite.T(), food, categories[0])

	_, err = suite.store.UpdateCategory(suite.ctx, suite.bob.ID, food.ID, "Groceries")
	assert.ErrorIs(suite.T(), err, storage.ErrNotFound)
	_, err = suite.store.DeleteCategory(suite.ctx, suite.bob.ID, food.ID)
	assert.ErrorIs(suite.T(), err, storage.ErrNotFound)

	updated, err := suite.store.UpdateCategory(suite.ctx, suite.alice.ID, food.ID, "Groceries")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Groceries", updated.Name)
}

func (suite *StoreTestSuite) TestCreateTransactionRejectsForeignReferences() {
	aliceAccount, err := suite.store.CreateAccount(suite.ctx, suite.alice.ID, "Checking")
	require.NoError(suite.T(), err)
	bobAccount, err := suite.store.CreateAccount(suite.ctx, suite.bob.ID, "Savings")
	require.NoError(suite.T(), err)
	bobCategory, err := suite.store.CreateCategory(suite.ctx, suite.bob.ID, "Rent")
	require.NoError(suite.T(), err)

	_, err = suite.store.CreateTransaction(suite.ctx, suite.alice.ID, models.Transaction{
		Amount: 1000, Payee: "X", Date: date("2024-01-01"), AccountID: bobAccount.ID,
	})
	assert.ErrorIs(suite.T(), err, storage.ErrAccountNotFound)

	_, err = suite.store.CreateTransaction(suite.ctx, suite.alice.ID, models.Transaction{
		Amount: 1000, Payee: "X", Date: date("2024-01-01"), AccountID: aliceAccount.ID, CategoryID: ptr(bobCategory.ID),
	})
	assert.ErrorIs(suite.T(), err, storage.ErrCategoryNotFound)

	views, err := suite.store.ListTransactions(suite.ctx, suite.alice.ID, models.TransactionFilter{})
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), views)
}

func (suite *StoreTestSuite) TestListTransactionsFiltersAndOrders() {
	checking, err := suite.store.CreateAccount(suite.ctx, suite.alice.ID, "Checking")
	require.NoError(suite.T(), err)
	cash, err := suite.store.CreateAccount(suite.ctx, suite.alice.ID, "Cash")
	require.NoError(suite.T(), err)
	food, err := suite.store.CreateCategory(suite.ctx, suite.alice.ID, "Food")
	require.NoError(suite.T(), err)
	bobAccount, err := suite.store.CreateAccount(suite.ctx, suite.bob.ID, "Bob")
	require.NoError(suite.T(), err)

	suite.createTransaction(suite.alice.ID, models.Transaction{Amount: 42500, Payee: "Grocer", Date: date("2024-01-15"), AccountID: checking.ID, CategoryID: ptr(food.ID), Notes: ptr("weekly")})
	suite.createTransaction(suite.alice.ID, models.Transaction{Amount: 1000, Payee: "Cafe", Date: date("2024-02-01"), AccountID: cash.ID})
	suite.createTransaction(suite.alice.ID, models.Transaction{Amount: 2000, Payee: "Bakery", Date: date("2023-12-31"), AccountID: checking.ID, CategoryID: ptr(food.ID)})
	suite.createTransaction(suite.bob.ID, models.Transaction{Amount: 9000, Payee: "Bob's", Date: date("2024-01-20"), AccountID: bobAccount.ID})

	all, err := suite.store.ListTransactions(suite.ctx, suite.alice.ID, models.TransactionFilter{})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), all, 3)
	assert.Equal(suite.T(), []string{"Cafe", "Grocer", "Bakery"}, payees(all))

	grocer := all[1]
	assert.Equal(suite.T(), int64(42500), grocer.Amount)
	assert.Equal(suite.T(), "Checking", grocer.Account)
	require.NotNil(suite.T(), grocer.Category)
	assert.Equal(suite.T(), "Food", *grocer.Category)
	assert.Equal(suite.T(), date("2024-01-15"), grocer.Date)
	require.NotNil(suite.T(), grocer.Notes)
	assert.Equal(suite.T(), "weekly", *grocer.Notes)
	assert.Nil(suite.T(), all[0].Category)
	assert.Nil(suite.T(), all[0].CategoryID)

	tests := []struct {
		name   string
		filter models.TransactionFilter
		want   []string
	}{
		{"from", models.TransactionFilter{From: ptr(date("2024-01-01"))}, []string{"Cafe", "Grocer"}},
		{"to inclusive", models.TransactionFilter{To: ptr(date("2024-01-15"))}, []string{"Grocer", "Bakery"}},
		{"range", models.TransactionFilter{From: ptr(date("2024-01-15")), To: ptr(date("2024-01-15"))}, []string{"Grocer"}},
		{"account", models.TransactionFilter{AccountID: cash.ID}, []string{"Cafe"}},
		{"category", models.TransactionFilter{CategoryID: food.ID}, []string{"Grocer", "Bakery"}},
		{"foreign account", models.TransactionFilter{AccountID: bobAccount.ID}, nil},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			views, err := suite.store.ListTransactions(suite.ctx, suite.alice.ID, tt.filter)
			require.NoError(suite.T(), err)
			assert.Equal(suite.T(), tt.want, payees(views))
		})
	}
}

func payees(views []models.TransactionView) []string {
	var out []string
	for _, v := range views {
		out = append(out, v.Payee)
	}
	return out
}

func (suite *StoreTestSuite) TestUpdateTransactionMergesPatch() {
	checking, err := suite.store.CreateAccount(suite.ctx, suite.alice.ID, "Checking")
	require.NoError(suite.T(), err)
	cash, err := suite.store.CreateAccount(suite.ctx, suite.alice.ID, "Cash")
	require.NoError(suite.T(), err)
	bobAccount, err := suite.store.CreateAccount(suite.ctx, suite.bob.ID, "Bob")
	require.NoError(suite.T(), err)

	original := suite.createTransaction(suite.alice.ID, models.Transaction{Amount: 42500, Payee: "Grocer", Date: date("2024-01-15"), AccountID: checking.ID})

	updated, err := suite.store.UpdateTransaction(suite.ctx, suite.alice.ID, original.ID, models.TransactionPatch{
		Amount:    ptr(int64(10000)),
		AccountID: ptr(cash.ID),
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), original.ID, updated.ID)
	assert.Equal(suite.T(), int64(10000), updated.Amount)
	assert.Equal(suite.T(), "Grocer", updated.Payee)
	assert.Equal(suite.T(), date("2024-01-15"), updated.Date)
	assert.Equal(suite.T(), cash.ID, updated.AccountID)

	_, err = suite.store.UpdateTransaction(suite.ctx, suite.alice.ID, original.ID, models.TransactionPatch{AccountID: ptr(bobAccount.ID)})
	assert.ErrorIs(suite.T(), err, storage.ErrAccountNotFound)

	_, err = suite.store.UpdateTransaction(suite.ctx, suite.bob.ID, original.ID, models.TransactionPatch{Payee: ptr("Stolen")})
	assert.ErrorIs(suite.T(), err, storage.ErrNotFound)
	_, err = suite.store.DeleteTransaction(suite.ctx, suite.bob.ID, original.ID)
	assert.ErrorIs(suite.T(), err, storage.ErrNotFound)

	deleted, err := suite.store.DeleteTransaction(suite.ctx, suite.alice.ID, original.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), updated, deleted)

	_, err = suite.store.DeleteTransaction(suite.ctx, suite.alice.ID, original.ID)
	assert.ErrorIs(suite.T(), err, storage.ErrNotFound)
}

func (suite *StoreTestSuite) TestDeletingReferencesCascades() {
	checking, err := suite.store.CreateAccount(suite.ctx, suite.alice.ID, "Checking")
	require.NoError(suite.T(), err)
	cash, err := suite.store.CreateAccount(suite.ctx, suite.alice.ID, "Cash")
	require.NoError(suite.T(), err)
	food, err := suite.store.CreateCategory(suite.ctx, suite.alice.ID, "Food")
	require.NoError(suite.T(), err)

	suite.createTransaction(suite.alice.ID, models.Transaction{Amount: 1000, Payee: "A", Date: date("2024-01-01"), AccountID: checking.ID})
	kept := suite.createTransaction(suite.alice.ID, models.Transaction{Amount: 2000, Payee: "B", Date: date("2024-01-02"), AccountID: cash.ID, CategoryID: ptr(food.ID)})

	_, err = suite.store.DeleteAccount(suite.ctx, suite.alice.ID, checking.ID)
	require.NoError(suite.T(), err)
	_, err = suite.store.DeleteCategory(suite.ctx, suite.alice.ID, food.ID)
	require.NoError(suite.T(), err)

	views, err := suite.store.ListTransactions(suite.ctx, suite.alice.ID, models.TransactionFilter{})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), views, 1)
	assert.Equal(suite.T(), kept.ID, views[0].ID)
	assert.Nil(suite.T(), views[0].CategoryID)
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
