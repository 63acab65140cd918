package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/finance-be/internal/models"
)

// ErrNotFound indicates a record does not exist or is not owned by the caller.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrAccountNotFound indicates a transaction references an account the caller does not own.
var ErrAccountNotFound = errors.New("account not found")

// ErrCategoryNotFound indicates a transaction references a category the caller does not own.
var ErrCategoryNotFound = errors.New("category not found")

// UserStore captures persistence operations needed by the auth endpoints.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// AccountStore persists accounts. Update and delete only touch rows owned by
// userID and return ErrNotFound otherwise.
type AccountStore interface {
	ListAccounts(ctx context.Context, userID string) ([]models.Account, error)
	CreateAccount(ctx context.Context, userID, name string) (models.Account, error)
	UpdateAccount(ctx context.Context, userID, id, name string) (models.Account, error)
	DeleteAccount(ctx context.Context, userID, id string) (models.Account, error)
}

// CategoryStore persists categories with the same ownership rules as AccountStore.
type CategoryStore interface {
	ListCategories(ctx context.Context, userID string) ([]models.Category, error)
	CreateCategory(ctx context.Context, userID, name string) (models.Category, error)
	UpdateCategory(ctx context.Context, userID, id, name string) (models.Category, error)
	DeleteCategory(ctx context.Context, userID, id string) (models.Category, error)
}

// TransactionStore persists transactions. Ownership is resolved through the
// referenced account.
//
// CreateTransaction and UpdateTransaction return ErrAccountNotFound or
// ErrCategoryNotFound when a referenced account or category is not owned by
// userID. UpdateTransaction and DeleteTransaction return ErrNotFound when the
// transaction itself is absent or foreign.
type TransactionStore interface {
	ListTransactions(ctx context.Context, userID string, filter models.TransactionFilter) ([]models.TransactionView, error)
	CreateTransaction(ctx context.Context, userID string, tx models.Transaction) (models.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, id string, patch models.TransactionPatch) (models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id string) (models.Transaction, error)
}

// Store is the full persistence surface used by the server.
type Store interface {
	UserStore
	AccountStore
	CategoryStore
	TransactionStore
	Ping(ctx context.Context) error
	Close() error
}
