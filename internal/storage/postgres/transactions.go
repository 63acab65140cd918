package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/finance-be/internal/models"
	"github.com/hongminglow/finance-be/internal/storage"
)

const transactionColumns = `id, amount, payee, notes, date, account_id, category_id`

// ListTransactions returns the caller's transactions, newest first, with
// account and category names resolved.
func (s *Store) ListTransactions(ctx context.Context, userID string, filter models.TransactionFilter) ([]models.TransactionView, error) {
	query := `
		SELECT t.id, t.date, c.name, t.category_id, t.payee, t.amount, t.notes, a.name, t.account_id
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE a.user_id = $1`
	args := []any{userID}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND t.date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND t.date <= $%d", len(args))
	}
	if filter.AccountID != "" {
		args = append(args, filter.AccountID)
		query += fmt.Sprintf(" AND t.account_id = $%d", len(args))
	}
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		query += fmt.Sprintf(" AND t.category_id = $%d", len(args))
	}
	query += " ORDER BY t.date DESC, t.created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.TransactionView, error) {
		var v models.TransactionView
		err := row.Scan(&v.ID, &v.Date, &v.Category, &v.CategoryID, &v.Payee, &v.Amount, &v.Notes, &v.Account, &v.AccountID)
		return v, err
	})
}

// CreateTransaction verifies that the referenced account and category belong
// to userID and inserts the transaction in the same database transaction.
func (s *Store) CreateTransaction(ctx context.Context, userID string, t models.Transaction) (models.Transaction, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := lockReferences(ctx, tx, userID, &t.AccountID, t.CategoryID); err != nil {
		return models.Transaction{}, err
	}

	const query = `
		INSERT INTO transactions (id, amount, payee, notes, date, account_id, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + transactionColumns
	created, err := scanTransaction(tx.QueryRow(ctx, query, uuid.NewString(), t.Amount, t.Payee, t.Notes, t.Date, t.AccountID, t.CategoryID))
	if err != nil {
		return models.Transaction{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return models.Transaction{}, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

// UpdateTransaction merges patch into a transaction owned by userID. The row
// is locked for the duration of the merge and the write stays scoped to the
// owner.
func (s *Store) UpdateTransaction(ctx context.Context, userID, id string, patch models.TransactionPatch) (models.Transaction, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const selectQuery = `
		SELECT t.id, t.amount, t.payee, t.notes, t.date, t.account_id, t.category_id
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE t.id = $1 AND a.user_id = $2
		FOR UPDATE OF t`
	current, err := scanTransaction(tx.QueryRow(ctx, selectQuery, id, userID))
	if err != nil {
		return models.Transaction{}, err
	}

	if err := lockReferences(ctx, tx, userID, patch.AccountID, patch.CategoryID); err != nil {
		return models.Transaction{}, err
	}

	next := current.Apply(patch)
	const updateQuery = `
		UPDATE transactions
		SET amount = $3, payee = $4, notes = $5, date = $6, account_id = $7, category_id = $8
		WHERE id = $1 AND account_id IN (SELECT id FROM accounts WHERE user_id = $2)
		RETURNING ` + transactionColumns
	updated, err := scanTransaction(tx.QueryRow(ctx, updateQuery, id, userID, next.Amount, next.Payee, next.Notes, next.Date, next.AccountID, next.CategoryID))
	if err != nil {
		return models.Transaction{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return models.Transaction{}, fmt.Errorf("commit: %w", err)
	}
	return updated, nil
}

// DeleteTransaction removes a transaction owned by userID.
func (s *Store) DeleteTransaction(ctx context.Context, userID, id string) (models.Transaction, error) {
	const query = `
		DELETE FROM transactions
		WHERE id = $1 AND account_id IN (SELECT id FROM accounts WHERE user_id = $2)
		RETURNING ` + transactionColumns
	return scanTransaction(s.pool.QueryRow(ctx, query, id, userID))
}

// lockReferences share-locks the referenced account and category rows if they
// belong to userID, so neither can be deleted before the caller commits. Nil
// references are skipped.
func lockReferences(ctx context.Context, q querier, userID string, accountID, categoryID *string) error {
	if accountID != nil {
		if err := lockOwned(ctx, q, accountsTable, userID, *accountID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return storage.ErrAccountNotFound
			}
			return err
		}
	}
	if categoryID != nil {
		if err := lockOwned(ctx, q, categoriesTable, userID, *categoryID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return storage.ErrCategoryNotFound
			}
			return err
		}
	}
	return nil
}

func lockOwned(ctx context.Context, q querier, table, userID, id string) error {
	query := fmt.Sprintf(`SELECT id FROM %s WHERE id = $1 AND user_id = $2 FOR SHARE`, table)
	var found string
	return translate(q.QueryRow(ctx, query, id, userID).Scan(&found))
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var t models.Transaction
	if err := row.Scan(&t.ID, &t.Amount, &t.Payee, &t.Notes, &t.Date, &t.AccountID, &t.CategoryID); err != nil {
		return models.Transaction{}, translate(err)
	}
	return t, nil
}
