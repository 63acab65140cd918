package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/finance-be/internal/models"
	"github.com/hongminglow/finance-be/internal/storage"
)

const transactionColumns = `id, amount, payee, notes, date, account_id, category_id`

// ListTransactions returns the caller's transactions, newest first, with
// account and category names resolved. Dates are stored as YYYY-MM-DD text,
// so the range filters compare lexically.
func (s *Store) ListTransactions(ctx context.Context, userID string, filter models.TransactionFilter) ([]models.TransactionView, error) {
	query := `
		SELECT t.id, t.date, c.name, t.category_id, t.payee, t.amount, t.notes, a.name, t.account_id
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE a.user_id = ?`
	args := []any{userID}
	if filter.From != nil {
		query += " AND t.date >= ?"
		args = append(args, filter.From.Format(models.DateLayout))
	}
	if filter.To != nil {
		query += " AND t.date <= ?"
		args = append(args, filter.To.Format(models.DateLayout))
	}
	if filter.AccountID != "" {
		query += " AND t.account_id = ?"
		args = append(args, filter.AccountID)
	}
	if filter.CategoryID != "" {
		query += " AND t.category_id = ?"
		args = append(args, filter.CategoryID)
	}
	query += " ORDER BY t.date DESC, t.created_at DESC, t.rowid DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var views []models.TransactionView
	for rows.Next() {
		var (
			v    models.TransactionView
			date string
		)
		if err := rows.Scan(&v.ID, &date, &v.Category, &v.CategoryID, &v.Payee, &v.Amount, &v.Notes, &v.Account, &v.AccountID); err != nil {
			return nil, err
		}
		if v.Date, err = time.Parse(models.DateLayout, date); err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", date, err)
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// CreateTransaction verifies that the referenced account and category belong
// to userID and inserts the transaction in the same database transaction.
func (s *Store) CreateTransaction(ctx context.Context, userID string, t models.Transaction) (models.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := checkReferences(ctx, tx, userID, &t.AccountID, t.CategoryID); err != nil {
		return models.Transaction{}, err
	}

	const query = `
		INSERT INTO transactions (id, amount, payee, notes, date, account_id, category_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + transactionColumns
	created, err := scanTransaction(tx.QueryRowContext(ctx, query,
		uuid.NewString(), t.Amount, t.Payee, t.Notes, t.Date.Format(models.DateLayout), t.AccountID, t.CategoryID))
	if err != nil {
		return models.Transaction{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Transaction{}, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

// UpdateTransaction merges patch into a transaction owned by userID.
func (s *Store) UpdateTransaction(ctx context.Context, userID, id string, patch models.TransactionPatch) (models.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const selectQuery = `
		SELECT t.id, t.amount, t.payee, t.notes, t.date, t.account_id, t.category_id
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE t.id = ? AND a.user_id = ?`
	current, err := scanTransaction(tx.QueryRowContext(ctx, selectQuery, id, userID))
	if err != nil {
		return models.Transaction{}, err
	}

	if err := checkReferences(ctx, tx, userID, patch.AccountID, patch.CategoryID); err != nil {
		return models.Transaction{}, err
	}

	next := current.Apply(patch)
	const updateQuery = `
		UPDATE transactions
		SET amount = ?, payee = ?, notes = ?, date = ?, account_id = ?, category_id = ?
		WHERE id = ? AND account_id IN (SELECT id FROM accounts WHERE user_id = ?)
		RETURNING ` + transactionColumns
	updated, err := scanTransaction(tx.QueryRowContext(ctx, updateQuery,
		next.Amount, next.Payee, next.Notes, next.Date.Format(models.DateLayout), next.AccountID, next.CategoryID, id, userID))
	if err != nil {
		return models.Transaction{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Transaction{}, fmt.Errorf("commit: %w", err)
	}
	return updated, nil
}

// DeleteTransaction removes a transaction owned by userID.
func (s *Store) DeleteTransaction(ctx context.Context, userID, id string) (models.Transaction, error) {
	const query = `
		DELETE FROM transactions
		WHERE id = ? AND account_id IN (SELECT id FROM accounts WHERE user_id = ?)
		RETURNING ` + transactionColumns
	return scanTransaction(s.db.QueryRowContext(ctx, query, id, userID))
}

func checkReferences(ctx context.Context, q querier, userID string, accountID, categoryID *string) error {
	if accountID != nil {
		if err := checkOwned(ctx, q, accountsTable, userID, *accountID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return storage.ErrAccountNotFound
			}
			return err
		}
	}
	if categoryID != nil {
		if err := checkOwned(ctx, q, categoriesTable, userID, *categoryID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return storage.ErrCategoryNotFound
			}
			return err
		}
	}
	return nil
}

func checkOwned(ctx context.Context, q querier, table, userID, id string) error {
	query := fmt.Sprintf(`SELECT id FROM %s WHERE id = ? AND user_id = ?`, table)
	var found string
	return translate(q.QueryRowContext(ctx, query, id, userID).Scan(&found))
}

func scanTransaction(row *sql.Row) (models.Transaction, error) {
	var (
		t    models.Transaction
		date string
	)
	if err := row.Scan(&t.ID, &t.Amount, &t.Payee, &t.Notes, &date, &t.AccountID, &t.CategoryID); err != nil {
		return models.Transaction{}, translate(err)
	}
	parsed, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("parse transaction date %q: %w", date, err)
	}
	t.Date = parsed
	return t, nil
}
