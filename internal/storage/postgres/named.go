package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/finance-be/internal/models"
)

// Accounts and categories share a shape, so they share their queries. Table
// names are compile-time constants, never user input.
const (
	accountsTable   = "accounts"
	categoriesTable = "categories"
)

type named struct {
	ID     string
	Name   string
	UserID string
}

func (s *Store) listNamed(ctx context.Context, table, userID string) ([]named, error) {
	query := fmt.Sprintf(`SELECT id, name, user_id FROM %s WHERE user_id = $1 ORDER BY created_at, id`, table)
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[named])
}

func (s *Store) createNamed(ctx context.Context, table, userID, name string) (named, error) {
	query := fmt.Sprintf(`INSERT INTO %s (id, name, user_id) VALUES ($1, $2, $3) RETURNING id, name, user_id`, table)
	return scanNamed(s.pool.QueryRow(ctx, query, uuid.NewString(), name, userID))
}

func (s *Store) updateNamed(ctx context.Context, table, userID, id, name string) (named, error) {
	query := fmt.Sprintf(`UPDATE %s SET name = $3 WHERE id = $1 AND user_id = $2 RETURNING id, name, user_id`, table)
	return scanNamed(s.pool.QueryRow(ctx, query, id, userID, name))
}

func (s *Store) deleteNamed(ctx context.Context, table, userID, id string) (named, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2 RETURNING id, name, user_id`, table)
	return scanNamed(s.pool.QueryRow(ctx, query, id, userID))
}

func scanNamed(row pgx.Row) (named, error) {
	var n named
	if err := row.Scan(&n.ID, &n.Name, &n.UserID); err != nil {
		return named{}, translate(err)
	}
	return n, nil
}

// ListAccounts returns the accounts owned by userID.
func (s *Store) ListAccounts(ctx context.Context, userID string) ([]models.Account, error) {
	rows, err := s.listNamed(ctx, accountsTable, userID)
	if err != nil {
		return nil, err
	}
	accounts := make([]models.Account, 0, len(rows))
	for _, r := range rows {
		accounts = append(accounts, models.Account(r))
	}
	return accounts, nil
}

// CreateAccount inserts an account owned by userID.
func (s *Store) CreateAccount(ctx context.Context, userID, name string) (models.Account, error) {
	n, err := s.createNamed(ctx, accountsTable, userID, name)
	return models.Account(n), err
}

// UpdateAccount renames an account owned by userID.
func (s *Store) UpdateAccount(ctx context.Context, userID, id, name string) (models.Account, error) {
	n, err := s.updateNamed(ctx, accountsTable, userID, id, name)
	return models.Account(n), err
}

// DeleteAccount removes an account owned by userID along with its transactions.
func (s *Store) DeleteAccount(ctx context.Context, userID, id string) (models.Account, error) {
	n, err := s.deleteNamed(ctx, accountsTable, userID, id)
	return models.Account(n), err
}

// ListCategories returns the categories owned by userID.
func (s *Store) ListCategories(ctx context.Context, userID string) ([]models.Category, error) {
	rows, err := s.listNamed(ctx, categoriesTable, userID)
	if err != nil {
		return nil, err
	}
	categories := make([]models.Category, 0, len(rows))
	for _, r := range rows {
		categories = append(categories, models.Category(r))
	}
	return categories, nil
}

// CreateCategory inserts a category owned by userID.
func (s *Store) CreateCategory(ctx context.Context, userID, name string) (models.Category, error) {
	n, err := s.createNamed(ctx, categoriesTable, userID, name)
	return models.Category(n), err
}

// UpdateCategory renames a category owned by userID.
func (s *Store) UpdateCategory(ctx context.Context, userID, id, name string) (models.Category, error) {
	n, err := s.updateNamed(ctx, categoriesTable, userID, id, name)
	return models.Category(n), err
}

// DeleteCategory removes a category owned by userID; its transactions keep
// existing without a category.
func (s *Store) DeleteCategory(ctx context.Context, userID, id string) (models.Category, error) {
	n, err := s.deleteNamed(ctx, categoriesTable, userID, id)
	return models.Category(n), err
}
