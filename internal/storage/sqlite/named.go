package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/hongminglow/finance-be/internal/models"
)

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
	query := fmt.Sprintf(`SELECT id, name, user_id FROM %s WHERE user_id = ? ORDER BY created_at, rowid`, table)
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	var out []named
	for rows.Next() {
		var n named
		if err := rows.Scan(&n.ID, &n.Name, &n.UserID); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) createNamed(ctx context.Context, table, userID, name string) (named, error) {
	query := fmt.Sprintf(`INSERT INTO %s (id, name, user_id) VALUES (?, ?, ?) RETURNING id, name, user_id`, table)
	return scanNamed(s.db.QueryRowContext(ctx, query, uuid.NewString(), name, userID))
}

func (s *Store) updateNamed(ctx context.Context, table, userID, id, name string) (named, error) {
	query := fmt.Sprintf(`UPDATE %s SET name = ? WHERE id = ? AND user_id = ? RETURNING id, name, user_id`, table)
	return scanNamed(s.db.QueryRowContext(ctx, query, name, id, userID))
}

func (s *Store) deleteNamed(ctx context.Context, table, userID, id string) (named, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ? AND user_id = ? RETURNING id, name, user_id`, table)
	return scanNamed(s.db.QueryRowContext(ctx, query, id, userID))
}

func scanNamed(row *sql.Row) (named, error) {
	var n named
	if err := row.Scan(&n.ID, &n.Name, &n.UserID); err != nil {
		return named{}, translate(err)
	}
	return n, nil
}

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

func (s *Store) CreateAccount(ctx context.Context, userID, name string) (models.Account, error) {
	n, err := s.createNamed(ctx, accountsTable, userID, name)
	return models.Account(n), err
}

func (s *Store) UpdateAccount(ctx context.Context, userID, id, name string) (models.Account, error) {
	n, err := s.updateNamed(ctx, accountsTable, userID, id, name)
	return models.Account(n), err
}

func (s *Store) DeleteAccount(ctx context.Context, userID, id string) (models.Account, error) {
	n, err := s.deleteNamed(ctx, accountsTable, userID, id)
	return models.Account(n), err
}

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

func (s *Store) CreateCategory(ctx context.Context, userID, name string) (models.Category, error) {
	n, err := s.createNamed(ctx, categoriesTable, userID, name)
	return models.Category(n), err
}

func (s *Store) UpdateCategory(ctx context.Context, userID, id, name string) (models.Category, error) {
	n, err := s.updateNamed(ctx, categoriesTable, userID, id, name)
	return models.Category(n), err
}

func (s *Store) DeleteCategory(ctx context.Context, userID, id string) (models.Category, error) {
	n, err := s.deleteNamed(ctx, categoriesTable, userID, id)
	return models.Category(n), err
}
