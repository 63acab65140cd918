package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/finance-be/internal/models"
)

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	now := time.Now().UTC().Truncate(time.Second)
	const query = `
		INSERT INTO users (id, email, name, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, email, name, password_hash`
	var created models.User
	err := s.db.QueryRowContext(ctx, query, uuid.NewString(), strings.ToLower(user.Email), user.Name, user.PasswordHash, now.Format(time.DateTime)).
		Scan(&created.ID, &created.Email, &created.Name, &created.PasswordHash)
	if err != nil {
		return models.User{}, translate(err)
	}
	created.CreatedAt = now
	return created, nil
}

// FindByEmail fetches a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT id, email, name, password_hash, created_at FROM users WHERE email = ?`
	var user models.User
	var createdAt string
	err := s.db.QueryRowContext(ctx, query, strings.ToLower(email)).
		Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &createdAt)
	if err != nil {
		return models.User{}, translate(err)
	}
	user.CreatedAt = parseTimestamp(createdAt)
	return user, nil
}
