package account

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) CreateUser(user *User) error {
	_, err := r.db.Exec(
		"INSERT INTO users (id, username, public_key, created_at) VALUES ($1, $2, $3, $4)",
		user.ID, user.Username, user.PublicKey, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) GetUserByID(id uuid.UUID) (*User, error) {
	var user User
	err := r.db.QueryRow(
		"SELECT id, username, public_key, created_at FROM users WHERE id = $1",
		id,
	).Scan(&user.ID, &user.Username, &user.PublicKey, &user.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

func (r *postgresUserRepository) GetUserByUsername(username string) (*User, error) {
	var user User
	err := r.db.QueryRow(
		"SELECT id, username, public_key, created_at FROM users WHERE username = $1",
		username,
	).Scan(&user.ID, &user.Username, &user.PublicKey, &user.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}
