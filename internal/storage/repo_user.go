package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type userRepository struct {
	db *sql.DB
}

// Authenticate matches username and password exactly, case sensitive, against
// the stored values. Credentials are compared verbatim: the registry stores
// plaintext passwords, a known weakness inherited from the original contract.
func (r *userRepository) Authenticate(ctx context.Context, username, password string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, password, full_name
		FROM users
		WHERE username = ? AND password = ?
	`, username, password)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("authenticate user: %w", err)
	}
	return user, nil
}

func (r *userRepository) Create(ctx context.Context, user *User) error {
	if user == nil {
		return fmt.Errorf("create user: user is nil")
	}
	if user.Username == "" {
		return fmt.Errorf("create user: username is required")
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO users(username, password, full_name)
		VALUES(?, ?, ?)
	`, user.Username, user.Password, user.FullName)
	if err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("create user %q: %w", user.Username, ErrConstraint)
		}
		return fmt.Errorf("create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create user: last insert id: %w", err)
	}
	user.ID = id
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, password, full_name
		FROM users
		WHERE id = ?
	`, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(scanner rowScanner) (*User, error) {
	var user User
	if err := scanner.Scan(&user.ID, &user.Username, &user.Password, &user.FullName); err != nil {
		return nil, err
	}
	return &user, nil
}
