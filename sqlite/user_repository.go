package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roster-app/roster/core"
)

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db}
}

// Sqlite implementation of the core UserRepository port.
type UserRepository struct {
	db *DB
}

// Force struct to implement the core interface
var _ core.UserRepository = &UserRepository{}

const userColumns = "id, name, email, role, status, created_at"

// ListUsers implements core.UserRepository.
func (r *UserRepository) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := r.db.QueryContext(
		ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id",
	)
	if err != nil {
		return nil, convertSqliteError(err)
	}
	defer rows.Close()

	users := []core.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, convertSqliteError(err)
	}
	return users, nil
}

// GetUser implements core.UserRepository.
func (r *UserRepository) GetUser(ctx context.Context, id core.UserID) (*core.User, error) {
	row := r.db.QueryRowContext(
		ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?",
		int64(id),
	)
	return scanUser(row)
}

// CreateUser implements core.UserRepository.
func (r *UserRepository) CreateUser(ctx context.Context, data core.NewUser) (core.UserID, error) {
	if data.Email == nil {
		return 0, errors.Join(core.ErrInvalidInput, core.ErrInvalidEmailAddress)
	}
	result, err := r.db.ExecContext(
		ctx,
		"INSERT INTO users (name, email, role, status, created_at) VALUES (?, ?, ?, ?, ?)",
		data.Name,
		data.Email.String(),
		data.Role.String(),
		core.StatusActive.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, convertSqliteError(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, convertSqliteError(err)
	}
	return core.UserID(id), nil
}

// UpdateUser implements core.UserRepository.
// This replaces every stored field except id and created_at.
func (r *UserRepository) UpdateUser(ctx context.Context, user *core.User) error {
	if user == nil {
		return errors.Join(core.ErrInvalidInput, errors.New("user cannot be nil"))
	}
	if user.Email == nil {
		return errors.Join(core.ErrInvalidInput, core.ErrInvalidEmailAddress)
	}
	result, err := r.db.ExecContext(
		ctx,
		"UPDATE users SET name = ?, email = ?, role = ?, status = ? WHERE id = ?",
		user.Name,
		user.Email.String(),
		user.Role.String(),
		user.Status.String(),
		int64(user.ID),
	)
	if err != nil {
		return convertSqliteError(err)
	}
	return checkAffected(result, user.ID)
}

// DeleteUser implements core.UserRepository.
// Deleting an id that does not exist returns core.ErrNotFound.
func (r *UserRepository) DeleteUser(ctx context.Context, id core.UserID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", int64(id))
	if err != nil {
		return convertSqliteError(err)
	}
	return checkAffected(result, id)
}

// CountUsers implements core.UserRepository.
func (r *UserRepository) CountUsers(ctx context.Context) (int64, error) {
	var amount int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&amount)
	if err != nil {
		return 0, convertSqliteError(err)
	}
	return amount, nil
}

func checkAffected(result sql.Result, id core.UserID) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return convertSqliteError(err)
	}
	if affected == 0 {
		return errors.Join(core.ErrNotFound, fmt.Errorf("no user with id %v", id))
	}
	return nil
}

type row interface {
	Scan(dest ...any) error
}

func scanUser(r row) (*core.User, error) {
	var (
		id        int64
		name      string
		email     string
		role      string
		status    string
		createdAt string
	)
	if err := r.Scan(&id, &name, &email, &role, &status, &createdAt); err != nil {
		return nil, convertSqliteError(err)
	}

	address, err := core.ParseEmailAddress(email)
	if err != nil {
		// A stored address that no longer parses means the row was written
		// outside the application.
		return nil, errors.Join(core.ErrInvalidOperation, err)
	}
	timestamp, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, errors.Join(
			core.ErrInvalidOperation,
			fmt.Errorf("malformed created_at for user %d: %w", id, err),
		)
	}

	return &core.User{
		ID:        core.UserID(id),
		Name:      name,
		Email:     address,
		Role:      core.ParseRole(role),
		Status:    core.ParseStatus(status),
		CreatedAt: timestamp.UTC(),
	}, nil
}
