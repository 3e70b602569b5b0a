package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/OscarGAV/eventrely-backend/internal/model"
)

// userRow mirrors the 'users' table.
type userRow struct {
	ID           uint64
	Username     string
	Email        string
	PasswordHash string
	FullName     sql.NullString
	Role         string
	IsActive     bool
	CreatedAt    sql.NullTime
	UpdatedAt    sql.NullTime
}

func (r userRow) toModel() *model.User {
	return &model.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		FullName:     stringPtr(r.FullName),
		Role:         model.Role(r.Role),
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt.Time,
		UpdatedAt:    r.UpdatedAt.Time,
	}
}

const userColumns = "id,username,email,password_hash,full_name,role,is_active,created_at,updated_at"

// UserRepo manages persistence for users.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo constructs a UserRepo with the given DB handle.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts u and stores the generated id back on it.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username,email,password_hash,full_name,role,is_active,created_at,updated_at) VALUES (?,?,?,?,?,?,?,?)",
		u.Username, u.Email, u.PasswordHash, nullString(u.FullName), string(u.Role), u.IsActive, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// Update writes the mutable columns of u. Username and role never change.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET email=?, password_hash=?, full_name=?, is_active=?, updated_at=? WHERE id=?",
		u.Email, u.PasswordHash, nullString(u.FullName), u.IsActive, u.UpdatedAt, u.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *UserRepo) getOne(ctx context.Context, where string, args ...any) (*model.User, error) {
	var row userRow
	err := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+where+" LIMIT 1", args...).
		Scan(&row.ID, &row.Username, &row.Email, &row.PasswordHash, &row.FullName, &row.Role, &row.IsActive, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return row.toModel(), nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.getOne(ctx, "id=?", id)
}

// GetByUsername fetches a user by normalized username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, "username=?", model.NormalizeIdentifier(username))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, "email=?", model.NormalizeIdentifier(email))
}

// GetByUsernameOrEmail resolves a sign-in identifier in a single query.
func (r *UserRepo) GetByUsernameOrEmail(ctx context.Context, ident string) (*model.User, error) {
	ident = model.NormalizeIdentifier(ident)
	return r.getOne(ctx, "username=? OR email=?", ident, ident)
}

func (r *UserRepo) exists(ctx context.Context, column, value string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE "+column+"=? LIMIT 1", model.NormalizeIdentifier(value)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username", username)
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email)
}

// ListAll returns every user, newest first.
func (r *UserRepo) ListAll(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.User
	for rows.Next() {
		var row userRow
		if err := rows.Scan(&row.ID, &row.Username, &row.Email, &row.PasswordHash, &row.FullName, &row.Role, &row.IsActive, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, row.toModel())
	}
	return out, rows.Err()
}
