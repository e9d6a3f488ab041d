package repo

import (
	"context"
	"database/sql"
	"errors"

	"zanatli/internal/domain"
)

type Repo struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullableStringPtr(v *string) any {
	if v == nil {
		return nil
	}
	if *v == "" {
		return nil
	}
	return *v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (r Repo) InsertUser(ctx context.Context, tx *sql.Tx, u domain.User) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO users(id,email,password_hash,is_client,is_contractor,active_role,created_at) VALUES (?,?,?,?,?,?,?)`,
		u.ID, u.Email, u.PasswordHash, boolToInt(u.IsClient), boolToInt(u.IsContractor), u.ActiveRole, u.CreatedAt)
	return err
}

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	var isClient, isContractor int
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &isClient, &isContractor, &u.ActiveRole, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	u.IsClient = isClient != 0
	u.IsContractor = isContractor != 0
	return u, err
}

const userColumns = `id,email,password_hash,is_client,is_contractor,active_role,created_at`

func (r Repo) GetUser(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id=?`, id))
}

func (r Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email=?`, email))
}

func (r Repo) UpdateUserRoles(ctx context.Context, tx *sql.Tx, u domain.User) error {
	res, err := tx.ExecContext(ctx, `UPDATE users SET is_client=?, is_contractor=?, active_role=? WHERE id=?`,
		boolToInt(u.IsClient), boolToInt(u.IsContractor), u.ActiveRole, u.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.User
	for rows.Next() {
		var u domain.User
		var isClient, isContractor int
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &isClient, &isContractor, &u.ActiveRole, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.IsClient = isClient != 0
		u.IsContractor = isContractor != 0
		res = append(res, u)
	}
	return res, rows.Err()
}
