package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"demonlist/internal/models"

	"github.com/google/uuid"
)

const userColumns = `id, username, email, google_id, password_hash, is_admin, points, country, date_joined`

func scanUser(row scanner) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.GoogleID, &u.PasswordHash,
		&u.IsAdmin, &u.Points, &u.Country, &u.DateJoined,
	); err != nil {
		return nil, classify(err)
	}
	return u, nil
}

func validateUser(u *models.User) error {
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalid)
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrInvalid)
	}
	// An empty external id means "absent" and must not take part in the
	// sparse unique index.
	if u.GoogleID != nil && *u.GoogleID == "" {
		u.GoogleID = nil
	}
	return nil
}

// CreateUser inserts u, filling in its id and join date when unset. A
// username, email or Google id collision yields a *UniqueViolation.
func (db *DB) CreateUser(ctx context.Context, u *models.User) error {
	if err := validateUser(u); err != nil {
		return err
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.DateJoined.IsZero() {
		u.DateJoined = time.Now().UTC()
	}

	_, err := db.exec(ctx, db.sql, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Username, u.Email, u.GoogleID, u.PasswordHash, u.IsAdmin, u.Points, u.Country, u.DateJoined)
	if err != nil {
		return fmt.Errorf("create user %s: %w", u.Username, classify(err))
	}
	return nil
}

// UpdateUser writes the identity and profile fields of u. Points are owned
// by moderation and are left untouched.
func (db *DB) UpdateUser(ctx context.Context, u *models.User) error {
	if err := validateUser(u); err != nil {
		return err
	}
	res, err := db.exec(ctx, db.sql, `
		UPDATE users
		SET username = ?, email = ?, google_id = ?, password_hash = ?, is_admin = ?, country = ?
		WHERE id = ?
	`, u.Username, u.Email, u.GoogleID, u.PasswordHash, u.IsAdmin, u.Country, u.ID)
	if err != nil {
		return fmt.Errorf("update user %s: %w", u.ID, classify(err))
	}
	return expectOne(res, "user", u.ID)
}

// SetAdmin flips the administrator flag of a user.
func (db *DB) SetAdmin(ctx context.Context, id uuid.UUID, admin bool) error {
	res, err := db.exec(ctx, db.sql, `UPDATE users SET is_admin = ? WHERE id = ?`, admin, id)
	if err != nil {
		return fmt.Errorf("set admin %s: %w", id, err)
	}
	return expectOne(res, "user", id)
}

// GetUser retrieves a user by id.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return db.getUser(ctx, db.sql, `id = ?`, id)
}

// GetUserByUsername retrieves a user by exact username.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return db.getUser(ctx, db.sql, `username = ?`, username)
}

// GetUserByGoogleID retrieves the user linked to a Google account.
func (db *DB) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return db.getUser(ctx, db.sql, `google_id = ?`, googleID)
}

func (db *DB) getUser(ctx context.Context, q querier, where string, arg any) (*models.User, error) {
	u, err := scanUser(db.queryRow(ctx, q, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if err != nil {
		return nil, fmt.Errorf("get user %v: %w", arg, err)
	}
	return u, nil
}

// ListUsers returns every user in join order.
func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	return db.listUsers(ctx, `SELECT `+userColumns+` FROM users ORDER BY date_joined, username`)
}

// TopPlayers returns up to limit users with points, best first.
func (db *DB) TopPlayers(ctx context.Context, limit int) ([]models.User, error) {
	return db.listUsers(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE points > 0
		ORDER BY points DESC, username
		LIMIT ?
	`, limit)
}

func (db *DB) listUsers(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := db.query(ctx, db.sql, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func expectOne(res interface{ RowsAffected() (int64, error) }, what string, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return nil
}
