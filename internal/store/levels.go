package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"demonlist/internal/models"

	"github.com/google/uuid"
)

const levelColumns = `id, name, creator, verifier, level_id, video_url, thumbnail_url, description,
	difficulty, position, is_legacy, points, min_percentage, date_added`

func scanLevel(row scanner) (*models.Level, error) {
	l := &models.Level{}
	if err := row.Scan(
		&l.ID, &l.Name, &l.Creator, &l.Verifier, &l.InGameID, &l.VideoURL, &l.ThumbnailURL, &l.Description,
		&l.Difficulty, &l.Position, &l.IsLegacy, &l.Points, &l.MinPercentage, &l.DateAdded,
	); err != nil {
		return nil, classify(err)
	}
	return l, nil
}

func validateLevel(l *models.Level) error {
	switch {
	case strings.TrimSpace(l.Name) == "":
		return fmt.Errorf("%w: level name is required", ErrInvalid)
	case strings.TrimSpace(l.Creator) == "":
		return fmt.Errorf("%w: creator is required", ErrInvalid)
	case strings.TrimSpace(l.Verifier) == "":
		return fmt.Errorf("%w: verifier is required", ErrInvalid)
	case l.MinPercentage < 0 || l.MinPercentage > 100:
		return fmt.Errorf("%w: min percentage %d out of range", ErrInvalid, l.MinPercentage)
	}
	if l.ThumbnailURL != nil && *l.ThumbnailURL == "" {
		l.ThumbnailURL = nil
	}
	return nil
}

// listSize counts the levels of the main or legacy list.
func (db *DB) listSize(ctx context.Context, q querier, legacy bool) (int, error) {
	var n int
	err := db.queryRow(ctx, q, `SELECT COUNT(*) FROM levels WHERE is_legacy = ?`, legacy).Scan(&n)
	return n, err
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// InsertPosition is where a level asked to go to position lands in a list
// of n levels: positions outside 1..n+1 append.
func InsertPosition(position, n int) int {
	if position < 1 || position > n+1 {
		return n + 1
	}
	return position
}

// CreateLevel inserts l at its position in its list, shifting the levels at
// or below that position down by one. Positions outside 1..n+1 append.
func (db *DB) CreateLevel(ctx context.Context, l *models.Level) error {
	if err := validateLevel(l); err != nil {
		return err
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.DateAdded.IsZero() {
		l.DateAdded = time.Now().UTC()
	}

	return db.withTx(ctx, func(tx *sql.Tx) error {
		n, err := db.listSize(ctx, tx, l.IsLegacy)
		if err != nil {
			return fmt.Errorf("count levels: %w", err)
		}
		l.Position = InsertPosition(l.Position, n)

		if _, err := db.exec(ctx, tx, `
			UPDATE levels SET position = position + 1
			WHERE is_legacy = ? AND position >= ?
		`, l.IsLegacy, l.Position); err != nil {
			return fmt.Errorf("shift levels: %w", err)
		}

		if _, err := db.exec(ctx, tx, `
			INSERT INTO levels (`+levelColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, l.ID, l.Name, l.Creator, l.Verifier, l.InGameID, l.VideoURL, l.ThumbnailURL, l.Description,
			l.Difficulty, l.Position, l.IsLegacy, l.Points, l.MinPercentage, l.DateAdded); err != nil {
			return fmt.Errorf("create level %s: %w", l.Name, classify(err))
		}
		return nil
	})
}

// GetLevel retrieves a level by id.
func (db *DB) GetLevel(ctx context.Context, id uuid.UUID) (*models.Level, error) {
	return db.getLevel(ctx, db.sql, id)
}

func (db *DB) getLevel(ctx context.Context, q querier, id uuid.UUID) (*models.Level, error) {
	l, err := scanLevel(db.queryRow(ctx, q, `SELECT `+levelColumns+` FROM levels WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get level %s: %w", id, err)
	}
	return l, nil
}

// ListLevels returns the main or legacy list in position order.
func (db *DB) ListLevels(ctx context.Context, legacy bool) ([]models.Level, error) {
	rows, err := db.query(ctx, db.sql, `
		SELECT `+levelColumns+` FROM levels
		WHERE is_legacy = ?
		ORDER BY position, date_added
	`, legacy)
	if err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	defer rows.Close()

	var levels []models.Level
	for rows.Next() {
		l, err := scanLevel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan level: %w", err)
		}
		levels = append(levels, *l)
	}
	return levels, rows.Err()
}

// UpdateLevel writes the descriptive fields of l. Position and list
// membership change only through MoveLevel, MoveToLegacy and MoveToMain.
func (db *DB) UpdateLevel(ctx context.Context, l *models.Level) error {
	if err := validateLevel(l); err != nil {
		return err
	}
	res, err := db.exec(ctx, db.sql, `
		UPDATE levels
		SET name = ?, creator = ?, verifier = ?, level_id = ?, video_url = ?, thumbnail_url = ?,
		    description = ?, difficulty = ?, points = ?, min_percentage = ?
		WHERE id = ?
	`, l.Name, l.Creator, l.Verifier, l.InGameID, l.VideoURL, l.ThumbnailURL,
		l.Description, l.Difficulty, l.Points, l.MinPercentage, l.ID)
	if err != nil {
		return fmt.Errorf("update level %s: %w", l.ID, classify(err))
	}
	return expectOne(res, "level", l.ID)
}

// MoveLevel moves a level to newPosition within its own list, shifting the
// levels in between by one. The target is clamped to 1..n.
func (db *DB) MoveLevel(ctx context.Context, id uuid.UUID, newPosition int) (*models.Level, error) {
	var moved *models.Level
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		l, err := db.getLevel(ctx, tx, id)
		if err != nil {
			return err
		}
		n, err := db.listSize(ctx, tx, l.IsLegacy)
		if err != nil {
			return fmt.Errorf("count levels: %w", err)
		}
		target := clamp(newPosition, 1, n)

		switch {
		case target > l.Position:
			_, err = db.exec(ctx, tx, `
				UPDATE levels SET position = position - 1
				WHERE is_legacy = ? AND position > ? AND position <= ?
			`, l.IsLegacy, l.Position, target)
		case target < l.Position:
			_, err = db.exec(ctx, tx, `
				UPDATE levels SET position = position + 1
				WHERE is_legacy = ? AND position >= ? AND position < ?
			`, l.IsLegacy, target, l.Position)
		}
		if err != nil {
			return fmt.Errorf("shift levels: %w", err)
		}

		if _, err := db.exec(ctx, tx, `UPDATE levels SET position = ? WHERE id = ?`, target, id); err != nil {
			return fmt.Errorf("move level %s: %w", id, err)
		}
		l.Position = target
		moved = l
		return nil
	})
	return moved, err
}

// MoveToLegacy appends a main-list level to the end of the legacy list and
// closes the gap it leaves behind.
func (db *DB) MoveToLegacy(ctx context.Context, id uuid.UUID) (*models.Level, error) {
	var moved *models.Level
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		l, err := db.getLevel(ctx, tx, id)
		if err != nil {
			return err
		}
		if l.IsLegacy {
			return fmt.Errorf("%w: level %s is already legacy", ErrInvalid, id)
		}
		n, err := db.listSize(ctx, tx, true)
		if err != nil {
			return fmt.Errorf("count legacy levels: %w", err)
		}

		if _, err := db.exec(ctx, tx, `
			UPDATE levels SET is_legacy = ?, position = ? WHERE id = ?
		`, true, n+1, id); err != nil {
			return fmt.Errorf("move level %s to legacy: %w", id, err)
		}
		if _, err := db.exec(ctx, tx, `
			UPDATE levels SET position = position - 1
			WHERE is_legacy = ? AND position > ?
		`, false, l.Position); err != nil {
			return fmt.Errorf("shift main list: %w", err)
		}

		l.IsLegacy, l.Position = true, n+1
		moved = l
		return nil
	})
	return moved, err
}

// MoveToMain inserts a legacy level into the main list at position, shifting
// the main list down and closing the gap in the legacy list.
func (db *DB) MoveToMain(ctx context.Context, id uuid.UUID, position int) (*models.Level, error) {
	var moved *models.Level
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		l, err := db.getLevel(ctx, tx, id)
		if err != nil {
			return err
		}
		if !l.IsLegacy {
			return fmt.Errorf("%w: level %s is already on the main list", ErrInvalid, id)
		}
		n, err := db.listSize(ctx, tx, false)
		if err != nil {
			return fmt.Errorf("count main levels: %w", err)
		}
		target := clamp(position, 1, n+1)

		if _, err := db.exec(ctx, tx, `
			UPDATE levels SET position = position + 1
			WHERE is_legacy = ? AND position >= ?
		`, false, target); err != nil {
			return fmt.Errorf("shift main list: %w", err)
		}
		if _, err := db.exec(ctx, tx, `
			UPDATE levels SET is_legacy = ?, position = ? WHERE id = ?
		`, false, target, id); err != nil {
			return fmt.Errorf("move level %s to main: %w", id, err)
		}
		if _, err := db.exec(ctx, tx, `
			UPDATE levels SET position = position - 1
			WHERE is_legacy = ? AND position > ?
		`, true, l.Position); err != nil {
			return fmt.Errorf("shift legacy list: %w", err)
		}

		l.IsLegacy, l.Position = false, target
		moved = l
		return nil
	})
	return moved, err
}

// Adjustment is a user whose total changed as a side effect of a list
// edit, with the total it had before.
type Adjustment struct {
	User     *models.User
	Previous float64
}

// DeleteLevel removes a level and its records. Users lose the points their
// approved records on it earned, never dropping below zero, and the list
// closes the gap. It returns the users whose totals changed.
func (db *DB) DeleteLevel(ctx context.Context, id uuid.UUID) ([]Adjustment, error) {
	var adjusted []Adjustment
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		l, err := db.getLevel(ctx, tx, id)
		if err != nil {
			return err
		}

		rows, err := db.query(ctx, tx, `
			SELECT user_id, SUM(points) FROM records
			WHERE level_id = ? AND status = ? AND points > 0
			GROUP BY user_id
		`, id, models.StatusApproved)
		if err != nil {
			return fmt.Errorf("load records of level %s: %w", id, err)
		}
		type award struct {
			user   uuid.UUID
			points float64
		}
		var awards []award
		for rows.Next() {
			var a award
			if err := rows.Scan(&a.user, &a.points); err != nil {
				rows.Close()
				return fmt.Errorf("scan record: %w", err)
			}
			awards = append(awards, a)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, a := range awards {
			u, err := db.getUser(ctx, tx, `id = ?`, a.user)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if _, err := db.exec(ctx, tx, `
				UPDATE users
				SET points = CASE WHEN points - ? > 0 THEN points - ? ELSE 0 END
				WHERE id = ?
			`, a.points, a.points, a.user); err != nil {
				return fmt.Errorf("deduct points from %s: %w", a.user, err)
			}
			previous := u.Points
			u.Points = max(previous-a.points, 0)
			adjusted = append(adjusted, Adjustment{User: u, Previous: previous})
		}

		if _, err := db.exec(ctx, tx, `DELETE FROM records WHERE level_id = ?`, id); err != nil {
			return fmt.Errorf("delete records of level %s: %w", id, err)
		}
		if _, err := db.exec(ctx, tx, `DELETE FROM levels WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete level %s: %w", id, err)
		}
		if _, err := db.exec(ctx, tx, `
			UPDATE levels SET position = position - 1
			WHERE is_legacy = ? AND position > ?
		`, l.IsLegacy, l.Position); err != nil {
			return fmt.Errorf("shift levels: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return adjusted, nil
}
