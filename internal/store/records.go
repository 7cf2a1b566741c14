package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"demonlist/internal/models"
	"demonlist/internal/scoring"

	"github.com/google/uuid"
)

const recordColumns = `id, user_id, level_id, progress, video_url, status, points, date_submitted`

func scanRecord(row scanner) (*models.Record, error) {
	r := &models.Record{}
	if err := row.Scan(
		&r.ID, &r.UserID, &r.LevelID, &r.Progress, &r.VideoURL, &r.Status, &r.Points, &r.DateSubmitted,
	); err != nil {
		return nil, classify(err)
	}
	return r, nil
}

// CreateRecord inserts a submission. New records start pending with no
// points; resubmitting for the same level adds another record.
func (db *DB) CreateRecord(ctx context.Context, r *models.Record) error {
	if r.Progress < 0 || r.Progress > 100 {
		return fmt.Errorf("%w: progress %d out of range", ErrInvalid, r.Progress)
	}
	if strings.TrimSpace(r.VideoURL) == "" {
		return fmt.Errorf("%w: video url is required", ErrInvalid)
	}
	if r.Status == "" {
		r.Status = models.StatusPending
	}
	if !r.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalid, r.Status)
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.DateSubmitted.IsZero() {
		r.DateSubmitted = time.Now().UTC()
	}
	if r.Status != models.StatusApproved {
		r.Points = 0
	}

	_, err := db.exec(ctx, db.sql, `
		INSERT INTO records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.UserID, r.LevelID, r.Progress, r.VideoURL, r.Status, r.Points, r.DateSubmitted)
	if err != nil {
		return fmt.Errorf("create record: %w", classify(err))
	}
	return nil
}

// GetRecord retrieves a record by id.
func (db *DB) GetRecord(ctx context.Context, id uuid.UUID) (*models.Record, error) {
	return db.getRecord(ctx, db.sql, id)
}

func (db *DB) getRecord(ctx context.Context, q querier, id uuid.UUID) (*models.Record, error) {
	r, err := scanRecord(db.queryRow(ctx, q, `SELECT `+recordColumns+` FROM records WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get record %s: %w", id, err)
	}
	return r, nil
}

// RecordFilter narrows ListRecords. Zero fields match everything.
type RecordFilter struct {
	UserID  *uuid.UUID
	LevelID *uuid.UUID
	Status  models.Status
}

// ListRecords returns matching records, newest first.
func (db *DB) ListRecords(ctx context.Context, f RecordFilter) ([]models.Record, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID != nil {
		where = append(where, "user_id = ?")
		args = append(args, *f.UserID)
	}
	if f.LevelID != nil {
		where = append(where, "level_id = ?")
		args = append(args, *f.LevelID)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}

	query := `SELECT ` + recordColumns + ` FROM records`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY date_submitted DESC, id`

	rows, err := db.query(ctx, db.sql, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

// Outcome is the result of a moderation decision.
type Outcome struct {
	Record *models.Record
	User   *models.User
	// Previous is the user's point total before the decision.
	Previous float64
}

// ApproveRecord marks a record approved, awards it the points its level is
// worth at its progress and recomputes the submitter's total.
func (db *DB) ApproveRecord(ctx context.Context, id uuid.UUID) (*Outcome, error) {
	return db.decide(ctx, id, models.StatusApproved)
}

// RejectRecord marks a record rejected, removing any points it held from the
// submitter's total.
func (db *DB) RejectRecord(ctx context.Context, id uuid.UUID) (*Outcome, error) {
	return db.decide(ctx, id, models.StatusRejected)
}

func (db *DB) decide(ctx context.Context, id uuid.UUID, status models.Status) (*Outcome, error) {
	var out *Outcome
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		r, err := db.getRecord(ctx, tx, id)
		if err != nil {
			return err
		}
		u, err := db.getUser(ctx, tx, `id = ?`, r.UserID)
		if err != nil {
			return err
		}

		var points float64
		if status == models.StatusApproved {
			l, err := db.getLevel(ctx, tx, r.LevelID)
			if err != nil {
				return err
			}
			points = scoring.RecordPoints(status, r.Progress, *l)
		}

		if _, err := db.exec(ctx, tx, `
			UPDATE records SET status = ?, points = ? WHERE id = ?
		`, status, points, id); err != nil {
			return fmt.Errorf("update record %s: %w", id, err)
		}

		var total sql.NullFloat64
		if err := db.queryRow(ctx, tx, `
			SELECT SUM(points) FROM records WHERE user_id = ? AND status = ?
		`, u.ID, models.StatusApproved).Scan(&total); err != nil {
			return fmt.Errorf("sum points of %s: %w", u.ID, err)
		}
		if _, err := db.exec(ctx, tx, `UPDATE users SET points = ? WHERE id = ?`, total.Float64, u.ID); err != nil {
			return fmt.Errorf("update points of %s: %w", u.ID, err)
		}

		out = &Outcome{Record: r, User: u, Previous: u.Points}
		r.Status, r.Points = status, points
		u.Points = total.Float64
		return nil
	})
	return out, err
}
