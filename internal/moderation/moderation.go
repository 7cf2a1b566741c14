// Package moderation reviews submitted records and keeps player standings in
// step with the decisions.
package moderation

import (
	"context"
	"fmt"
	"log/slog"

	"demonlist/internal/models"
	"demonlist/internal/store"

	"github.com/google/uuid"
)

// Store is the persistence the service needs.
type Store interface {
	CreateRecord(ctx context.Context, r *models.Record) error
	ListRecords(ctx context.Context, f store.RecordFilter) ([]models.Record, error)
	ApproveRecord(ctx context.Context, id uuid.UUID) (*store.Outcome, error)
	RejectRecord(ctx context.Context, id uuid.UUID) (*store.Outcome, error)
	DeleteLevel(ctx context.Context, id uuid.UUID) ([]store.Adjustment, error)
}

// Publisher receives every change to a player's point total.
type Publisher interface {
	Apply(ctx context.Context, u models.User, previous float64) error
}

type Service struct {
	store Store
	board Publisher
	log   *slog.Logger
}

// NewService returns a service over st. board may be nil when no
// leaderboard is configured.
func NewService(st Store, board Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, board: board, log: logger}
}

// Submit files a new pending record. Every submission is a new record, even
// for a level the player already has a record on; superseding older ones is
// left to the moderators.
func (s *Service) Submit(ctx context.Context, r *models.Record) error {
	r.Status = models.StatusPending
	if err := s.store.CreateRecord(ctx, r); err != nil {
		return fmt.Errorf("submit record: %w", err)
	}
	s.log.Info("record submitted", "record", r.ID, "user", r.UserID, "level", r.LevelID, "progress", r.Progress)
	return nil
}

// Pending lists the records awaiting review.
func (s *Service) Pending(ctx context.Context) ([]models.Record, error) {
	return s.store.ListRecords(ctx, store.RecordFilter{Status: models.StatusPending})
}

// Approve accepts a record and awards its points.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*store.Outcome, error) {
	out, err := s.store.ApproveRecord(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("approve record: %w", err)
	}
	s.publish(ctx, out)
	return out, nil
}

// Reject turns a record down, withdrawing any points it held.
func (s *Service) Reject(ctx context.Context, id uuid.UUID) (*store.Outcome, error) {
	out, err := s.store.RejectRecord(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reject record: %w", err)
	}
	s.publish(ctx, out)
	return out, nil
}

// DeleteLevel removes a level with its records and moves every player who
// lost points on it down the leaderboard.
func (s *Service) DeleteLevel(ctx context.Context, id uuid.UUID) ([]store.Adjustment, error) {
	adjusted, err := s.store.DeleteLevel(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete level: %w", err)
	}
	s.log.Info("level deleted", "level", id, "players", len(adjusted))
	for _, a := range adjusted {
		s.publishTotal(ctx, *a.User, a.Previous)
	}
	return adjusted, nil
}

// publish pushes the new total to the leaderboard. The database stays the
// source of truth, so a failure is logged and the board can be rebuilt.
func (s *Service) publish(ctx context.Context, out *store.Outcome) {
	s.log.Info("record reviewed",
		"record", out.Record.ID,
		"status", out.Record.Status,
		"points", out.Record.Points,
		"user", out.User.Username,
		"total", out.User.Points,
	)
	s.publishTotal(ctx, *out.User, out.Previous)
}

func (s *Service) publishTotal(ctx context.Context, u models.User, previous float64) {
	if s.board == nil {
		return
	}
	if err := s.board.Apply(ctx, u, previous); err != nil {
		s.log.Error("failed to update leaderboard", "user", u.Username, "error", err)
	}
}
