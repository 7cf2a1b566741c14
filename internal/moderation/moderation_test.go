package moderation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"demonlist/internal/leaderboard"
	"demonlist/internal/models"
	"demonlist/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc   *Service
	db    *store.DB
	board *leaderboard.Board
	user  *models.User
	level *models.Level
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := store.Open(ctx, "sqlite", ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(ctx))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	board := leaderboard.New(client)

	u := &models.User{Username: "player1", Email: "player1@example.com", Country: "US"}
	require.NoError(t, db.CreateUser(ctx, u))
	l := &models.Level{Name: "Bloodbath", Creator: "Riot", Verifier: "Riot", Difficulty: 10, Position: 1, Points: 10, MinPercentage: 100}
	require.NoError(t, db.CreateLevel(ctx, l))

	return fixture{svc: NewService(db, board, logger), db: db, board: board, user: u, level: l}
}

func TestApprovePublishesToLeaderboard(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	r := &models.Record{UserID: f.user.ID, LevelID: f.level.ID, Progress: 100, VideoURL: "https://youtu.be/x"}
	require.NoError(t, f.svc.Submit(ctx, r))

	pending, err := f.svc.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	out, err := f.svc.Approve(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, out.User.Points)

	top, err := f.board.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, leaderboard.Entry{Username: "player1", Points: 10, Rank: 1}, top[0])

	countries, err := f.board.Countries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, countries, 1)
	assert.Equal(t, "United States", countries[0].Name)

	_, err = f.svc.Reject(ctx, r.ID)
	require.NoError(t, err)
	top, err = f.board.Top(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, top)

	pending, err = f.svc.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDeleteLevelPublishesToLeaderboard(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	r := &models.Record{UserID: f.user.ID, LevelID: f.level.ID, Progress: 100, VideoURL: "https://youtu.be/x"}
	require.NoError(t, f.svc.Submit(ctx, r))
	_, err := f.svc.Approve(ctx, r.ID)
	require.NoError(t, err)

	adjusted, err := f.svc.DeleteLevel(ctx, f.level.ID)
	require.NoError(t, err)
	require.Len(t, adjusted, 1)
	assert.Equal(t, 10.0, adjusted[0].Previous)

	u, err := f.db.GetUser(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Zero(t, u.Points)

	top, err := f.board.Top(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, top)

	countryTop, err := f.board.CountryTop(ctx, "US", 10)
	require.NoError(t, err)
	assert.Empty(t, countryTop)

	countries, err := f.board.Countries(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, countries)
}

func TestResubmissionAddsRecord(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	first := &models.Record{UserID: f.user.ID, LevelID: f.level.ID, Progress: 60, VideoURL: "https://youtu.be/a"}
	require.NoError(t, f.svc.Submit(ctx, first))
	_, err := f.svc.Reject(ctx, first.ID)
	require.NoError(t, err)

	second := &models.Record{UserID: f.user.ID, LevelID: f.level.ID, Progress: 100, VideoURL: "https://youtu.be/b"}
	require.NoError(t, f.svc.Submit(ctx, second))

	records, err := f.db.ListRecords(ctx, store.RecordFilter{UserID: &f.user.ID})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestApproveUnknownRecord(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Approve(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

type failingBoard struct{ calls int }

func (b *failingBoard) Apply(context.Context, models.User, float64) error {
	b.calls++
	return errors.New("redis down")
}

func TestLeaderboardFailureDoesNotFailApproval(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	board := &failingBoard{}
	svc := NewService(f.db, board, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := &models.Record{UserID: f.user.ID, LevelID: f.level.ID, Progress: 100, VideoURL: "https://youtu.be/x"}
	require.NoError(t, svc.Submit(ctx, r))
	out, err := svc.Approve(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, out.Record.Status)
	assert.Equal(t, 1, board.calls)
}
