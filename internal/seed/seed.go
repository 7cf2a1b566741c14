package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"demonlist/internal/models"
	"demonlist/internal/store"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Result counts what a seed run created.
type Result struct {
	Users   int
	Levels  int
	Records int
}

// Seeder writes fixtures into a store. Running it twice creates nothing the
// second time.
type Seeder struct {
	db   *store.DB
	log  *slog.Logger
	cost int
}

// New returns a seeder hashing passwords at bcrypt cost (0 means the
// default).
func New(db *store.DB, cost int, logger *slog.Logger) *Seeder {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{db: db, log: logger, cost: cost}
}

func hashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// User converts the fixture, hashing its password.
func (f UserFixture) User(cost int) (models.User, error) {
	hash, err := hashPassword(f.Password, cost)
	if err != nil {
		return models.User{}, err
	}
	u := models.User{
		Username:     f.Username,
		Email:        f.Email,
		PasswordHash: hash,
		IsAdmin:      f.IsAdmin,
		Country:      f.Country,
		DateJoined:   f.Joined.UTC(),
	}
	if f.GoogleID != "" {
		gid := f.GoogleID
		u.GoogleID = &gid
	}
	return u, nil
}

// Apply seeds users, then levels, then records. Records marked approved or
// rejected go through the same review path as live submissions, so user
// points come out of the scoring rules.
func (s *Seeder) Apply(ctx context.Context, f *Fixtures) (Result, error) {
	var res Result

	users := make(map[string]uuid.UUID, len(f.Users))
	for _, uf := range f.Users {
		existing, err := s.db.GetUserByUsername(ctx, uf.Username)
		switch {
		case err == nil:
			users[uf.Username] = existing.ID
			continue
		case !errors.Is(err, store.ErrNotFound):
			return res, err
		}

		u, err := uf.User(s.cost)
		if err != nil {
			return res, err
		}
		if err := s.db.CreateUser(ctx, &u); err != nil {
			return res, err
		}
		users[uf.Username] = u.ID
		res.Users++
		s.log.Info("user created", "username", u.Username, "admin", u.IsAdmin)
	}

	levels, sizes, err := s.levelsByName(ctx)
	if err != nil {
		return res, err
	}
	for _, lf := range f.Levels {
		if _, ok := levels[lf.Name]; ok {
			continue
		}
		l := lf.At(store.InsertPosition(lf.Position, sizes[lf.Legacy]))
		if err := s.db.CreateLevel(ctx, &l); err != nil {
			return res, err
		}
		levels[l.Name] = l.ID
		sizes[l.IsLegacy]++
		res.Levels++
		s.log.Info("level created", "name", l.Name, "position", l.Position, "legacy", l.IsLegacy)
	}

	for _, rf := range f.Records {
		userID, levelID := users[rf.User], levels[rf.Level]
		exists, err := s.recordExists(ctx, userID, levelID, rf.VideoURL)
		if err != nil {
			return res, err
		}
		if exists {
			continue
		}

		r := models.Record{
			UserID:        userID,
			LevelID:       levelID,
			Progress:      rf.Progress,
			VideoURL:      rf.VideoURL,
			DateSubmitted: rf.Submitted.UTC(),
		}
		if err := s.db.CreateRecord(ctx, &r); err != nil {
			return res, err
		}
		switch rf.Status {
		case models.StatusApproved:
			_, err = s.db.ApproveRecord(ctx, r.ID)
		case models.StatusRejected:
			_, err = s.db.RejectRecord(ctx, r.ID)
		}
		if err != nil {
			return res, err
		}
		res.Records++
		s.log.Info("record created", "user", rf.User, "level", rf.Level, "status", rf.Status)
	}

	return res, nil
}

// levelsByName indexes the stored levels by name and counts each list.
func (s *Seeder) levelsByName(ctx context.Context) (map[string]uuid.UUID, map[bool]int, error) {
	byName := make(map[string]uuid.UUID)
	sizes := make(map[bool]int, 2)
	for _, legacy := range []bool{false, true} {
		ls, err := s.db.ListLevels(ctx, legacy)
		if err != nil {
			return nil, nil, err
		}
		for _, l := range ls {
			byName[l.Name] = l.ID
		}
		sizes[legacy] = len(ls)
	}
	return byName, sizes, nil
}

func (s *Seeder) recordExists(ctx context.Context, userID, levelID uuid.UUID, videoURL string) (bool, error) {
	rs, err := s.db.ListRecords(ctx, store.RecordFilter{UserID: &userID, LevelID: &levelID})
	if err != nil {
		return false, err
	}
	for _, r := range rs {
		if r.VideoURL == videoURL {
			return true, nil
		}
	}
	return false, nil
}
