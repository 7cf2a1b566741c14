// Package seed loads the starter data set into the SQL store or MongoDB.
package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"demonlist/internal/decoder"
	"demonlist/internal/models"
	"demonlist/internal/scoring"

	"github.com/anandvarma/namegen"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// Fixtures is a seed data set. Records name their user and level instead of
// referring to ids.
type Fixtures struct {
	Users   []UserFixture   `yaml:"users"`
	Levels  []LevelFixture  `yaml:"levels"`
	Records []RecordFixture `yaml:"records"`
}

type UserFixture struct {
	Username string    `yaml:"username"`
	Email    string    `yaml:"email"`
	Password string    `yaml:"password"`
	GoogleID string    `yaml:"google_id"`
	IsAdmin  bool      `yaml:"is_admin"`
	Country  string    `yaml:"country"`
	Joined   time.Time `yaml:"joined"`
}

type LevelFixture struct {
	Name          string    `yaml:"name"`
	Creator       string    `yaml:"creator"`
	Verifier      string    `yaml:"verifier"`
	LevelID       string    `yaml:"level_id"`
	VideoURL      string    `yaml:"video_url"`
	ThumbnailURL  string    `yaml:"thumbnail_url"`
	Description   string    `yaml:"description"`
	Difficulty    float64   `yaml:"difficulty"`
	Position      int       `yaml:"position"`
	Legacy        bool      `yaml:"legacy"`
	Points        *float64  `yaml:"points"`
	MinPercentage *int      `yaml:"min_percentage"`
	Added         time.Time `yaml:"added"`
}

type RecordFixture struct {
	User      string        `yaml:"user"`
	Level     string        `yaml:"level"`
	Progress  int           `yaml:"progress"`
	VideoURL  string        `yaml:"video_url"`
	Status    models.Status `yaml:"status"`
	Submitted time.Time     `yaml:"submitted"`
}

// Level converts the fixture to a level at its own position.
func (f LevelFixture) Level() models.Level {
	return f.At(f.Position)
}

// At converts the fixture to a level placed at position, filling in the
// default points for that position and a 100% minimum when they are not
// given.
func (f LevelFixture) At(position int) models.Level {
	l := models.Level{
		Name:          f.Name,
		Creator:       f.Creator,
		Verifier:      f.Verifier,
		InGameID:      f.LevelID,
		VideoURL:      f.VideoURL,
		Description:   f.Description,
		Difficulty:    f.Difficulty,
		Position:      position,
		IsLegacy:      f.Legacy,
		Points:        scoring.LevelPoints(position, f.Legacy),
		MinPercentage: 100,
		DateAdded:     f.Added.UTC(),
	}
	if f.Points != nil {
		l.Points = *f.Points
	}
	if f.MinPercentage != nil {
		l.MinPercentage = *f.MinPercentage
	}
	if f.ThumbnailURL != "" {
		thumb := f.ThumbnailURL
		l.ThumbnailURL = &thumb
	}
	return l
}

// Load decodes fixtures strictly and checks that every record names a user
// and a level of the same set.
func Load(r io.Reader) (*Fixtures, error) {
	var f Fixtures
	if err := decoder.DecodeYAML(r, &f); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Default returns the built-in fixtures.
func Default() (*Fixtures, error) {
	return Load(bytes.NewReader(defaultFixtures))
}

func (f *Fixtures) validate() error {
	users := make(map[string]bool, len(f.Users))
	for _, u := range f.Users {
		if users[u.Username] {
			return fmt.Errorf("duplicate user %q in fixtures", u.Username)
		}
		users[u.Username] = true
	}
	levels := make(map[string]bool, len(f.Levels))
	for _, l := range f.Levels {
		if levels[l.Name] {
			return fmt.Errorf("duplicate level %q in fixtures", l.Name)
		}
		levels[l.Name] = true
	}
	for i, r := range f.Records {
		if !users[r.User] {
			return fmt.Errorf("record %d: unknown user %q", i+1, r.User)
		}
		if !levels[r.Level] {
			return fmt.Errorf("record %d: unknown level %q", i+1, r.Level)
		}
		if r.Status == "" {
			f.Records[i].Status = models.StatusPending
		} else if !r.Status.Valid() {
			return fmt.Errorf("record %d: unknown status %q", i+1, r.Status)
		}
	}
	return nil
}

// FakeUsers generates n players with gamertag usernames.
func FakeUsers(n int, r *rand.Rand) []UserFixture {
	schemas := [][]namegen.DictType{
		{namegen.Adjectives, namegen.Colors, namegen.Animals},
		{namegen.Adjectives, namegen.Animals},
		{namegen.Colors, namegen.Animals},
	}
	gens := make([]func() string, len(schemas))
	for i, s := range schemas {
		g := namegen.NewWithPostfixId(s, namegen.Numeric, 4)
		gens[i] = g.Get
	}

	seen := make(map[string]bool, n)
	users := make([]UserFixture, 0, n)
	for len(users) < n {
		name := gens[r.Intn(len(gens))]()
		if seen[name] {
			continue
		}
		seen[name] = true
		users = append(users, UserFixture{
			Username: name,
			Email:    strings.ToLower(name) + "@example.com",
			Password: "password123!",
			Joined:   time.Now().UTC(),
		})
	}
	return users
}
