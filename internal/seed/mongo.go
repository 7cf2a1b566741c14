package seed

import (
	"context"
	"fmt"
	"time"

	"demonlist/internal/models"
	"demonlist/internal/scoring"
	"demonlist/internal/store"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDoc struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	GoogleID     *string   `bson:"google_id,omitempty"`
	PasswordHash string    `bson:"password_hash"`
	IsAdmin      bool      `bson:"is_admin"`
	Points       float64   `bson:"points"`
	Country      string    `bson:"country,omitempty"`
	DateJoined   time.Time `bson:"date_joined"`
}

type levelDoc struct {
	ID            string    `bson:"_id"`
	Name          string    `bson:"name"`
	Creator       string    `bson:"creator"`
	Verifier      string    `bson:"verifier"`
	LevelID       string    `bson:"level_id,omitempty"`
	VideoURL      string    `bson:"video_url,omitempty"`
	ThumbnailURL  *string   `bson:"thumbnail_url,omitempty"`
	Description   string    `bson:"description,omitempty"`
	Difficulty    float64   `bson:"difficulty"`
	Position      int       `bson:"position"`
	IsLegacy      bool      `bson:"is_legacy"`
	Points        float64   `bson:"points"`
	MinPercentage int       `bson:"min_percentage"`
	DateAdded     time.Time `bson:"date_added"`
}

type recordDoc struct {
	ID            string        `bson:"_id"`
	UserID        string        `bson:"user_id"`
	LevelID       string        `bson:"level_id"`
	Progress      int           `bson:"progress"`
	VideoURL      string        `bson:"video_url"`
	Status        models.Status `bson:"status"`
	Points        float64       `bson:"points"`
	DateSubmitted time.Time     `bson:"date_submitted"`
}

// MongoIndexModels translates the store's index catalog into index models
// per collection, so both backends enforce the same uniqueness.
func MongoIndexModels() map[string][]mongo.IndexModel {
	out := make(map[string][]mongo.IndexModel)
	for _, idx := range store.Indexes() {
		keys := bson.D{}
		for _, c := range idx.Columns {
			keys = append(keys, bson.E{Key: c, Value: 1})
		}
		opts := options.Index().SetName(idx.Name())
		if idx.Unique {
			opts.SetUnique(true)
		}
		if idx.Sparse {
			opts.SetSparse(true)
		}
		out[idx.Table] = append(out[idx.Table], mongo.IndexModel{Keys: keys, Options: opts})
	}
	return out
}

// EnsureMongoIndexes creates the catalog indexes. Existing indexes with the
// same definition are left alone by the server.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	for coll, ims := range MongoIndexModels() {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, ims); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}
	return nil
}

// upsert inserts doc unless a document matches filter, and returns the _id
// of whichever document is stored.
func upsert(ctx context.Context, coll *mongo.Collection, filter bson.D, doc any) (string, bool, error) {
	res, err := coll.UpdateOne(ctx, filter, bson.D{{Key: "$setOnInsert", Value: doc}}, options.Update().SetUpsert(true))
	if err != nil {
		return "", false, fmt.Errorf("upsert into %s: %w", coll.Name(), err)
	}
	if res.UpsertedID != nil {
		id, _ := res.UpsertedID.(string)
		return id, true, nil
	}

	var existing struct {
		ID string `bson:"_id"`
	}
	if err := coll.FindOne(ctx, filter).Decode(&existing); err != nil {
		return "", false, fmt.Errorf("find in %s: %w", coll.Name(), err)
	}
	return existing.ID, false, nil
}

// ApplyMongo seeds a MongoDB database with the same fixtures. Existing
// documents are matched on username, level name and (user, level, video).
// User points are recomputed from their approved records afterwards.
func (s *Seeder) ApplyMongo(ctx context.Context, db *mongo.Database, f *Fixtures) (Result, error) {
	var res Result
	if err := EnsureMongoIndexes(ctx, db); err != nil {
		return res, err
	}

	usersColl := db.Collection("users")
	users := make(map[string]string, len(f.Users))
	for _, uf := range f.Users {
		u, err := uf.User(s.cost)
		if err != nil {
			return res, err
		}
		doc := userDoc{
			ID:           uuid.NewString(),
			Username:     u.Username,
			Email:        u.Email,
			GoogleID:     u.GoogleID,
			PasswordHash: u.PasswordHash,
			IsAdmin:      u.IsAdmin,
			Country:      u.Country,
			DateJoined:   u.DateJoined,
		}
		id, created, err := upsert(ctx, usersColl, bson.D{{Key: "username", Value: u.Username}}, doc)
		if err != nil {
			return res, err
		}
		users[uf.Username] = id
		if created {
			res.Users++
			s.log.Info("user created", "username", u.Username, "backend", "mongo")
		}
	}

	levelsColl := db.Collection("levels")
	sizes := make(map[bool]int, 2)
	for _, legacy := range []bool{false, true} {
		n, err := levelsColl.CountDocuments(ctx, bson.D{{Key: "is_legacy", Value: legacy}})
		if err != nil {
			return res, fmt.Errorf("count levels: %w", err)
		}
		sizes[legacy] = int(n)
	}
	levels := make(map[string]models.Level, len(f.Levels))
	for _, lf := range f.Levels {
		l := lf.At(store.InsertPosition(lf.Position, sizes[lf.Legacy]))
		doc := levelDoc{
			ID:            uuid.NewString(),
			Name:          l.Name,
			Creator:       l.Creator,
			Verifier:      l.Verifier,
			LevelID:       l.InGameID,
			VideoURL:      l.VideoURL,
			ThumbnailURL:  l.ThumbnailURL,
			Description:   l.Description,
			Difficulty:    l.Difficulty,
			Position:      l.Position,
			IsLegacy:      l.IsLegacy,
			Points:        l.Points,
			MinPercentage: l.MinPercentage,
			DateAdded:     l.DateAdded,
		}
		id, created, err := upsert(ctx, levelsColl, bson.D{{Key: "name", Value: l.Name}}, doc)
		if err != nil {
			return res, err
		}
		l.ID, err = uuid.Parse(id)
		if err != nil {
			return res, fmt.Errorf("level %s: %w", l.Name, err)
		}
		levels[l.Name] = l
		if created {
			sizes[l.IsLegacy]++
			res.Levels++
			s.log.Info("level created", "name", l.Name, "backend", "mongo")
		}
	}

	recordsColl := db.Collection("records")
	for _, rf := range f.Records {
		l := levels[rf.Level]
		doc := recordDoc{
			ID:            uuid.NewString(),
			UserID:        users[rf.User],
			LevelID:       l.ID.String(),
			Progress:      rf.Progress,
			VideoURL:      rf.VideoURL,
			Status:        rf.Status,
			Points:        scoring.RecordPoints(rf.Status, rf.Progress, l),
			DateSubmitted: rf.Submitted.UTC(),
		}
		filter := bson.D{
			{Key: "user_id", Value: doc.UserID},
			{Key: "level_id", Value: doc.LevelID},
			{Key: "video_url", Value: doc.VideoURL},
		}
		_, created, err := upsert(ctx, recordsColl, filter, doc)
		if err != nil {
			return res, err
		}
		if created {
			res.Records++
			s.log.Info("record created", "user", rf.User, "level", rf.Level, "status", rf.Status, "backend", "mongo")
		}
	}

	for _, id := range users {
		if err := recountMongoPoints(ctx, db, id); err != nil {
			return res, err
		}
	}
	return res, nil
}

func recountMongoPoints(ctx context.Context, db *mongo.Database, userID string) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "user_id", Value: userID},
			{Key: "status", Value: models.StatusApproved},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$points"}}},
		}}},
	}
	cur, err := db.Collection("records").Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("sum points: %w", err)
	}
	var sums []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &sums); err != nil {
		return fmt.Errorf("sum points: %w", err)
	}
	var total float64
	if len(sums) > 0 {
		total = sums[0].Total
	}

	_, err = db.Collection("users").UpdateOne(ctx,
		bson.D{{Key: "_id", Value: userID}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "points", Value: total}}}},
	)
	if err != nil {
		return fmt.Errorf("update points: %w", err)
	}
	return nil
}
