// Package leaderboard keeps ranked views of player points in Redis sorted
// sets: all players, players per country and countries by their players'
// combined points.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"demonlist/internal/country"
	"demonlist/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	PlayersKey   = "leaderboard:players"
	CountriesKey = "leaderboard:countries"

	countryPlayersPrefix = "leaderboard:country:"

	// emptyCountry is the score at or below which a country counts as having
	// no points. Country sums move by float deltas and may not land on 0.
	emptyCountry = 1e-9
)

func countryPlayersKey(code string) string {
	return countryPlayersPrefix + strings.ToUpper(code)
}

// Entry is one ranked player.
type Entry struct {
	Username string  `json:"username"`
	Points   float64 `json:"points"`
	Rank     int64   `json:"rank"`
}

// CountryEntry is one ranked country.
type CountryEntry struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Flag   string  `json:"flag"`
	Points float64 `json:"points"`
	Rank   int64   `json:"rank"`
}

// Board ranks players and countries. Only players with points are ranked.
type Board struct {
	client *redis.Client
}

func New(client *redis.Client) *Board {
	return &Board{client: client}
}

// Apply records u's new point total. previous is the total the board last
// saw for u, so the country sum moves by the difference.
func (b *Board) Apply(ctx context.Context, u models.User, previous float64) error {
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		b.setPlayer(ctx, pipe, u)
		if u.Country != "" && u.Points != previous {
			pipe.ZIncrBy(ctx, CountriesKey, u.Points-previous, strings.ToUpper(u.Country))
			pipe.ZRemRangeByScore(ctx, CountriesKey, "-inf", strconv.FormatFloat(emptyCountry, 'g', -1, 64))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("apply %s to leaderboard: %w", u.Username, err)
	}
	return nil
}

func (b *Board) setPlayer(ctx context.Context, pipe redis.Pipeliner, u models.User) {
	keys := []string{PlayersKey}
	if u.Country != "" {
		keys = append(keys, countryPlayersKey(u.Country))
	}
	for _, key := range keys {
		if u.Points > 0 {
			pipe.ZAdd(ctx, key, redis.Z{Score: u.Points, Member: u.Username})
		} else {
			pipe.ZRem(ctx, key, u.Username)
		}
	}
}

// Top returns the best limit players.
func (b *Board) Top(ctx context.Context, limit int64) ([]Entry, error) {
	return b.top(ctx, PlayersKey, limit)
}

// CountryTop returns the best limit players of one country.
func (b *Board) CountryTop(ctx context.Context, code string, limit int64) ([]Entry, error) {
	return b.top(ctx, countryPlayersKey(code), limit)
}

func (b *Board) top(ctx context.Context, key string, limit int64) ([]Entry, error) {
	if limit <= 0 {
		return nil, nil
	}
	results, err := b.client.ZRevRangeWithScores(ctx, key, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	entries := make([]Entry, len(results))
	for i, z := range results {
		entries[i] = Entry{
			Username: z.Member.(string),
			Points:   z.Score,
			Rank:     int64(i) + 1,
		}
	}
	return entries, nil
}

// Countries returns the best limit countries.
func (b *Board) Countries(ctx context.Context, limit int64) ([]CountryEntry, error) {
	if limit <= 0 {
		return nil, nil
	}
	results, err := b.client.ZRevRangeWithScores(ctx, CountriesKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", CountriesKey, err)
	}

	entries := make([]CountryEntry, len(results))
	for i, z := range results {
		code := z.Member.(string)
		e := CountryEntry{Code: code, Name: code, Points: z.Score, Rank: int64(i) + 1}
		if c, ok := country.Lookup(code); ok {
			e.Name, e.Flag = c.Name, c.Flag
		}
		entries[i] = e
	}
	return entries, nil
}

// Rank is a player's 1-based position, or 0 when unranked.
func (b *Board) Rank(ctx context.Context, username string) (int64, error) {
	rank, err := b.client.ZRevRank(ctx, PlayersKey, username).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("rank %s: %w", username, err)
	}
	return rank + 1, nil
}

// Clear removes every leaderboard key.
func (b *Board) Clear(ctx context.Context) error {
	keys, err := b.countryKeys(ctx)
	if err != nil {
		return err
	}
	keys = append(keys, PlayersKey, CountriesKey)
	if err := b.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("clear leaderboard: %w", err)
	}
	return nil
}

func (b *Board) countryKeys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := b.client.Scan(ctx, 0, countryPlayersPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan country keys: %w", err)
	}
	return keys, nil
}

// Rebuild replaces the board with the totals of users.
func (b *Board) Rebuild(ctx context.Context, users []models.User) error {
	if err := b.Clear(ctx); err != nil {
		return err
	}

	countries := make(map[string]float64)
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, u := range users {
			b.setPlayer(ctx, pipe, u)
			if u.Country != "" && u.Points > 0 {
				countries[strings.ToUpper(u.Country)] += u.Points
			}
		}
		for code, points := range countries {
			pipe.ZAdd(ctx, CountriesKey, redis.Z{Score: points, Member: code})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("rebuild leaderboard: %w", err)
	}
	return nil
}
