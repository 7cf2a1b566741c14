// Package scoring holds the points formulas of the list.
package scoring

import "demonlist/internal/models"

// LevelPoints is the default award for a level at position on the main list.
// Legacy levels award nothing.
func LevelPoints(position int, legacy bool) float64 {
	if legacy {
		return 0
	}
	return float64(100-position+1) / 10
}

// RecordPoints is what an approved record earns on level. A full completion
// earns the level's points; a partial one at or above the level's minimum
// percentage earns a proportional share.
func RecordPoints(status models.Status, progress int, level models.Level) float64 {
	if status != models.StatusApproved || level.IsLegacy {
		return 0
	}
	if progress == 100 {
		return level.Points
	}
	if progress >= level.MinPercentage {
		return level.Points * float64(progress) / 100
	}
	return 0
}

// Tier is a difficulty band with its display colour.
type Tier struct {
	Name  string
	Color string
}

var tiers = []struct {
	min  float64
	tier Tier
}{
	{9.5, Tier{"Extreme", "#ff0000"}},
	{8.0, Tier{"Insane", "#ff5500"}},
	{6.5, Tier{"Hard", "#ffaa00"}},
	{5.0, Tier{"Medium", "#ffff00"}},
}

// DifficultyTier maps a difficulty rating to its band.
func DifficultyTier(difficulty float64) Tier {
	for _, t := range tiers {
		if difficulty >= t.min {
			return t.tier
		}
	}
	return Tier{"Easy", "#00ff00"}
}
