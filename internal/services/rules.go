package services

import (
	"fmt"

	"github.com/droid-games/scoreboard/internal/models"
)

// RuleContext carries everything an achievement rule may inspect. Events are
// the approved referee events of the round in chronological order. Map is nil
// when the round has no map configuration assigned.
type RuleContext struct {
	Round  *models.RoundParticipation
	Events []models.ScoringEventData
	Map    *models.MapConfiguration
}

// AchievementRule decides whether one badge is earned for a round. Rules are
// pure; persistence and notification happen in the evaluator.
type AchievementRule struct {
	ID string
	// GlobalFirst rules can only ever be unlocked once across the whole
	// competition, by whichever team triggers them first.
	GlobalFirst bool
	Check       func(ctx RuleContext) (bool, map[string]any)
}

// DefaultAchievements returns the badge catalog matching DefaultRules. Each
// rule ID has exactly one definition here; SeedDefaultAchievements writes
// them to the store at startup.
func DefaultAchievements() []models.Achievement {
	return []models.Achievement{
		{
			ID:          "first-crystal-touch",
			Name:        "Crystal Pioneer",
			Description: "First team in the competition to touch a crystal",
			Icon:        "💎",
			Rarity:      models.RarityRare,
		},
		{
			ID:          "first-sulfur-hit",
			Name:        "Sulfur Scout",
			Description: "First team in the competition to hit a sulfur block",
			Icon:        "🌋",
			Rarity:      models.RarityRare,
		},
		{
			ID:          "three-crystals-row",
			Name:        "Triple Sparkle",
			Description: "Touch three crystals in a row without hitting sulfur",
			Icon:        "✨",
			Rarity:      models.RarityCommon,
		},
		{
			ID:          "all-crystals-touched",
			Name:        "Crystal Sweep",
			Description: "Touch every crystal on the map in a single round",
			Icon:        "🏆",
			Rarity:      models.RarityEpic,
		},
		{
			ID:          "all-sulfurs-cleared",
			Name:        "Sulfur Purge",
			Description: "Clear every sulfur block on the map in a single round",
			Icon:        "🧹",
			Rarity:      models.RarityEpic,
		},
		{
			ID:          "perfect-run",
			Name:        "Flawless Run",
			Description: "Score crystals without touching a single sulfur block",
			Icon:        "🎯",
			Rarity:      models.RarityEpic,
		},
		{
			ID:          "speed-demon",
			Name:        "Speed Demon",
			Description: "Finish a scoring round in ten moves or fewer",
			Icon:        "⚡",
			Rarity:      models.RarityRare,
		},
		{
			ID:          "minimal-moves",
			Name:        "Efficiency Expert",
			Description: "Collect five crystals within twelve moves",
			Icon:        "🧠",
			Rarity:      models.RarityRare,
		},
		{
			ID:          "no-sulfur-damage",
			Name:        "Untouchable",
			Description: "Play a long round without any sulfur damage",
			Icon:        "🛡️",
			Rarity:      models.RarityCommon,
		},
		{
			ID:          "crystal-master",
			Name:        "Crystal Master",
			Description: "Collect ten or more crystals in a single round",
			Icon:        "👑",
			Rarity:      models.RarityLegendary,
			IsHidden:    true,
		},
	}
}

// DefaultRules returns the built-in rule set. The evaluator walks this slice
// in order, so competition-first badges sit at the front.
func DefaultRules() []AchievementRule {
	return []AchievementRule{
		{
			ID:          "first-crystal-touch",
			GlobalFirst: true,
			Check: func(ctx RuleContext) (bool, map[string]any) {
				return hasBlockEvent(ctx.Events, models.BlockCrystal), nil
			},
		},
		{
			ID:          "first-sulfur-hit",
			GlobalFirst: true,
			Check: func(ctx RuleContext) (bool, map[string]any) {
				return hasBlockEvent(ctx.Events, models.BlockSulfur), nil
			},
		},
		{
			ID: "three-crystals-row",
			Check: func(ctx RuleContext) (bool, map[string]any) {
				// A sulfur hit resets the streak, other events do not
				streak := 0
				for _, e := range ctx.Events {
					switch e.BlockType {
					case models.BlockCrystal:
						streak++
						if streak >= 3 {
							return true, nil
						}
					case models.BlockSulfur:
						streak = 0
					}
				}
				return false, nil
			},
		},
		{
			ID: "all-crystals-touched",
			Check: func(ctx RuleContext) (bool, map[string]any) {
				if ctx.Map == nil {
					return false, nil
				}
				total := ctx.Map.CountBlocks(models.BlockCrystal)
				touched := distinctPositions(ctx.Events, models.BlockCrystal)
				if total == 0 || touched < total {
					return false, nil
				}
				return true, map[string]any{"crystals": total}
			},
		},
		{
			ID: "all-sulfurs-cleared",
			Check: func(ctx RuleContext) (bool, map[string]any) {
				if ctx.Map == nil {
					return false, nil
				}
				total := ctx.Map.CountBlocks(models.BlockSulfur)
				touched := distinctPositions(ctx.Events, models.BlockSulfur)
				if total == 0 || touched < total {
					return false, nil
				}
				return true, map[string]any{"sulfurs": total}
			},
		},
		{
			ID: "perfect-run",
			Check: func(ctx RuleContext) (bool, map[string]any) {
				return hasBlockEvent(ctx.Events, models.BlockCrystal) &&
					!hasBlockEvent(ctx.Events, models.BlockSulfur), nil
			},
		},
		{
			ID: "speed-demon",
			Check: func(ctx RuleContext) (bool, map[string]any) {
				final := 0
				if ctx.Round.FinalScore != nil {
					final = *ctx.Round.FinalScore
				}
				if len(ctx.Events) <= 10 && final > 0 {
					return true, map[string]any{"events": len(ctx.Events)}
				}
				return false, nil
			},
		},
		{
			ID: "minimal-moves",
			Check: func(ctx RuleContext) (bool, map[string]any) {
				crystals := countBlockEvents(ctx.Events, models.BlockCrystal)
				if crystals >= 5 && len(ctx.Events) <= 12 {
					return true, map[string]any{"crystals": crystals, "events": len(ctx.Events)}
				}
				return false, nil
			},
		},
		{
			ID: "no-sulfur-damage",
			Check: func(ctx RuleContext) (bool, map[string]any) {
				return hasBlockEvent(ctx.Events, models.BlockCrystal) &&
					!hasBlockEvent(ctx.Events, models.BlockSulfur) &&
					len(ctx.Events) >= 5, nil
			},
		},
		{
			ID: "crystal-master",
			Check: func(ctx RuleContext) (bool, map[string]any) {
				crystals := countBlockEvents(ctx.Events, models.BlockCrystal)
				if crystals >= 10 {
					return true, map[string]any{"crystals": crystals}
				}
				return false, nil
			},
		},
	}
}

func hasBlockEvent(events []models.ScoringEventData, blockType string) bool {
	for _, e := range events {
		if e.BlockType == blockType {
			return true
		}
	}
	return false
}

func countBlockEvents(events []models.ScoringEventData, blockType string) int {
	n := 0
	for _, e := range events {
		if e.BlockType == blockType {
			n++
		}
	}
	return n
}

// distinctPositions counts unique grid cells among events of one block type
func distinctPositions(events []models.ScoringEventData, blockType string) int {
	seen := make(map[string]struct{})
	for _, e := range events {
		if e.BlockType == blockType {
			seen[fmt.Sprintf("%d,%d", e.X, e.Y)] = struct{}{}
		}
	}
	return len(seen)
}
