package models

import "time"

// GameStatus is the global phase of the competition
type GameStatus string

const (
	StatusPreparation       GameStatus = "preparation"
	StatusRoundInProgress   GameStatus = "round_in_progress"
	StatusWaitingForScoring GameStatus = "waiting_for_scoring"
	StatusPreparingNext     GameStatus = "preparing_next_round"
	StatusBreak             GameStatus = "break"
	StatusFinished          GameStatus = "finished"
)

// Team represents a competing team and all of its round participations.
// The team record is the aggregate root: referee scores and final scores
// live inside Rounds and are only mutated through the score services.
type Team struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	School          string               `json:"school"`
	Members         []string             `json:"members"`
	PinCode         string               `json:"pin_code,omitempty"`
	RobotPhotoURL   string               `json:"robot_photo_url,omitempty"`
	Rounds          []RoundParticipation `json:"rounds"`
	TotalScore      int                  `json:"total_score"`
	CurrentPosition int                  `json:"current_position"`
	CreatedAt       time.Time            `json:"created_at"`
}

// Round returns the participation record for the given round number, or nil.
func (t *Team) Round(roundNumber int) *RoundParticipation {
	for i := range t.Rounds {
		if t.Rounds[i].RoundNumber == roundNumber {
			return &t.Rounds[i]
		}
	}
	return nil
}

// RoundParticipation is one team's attempt in one round. RefereeScores is
// keyed by referee ID; a referee re-submitting replaces their prior entry.
type RoundParticipation struct {
	RoundNumber        int                     `json:"round_number"`
	OpponentTeamID     string                  `json:"opponent_team_id,omitempty"`
	MapConfigurationID string                  `json:"map_configuration_id,omitempty"`
	StartTime          *time.Time              `json:"start_time,omitempty"`
	EndTime            *time.Time              `json:"end_time,omitempty"`
	RefereeScores      map[string]RefereeScore `json:"referee_scores"`
	IsApproved         bool                    `json:"is_approved"`
	FinalScore         *int                    `json:"final_score,omitempty"`
}

// AllScoresApproved reports whether the round has at least one referee score
// and every one of them is approved. An empty score map never finalizes.
func (r *RoundParticipation) AllScoresApproved() bool {
	if len(r.RefereeScores) == 0 {
		return false
	}
	for _, s := range r.RefereeScores {
		if !s.IsApproved {
			return false
		}
	}
	return true
}

// RefereeScore is a single referee's assessment of a round. IsApproved and
// IsRejected are mutually exclusive.
type RefereeScore struct {
	RefereeID           string             `json:"referee_id"`
	ScoreBreakdown      map[string]int     `json:"score_breakdown"`
	TotalScore          int                `json:"total_score"`
	SubmittedAt         time.Time          `json:"submitted_at"`
	LastModifiedAt      time.Time          `json:"last_modified_at"`
	IsSubmitted         bool               `json:"is_submitted"`
	IsApproved          bool               `json:"is_approved"`
	IsRejected          bool               `json:"is_rejected"`
	ApprovedByRefereeID string             `json:"approved_by_referee_id,omitempty"`
	ApprovedAt          *time.Time         `json:"approved_at,omitempty"`
	RejectionReason     string             `json:"rejection_reason,omitempty"`
	Events              []ScoringEventData `json:"events"`
}

// ScoringEventData is one in-round action recorded by a referee. Events are
// append-only and keep chronological order within a referee's score.
type ScoringEventData struct {
	ID          int       `json:"id"`
	X           int       `json:"x"`
	Y           int       `json:"y"`
	BlockType   string    `json:"block_type"`
	Description string    `json:"description"`
	Points      int       `json:"points"`
	Timestamp   time.Time `json:"timestamp"`
}

// Block type tags used in scoring events and map configurations.
const (
	BlockCrystal = "crystal"
	BlockSulfur  = "sulfur"
)

// AchievementRarity classifies how hard a badge is to earn
type AchievementRarity string

const (
	RarityCommon    AchievementRarity = "common"
	RarityRare      AchievementRarity = "rare"
	RarityEpic      AchievementRarity = "epic"
	RarityLegendary AchievementRarity = "legendary"
)

// Achievement is a static badge definition. The rule that unlocks it is
// looked up in the evaluator's registry by ID.
type Achievement struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Icon        string            `json:"icon,omitempty"`
	Rarity      AchievementRarity `json:"rarity"`
	IsHidden    bool              `json:"is_hidden"`
}

// TeamAchievement is the unlock record for one (team, achievement) pair.
// Its existence is the proof of unlock; it is never deleted.
type TeamAchievement struct {
	ID            string         `json:"id"`
	TeamID        string         `json:"team_id"`
	AchievementID string         `json:"achievement_id"`
	UnlockedAt    time.Time      `json:"unlocked_at"`
	UnlockData    map[string]any `json:"unlock_data,omitempty"`
}

// MapBlock is one cell of a map configuration grid
type MapBlock struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Type string `json:"type"`
}

// MapConfiguration is the layout of the 6x9 playing field for a round
type MapConfiguration struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	RoundNumber int        `json:"round_number"`
	IsPublished bool       `json:"is_published"`
	Blocks      []MapBlock `json:"blocks"`
}

// CountBlocks returns how many blocks of the given type the map contains
func (m *MapConfiguration) CountBlocks(blockType string) int {
	n := 0
	for _, b := range m.Blocks {
		if b.Type == blockType {
			n++
		}
	}
	return n
}

// LeaderboardEntry is a derived ranking row; it is computed on demand and
// never persisted.
type LeaderboardEntry struct {
	TeamID          string      `json:"team_id"`
	TeamName        string      `json:"team_name"`
	TotalScore      int         `json:"total_score"`
	CompletedRounds int         `json:"completed_rounds"`
	Position        int         `json:"position"`
	RoundScores     map[int]int `json:"round_scores"` // round number -> final score
}

// WSMessage is the envelope sent to websocket clients
type WSMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}
