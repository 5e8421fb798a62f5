package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/droid-games/scoreboard/internal/models"
)

// Repository provides data access methods backed by SQLite. Aggregates that
// the pipeline reads and writes as a unit (a team's rounds, a map's blocks)
// are stored as JSON columns.
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection (for transactions)
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS teams (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			school TEXT,
			members TEXT,
			pin_code TEXT UNIQUE,
			robot_photo_url TEXT,
			rounds TEXT NOT NULL DEFAULT '[]',
			total_score INTEGER NOT NULL DEFAULT 0,
			current_position INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS achievements (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			icon TEXT,
			rarity TEXT NOT NULL DEFAULT 'common',
			is_hidden BOOLEAN NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS team_achievements (
			id TEXT PRIMARY KEY,
			team_id TEXT NOT NULL,
			achievement_id TEXT NOT NULL,
			unlocked_at DATETIME NOT NULL,
			unlock_data TEXT,
			FOREIGN KEY (team_id) REFERENCES teams(id) ON DELETE CASCADE,
			UNIQUE(team_id, achievement_id)
		)`,
		`CREATE TABLE IF NOT EXISTS maps (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			round_number INTEGER NOT NULL DEFAULT 0,
			is_published BOOLEAN NOT NULL DEFAULT 0,
			blocks TEXT NOT NULL DEFAULT '[]'
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_team_achievements_team ON team_achievements(team_id)`,
		`CREATE INDEX IF NOT EXISTS idx_team_achievements_achievement ON team_achievements(achievement_id)`,
		`CREATE INDEX IF NOT EXISTS idx_teams_pin ON teams(pin_code)`,
		`CREATE INDEX IF NOT EXISTS idx_maps_round ON maps(round_number)`,
	}

	for _, m := range migrations {
		if _, err := r.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// ===== Teams =====

const teamColumns = `id, name, school, members, pin_code, robot_photo_url, rounds, total_score, current_position, created_at`

func scanTeam(row interface{ Scan(...any) error }) (*models.Team, error) {
	var t models.Team
	var members, rounds sql.NullString
	var pin, photo sql.NullString
	var createdAt time.Time

	err := row.Scan(&t.ID, &t.Name, &t.School, &members, &pin, &photo, &rounds, &t.TotalScore, &t.CurrentPosition, &createdAt)
	if err != nil {
		return nil, err
	}

	t.PinCode = pin.String
	t.RobotPhotoURL = photo.String
	t.CreatedAt = createdAt

	if members.Valid && members.String != "" {
		if err := json.Unmarshal([]byte(members.String), &t.Members); err != nil {
			return nil, err
		}
	}
	if rounds.Valid && rounds.String != "" {
		if err := json.Unmarshal([]byte(rounds.String), &t.Rounds); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

func marshalTeamAggregates(t *models.Team) (members, rounds string, err error) {
	m, err := json.Marshal(t.Members)
	if err != nil {
		return "", "", err
	}
	r, err := json.Marshal(t.Rounds)
	if err != nil {
		return "", "", err
	}
	return string(m), string(r), nil
}

// ListTeams returns all teams ordered by total score (ties broken by name)
func (r *Repository) ListTeams(ctx context.Context) ([]models.Team, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+teamColumns+` FROM teams ORDER BY total_score DESC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *t)
	}
	return teams, rows.Err()
}

// GetTeam retrieves a team by ID
func (r *Repository) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = ?`, id)
	t, err := scanTeam(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return t, err
}

// GetTeamByPin retrieves a team by its check-in PIN code
func (r *Repository) GetTeamByPin(ctx context.Context, pin string) (*models.Team, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE pin_code = ?`, pin)
	t, err := scanTeam(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return t, err
}

// CreateTeam inserts a new team record
func (r *Repository) CreateTeam(ctx context.Context, t *models.Team) error {
	members, rounds, err := marshalTeamAggregates(t)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO teams (id, name, school, members, pin_code, robot_photo_url, rounds, total_score, current_position, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.School, members, nullIfEmpty(t.PinCode), nullIfEmpty(t.RobotPhotoURL),
		rounds, t.TotalScore, t.CurrentPosition, t.CreatedAt)
	return err
}

// UpdateTeam replaces the stored team record, rounds included
func (r *Repository) UpdateTeam(ctx context.Context, t *models.Team) error {
	members, rounds, err := marshalTeamAggregates(t)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE teams SET name = ?, school = ?, members = ?, pin_code = ?, robot_photo_url = ?,
		 rounds = ?, total_score = ?, current_position = ? WHERE id = ?`,
		t.Name, t.School, members, nullIfEmpty(t.PinCode), nullIfEmpty(t.RobotPhotoURL),
		rounds, t.TotalScore, t.CurrentPosition, t.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTeam removes a team record
func (r *Repository) DeleteTeam(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ===== Achievements =====

// ListAchievements returns all badge definitions
func (r *Repository) ListAchievements(ctx context.Context) ([]models.Achievement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, icon, rarity, is_hidden FROM achievements ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []models.Achievement
	for rows.Next() {
		var a models.Achievement
		var icon sql.NullString
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &icon, &a.Rarity, &a.IsHidden); err != nil {
			return nil, err
		}
		a.Icon = icon.String
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

// GetAchievement retrieves a badge definition by ID
func (r *Repository) GetAchievement(ctx context.Context, id string) (*models.Achievement, error) {
	var a models.Achievement
	var icon sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, icon, rarity, is_hidden FROM achievements WHERE id = ?`, id).
		Scan(&a.ID, &a.Name, &a.Description, &icon, &a.Rarity, &a.IsHidden)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	a.Icon = icon.String
	return &a, nil
}

// UpsertAchievement inserts or replaces a badge definition
func (r *Repository) UpsertAchievement(ctx context.Context, a *models.Achievement) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO achievements (id, name, description, icon, rarity, is_hidden)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, description = excluded.description,
		 icon = excluded.icon, rarity = excluded.rarity, is_hidden = excluded.is_hidden`,
		a.ID, a.Name, a.Description, nullIfEmpty(a.Icon), a.Rarity, a.IsHidden)
	return err
}

// ===== Team achievements =====

func scanTeamAchievements(rows *sql.Rows) ([]models.TeamAchievement, error) {
	var unlocks []models.TeamAchievement
	for rows.Next() {
		var ta models.TeamAchievement
		var data sql.NullString
		if err := rows.Scan(&ta.ID, &ta.TeamID, &ta.AchievementID, &ta.UnlockedAt, &data); err != nil {
			return nil, err
		}
		if data.Valid && data.String != "" {
			if err := json.Unmarshal([]byte(data.String), &ta.UnlockData); err != nil {
				return nil, err
			}
		}
		unlocks = append(unlocks, ta)
	}
	return unlocks, rows.Err()
}

// ListTeamAchievements returns all unlock records across all teams
func (r *Repository) ListTeamAchievements(ctx context.Context) ([]models.TeamAchievement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, team_id, achievement_id, unlocked_at, unlock_data FROM team_achievements ORDER BY unlocked_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTeamAchievements(rows)
}

// ListTeamAchievementsForTeam returns one team's unlock records
func (r *Repository) ListTeamAchievementsForTeam(ctx context.Context, teamID string) ([]models.TeamAchievement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, team_id, achievement_id, unlocked_at, unlock_data FROM team_achievements
		 WHERE team_id = ? ORDER BY unlocked_at`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTeamAchievements(rows)
}

// HasTeamAchievement reports whether the team already unlocked the achievement
func (r *Repository) HasTeamAchievement(ctx context.Context, teamID, achievementID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM team_achievements WHERE team_id = ? AND achievement_id = ?`,
		teamID, achievementID).Scan(&n)
	return n > 0, err
}

// AnyTeamHasAchievement reports whether any team has unlocked the achievement.
// Used by "first in competition" rules.
func (r *Repository) AnyTeamHasAchievement(ctx context.Context, achievementID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM team_achievements WHERE achievement_id = ?`, achievementID).Scan(&n)
	return n > 0, err
}

// AddTeamAchievement inserts an unlock record. The UNIQUE constraint on
// (team_id, achievement_id) turns a double unlock into ErrDuplicateUnlock.
func (r *Repository) AddTeamAchievement(ctx context.Context, ta *models.TeamAchievement) error {
	var data any
	if len(ta.UnlockData) > 0 {
		b, err := json.Marshal(ta.UnlockData)
		if err != nil {
			return err
		}
		data = string(b)
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO team_achievements (id, team_id, achievement_id, unlocked_at, unlock_data)
		 VALUES (?, ?, ?, ?, ?)`,
		ta.ID, ta.TeamID, ta.AchievementID, ta.UnlockedAt, data)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicateUnlock
	}
	return err
}

// ===== Maps =====

// ListMaps returns all map configurations
func (r *Repository) ListMaps(ctx context.Context) ([]models.MapConfiguration, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, round_number, is_published, blocks FROM maps ORDER BY round_number, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var maps []models.MapConfiguration
	for rows.Next() {
		var m models.MapConfiguration
		var blocks string
		if err := rows.Scan(&m.ID, &m.Name, &m.RoundNumber, &m.IsPublished, &blocks); err != nil {
			return nil, err
		}
		if blocks != "" {
			if err := json.Unmarshal([]byte(blocks), &m.Blocks); err != nil {
				return nil, err
			}
		}
		maps = append(maps, m)
	}
	return maps, rows.Err()
}

// GetMap retrieves a map configuration by ID
func (r *Repository) GetMap(ctx context.Context, id string) (*models.MapConfiguration, error) {
	var m models.MapConfiguration
	var blocks string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, round_number, is_published, blocks FROM maps WHERE id = ?`, id).
		Scan(&m.ID, &m.Name, &m.RoundNumber, &m.IsPublished, &blocks)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if blocks != "" {
		if err := json.Unmarshal([]byte(blocks), &m.Blocks); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

// CreateMap inserts a new map configuration
func (r *Repository) CreateMap(ctx context.Context, m *models.MapConfiguration) error {
	blocks, err := json.Marshal(m.Blocks)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO maps (id, name, round_number, is_published, blocks) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.RoundNumber, m.IsPublished, string(blocks))
	return err
}

// UpdateMap replaces a stored map configuration
func (r *Repository) UpdateMap(ctx context.Context, m *models.MapConfiguration) error {
	blocks, err := json.Marshal(m.Blocks)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE maps SET name = ?, round_number = ?, is_published = ?, blocks = ? WHERE id = ?`,
		m.Name, m.RoundNumber, m.IsPublished, string(blocks), m.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMap removes a map configuration
func (r *Repository) DeleteMap(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM maps WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ===== Settings =====

// GetSetting retrieves a setting value by key
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting stores a setting value
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
