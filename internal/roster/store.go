/**
 * Roster Store - PostgreSQL persistence for teams and extraction jobs
 *
 * Teams carry their lineup as a text[] column; extraction jobs are
 * UPSERTed so the worker can create the row on first status update even
 * when the enqueuing side has not written it yet.
 */

package roster

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/courtside/scoreboard-worker/internal/logging"
)

// Team is a stored team with its lineup. Players are positional: index i
// is roster slot i.
type Team struct {
	ID        string
	Name      string
	Players   []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// JobUpdate represents an extraction job status update.
type JobUpdate struct {
	JobID            string
	TeamID           string
	Status           string
	Progress         int
	NamesFound       int
	ErrorCode        string
	ErrorMessage     string
	ProcessingTimeMs int64
	Metadata         map[string]interface{}
}

// Job is a stored extraction job row.
type Job struct {
	ID               string
	TeamID           string
	Status           string
	Progress         int
	NamesFound       int
	ErrorCode        string
	ErrorMessage     string
	ProcessingTimeMs int64
	Metadata         map[string]interface{}
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Store handles database operations for rosters and extraction jobs.
type Store struct {
	db  *sql.DB
	log *logging.Logger
}

// NewStore opens a connection pool against databaseURL and verifies it.
func NewStore(databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db, log: logging.NewLogger("roster")}, nil
}

// EnsureSchema creates the roster schema and tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE SCHEMA IF NOT EXISTS roster`,
		`CREATE TABLE IF NOT EXISTS roster.teams (
			id         UUID PRIMARY KEY,
			name       TEXT NOT NULL,
			players    TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS roster.extraction_jobs (
			id                 UUID PRIMARY KEY,
			team_id            UUID,
			status             TEXT NOT NULL,
			progress           INT NOT NULL DEFAULT 0,
			names_found        INT NOT NULL DEFAULT 0,
			error_code         TEXT,
			error_message      TEXT,
			processing_time_ms BIGINT,
			metadata           JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure roster schema: %w", err)
		}
	}
	return nil
}

// UpsertTeam inserts or updates a team row, lineup included.
func (s *Store) UpsertTeam(ctx context.Context, team *Team) error {
	if team.ID == "" {
		return fmt.Errorf("team ID is required")
	}
	if team.Name == "" {
		return fmt.Errorf("team name is required")
	}

	query := `
		INSERT INTO roster.teams (id, name, players, created_at, updated_at)
		VALUES ($1::uuid, $2, $3, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			name       = EXCLUDED.name,
			players    = EXCLUDED.players,
			updated_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, team.ID, team.Name, pq.Array(team.Players)); err != nil {
		return fmt.Errorf("failed to upsert team %s: %w", team.ID, err)
	}
	return nil
}

// GetTeam retrieves a team by ID.
func (s *Store) GetTeam(ctx context.Context, teamID string) (*Team, error) {
	if teamID == "" {
		return nil, fmt.Errorf("team ID is required")
	}

	query := `
		SELECT id, name, players, created_at, updated_at
		FROM roster.teams
		WHERE id = $1::uuid
	`

	var team Team
	var players pq.StringArray
	err := s.db.QueryRowContext(ctx, query, teamID).Scan(
		&team.ID, &team.Name, &players, &team.CreatedAt, &team.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("team not found: %s", teamID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team %s: %w", teamID, err)
	}

	team.Players = []string(players)
	return &team, nil
}

// ListTeams returns all teams ordered by name.
func (s *Store) ListTeams(ctx context.Context) ([]*Team, error) {
	query := `
		SELECT id, name, players, created_at, updated_at
		FROM roster.teams
		ORDER BY name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []*Team
	for rows.Next() {
		var team Team
		var players pq.StringArray
		if err := rows.Scan(&team.ID, &team.Name, &players, &team.CreatedAt, &team.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		team.Players = []string(players)
		teams = append(teams, &team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate team rows: %w", err)
	}
	return teams, nil
}

// DeleteTeam removes a team by ID.
func (s *Store) DeleteTeam(ctx context.Context, teamID string) error {
	if teamID == "" {
		return fmt.Errorf("team ID is required")
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM roster.teams WHERE id = $1::uuid`, teamID); err != nil {
		return fmt.Errorf("failed to delete team %s: %w", teamID, err)
	}
	return nil
}

// ApplyNames fills extracted names into a team's lineup using the
// partial-fill policy: slot i receives names[i] when present, otherwise it
// keeps its prior value. The lineup is padded out to slots entries. The
// updated team is persisted and returned.
func (s *Store) ApplyNames(ctx context.Context, teamID string, names []string, slots int) (*Team, error) {
	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	team.Players = fillLineup(team.Players, names, slots)
	if err := s.UpsertTeam(ctx, team); err != nil {
		return nil, err
	}

	s.log.Info("lineup updated from extraction",
		"teamId", teamID,
		"namesApplied", len(names),
		"slots", slots)

	return team, nil
}

// fillLineup applies the partial-fill policy to a lineup without mutating
// the input slice.
func fillLineup(players, names []string, slots int) []string {
	if slots < len(players) {
		slots = len(players)
	}
	filled := make([]string, slots)
	copy(filled, players)
	for i := 0; i < slots && i < len(names); i++ {
		if names[i] != "" {
			filled[i] = names[i]
		}
	}
	return filled
}

// UpdateJobStatus UPSERTs an extraction job row. Zero-valued fields leave
// the stored value untouched so progress updates do not erase results.
func (s *Store) UpdateJobStatus(ctx context.Context, update *JobUpdate) error {
	if update.JobID == "" {
		return fmt.Errorf("job ID is required")
	}
	if update.Status == "" {
		return fmt.Errorf("status is required")
	}

	metadataJSON, err := json.Marshal(update.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO roster.extraction_jobs (
			id, team_id, status, progress, names_found,
			error_code, error_message, processing_time_ms, metadata,
			created_at, updated_at
		) VALUES (
			$1::uuid,
			CASE WHEN $2 = '' THEN NULL ELSE $2::uuid END,
			$3, $4, $5,
			NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, 0),
			COALESCE($9::jsonb, '{}'::jsonb),
			NOW(), NOW()
		)
		ON CONFLICT (id) DO UPDATE SET
			status             = EXCLUDED.status,
			progress           = GREATEST(EXCLUDED.progress, roster.extraction_jobs.progress),
			names_found        = GREATEST(EXCLUDED.names_found, roster.extraction_jobs.names_found),
			error_code         = COALESCE(NULLIF(EXCLUDED.error_code, ''), roster.extraction_jobs.error_code),
			error_message      = COALESCE(NULLIF(EXCLUDED.error_message, ''), roster.extraction_jobs.error_message),
			processing_time_ms = COALESCE(NULLIF(EXCLUDED.processing_time_ms, 0), roster.extraction_jobs.processing_time_ms),
			team_id            = COALESCE(EXCLUDED.team_id, roster.extraction_jobs.team_id),
			metadata           = roster.extraction_jobs.metadata || EXCLUDED.metadata,
			updated_at         = NOW()
	`

	_, err = s.db.ExecContext(
		ctx,
		query,
		update.JobID,
		update.TeamID,
		update.Status,
		update.Progress,
		update.NamesFound,
		update.ErrorCode,
		update.ErrorMessage,
		update.ProcessingTimeMs,
		metadataJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to update job status (job=%s, status=%s): %w",
			update.JobID, update.Status, err)
	}
	return nil
}

// GetJob retrieves an extraction job by ID.
func (s *Store) GetJob(ctx context.Context, jobID string) (*Job, error) {
	if jobID == "" {
		return nil, fmt.Errorf("job ID is required")
	}

	query := `
		SELECT
			id, team_id, status, progress, names_found,
			error_code, error_message, processing_time_ms, metadata,
			created_at, updated_at
		FROM roster.extraction_jobs
		WHERE id = $1::uuid
	`

	var (
		job              Job
		teamID           sql.NullString
		errorCode        sql.NullString
		errorMessage     sql.NullString
		processingTimeMs sql.NullInt64
		metadataJSON     []byte
	)

	err := s.db.QueryRowContext(ctx, query, jobID).Scan(
		&job.ID, &teamID, &job.Status, &job.Progress, &job.NamesFound,
		&errorCode, &errorMessage, &processingTimeMs, &metadataJSON,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job %s: %w", jobID, err)
	}

	job.TeamID = teamID.String
	job.ErrorCode = errorCode.String
	job.ErrorMessage = errorMessage.String
	job.ProcessingTimeMs = processingTimeMs.Int64

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &job.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal job metadata: %w", err)
		}
	}

	return &job, nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection pool.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Stats returns connection pool statistics.
func (s *Store) Stats() sql.DBStats {
	return s.db.Stats()
}
