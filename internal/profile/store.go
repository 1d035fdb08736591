package profile

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new ProfileStore backed by the given database.
func New(db *sql.DB) ProfileStore {
	return &store{
		db: db,
	}
}

const profileColumns = `id, username, display_name, singles_rating, doubles_rating, overall_rating,
	singles_matches_played, singles_matches_won, doubles_matches_played, doubles_matches_won,
	singles_points_scored, singles_points_conceded, doubles_points_scored, doubles_points_conceded,
	team_partners_json, version, created_at, updated_at`

func (s *store) Create(p *PlayerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	partnersJSON, err := json.Marshal(p.TeamPartners)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO profiles (`+profileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID, p.Username, p.DisplayName, p.SinglesRating, p.DoublesRating, p.OverallRating,
		p.SinglesMatchesPlayed, p.SinglesMatchesWon, p.DoublesMatchesPlayed, p.DoublesMatchesWon,
		p.SinglesPointsScored, p.SinglesPointsConceded, p.DoublesPointsScored, p.DoublesPointsConceded,
		string(partnersJSON), p.Version, p.CreatedAt.Unix(), p.UpdatedAt.Unix(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: profiles.username") {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	log.Info("Created player profile", "playerID", p.ID, "username", p.Username)
	return nil
}

func (s *store) Get(id string) (*PlayerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	return s.scanProfile(row)
}

func (s *store) GetByUsername(username string) (*PlayerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE username = ? COLLATE NOCASE`, username)
	return s.scanProfile(row)
}

// Put persists a modified profile using an optimistic version check. The
// update only lands when the stored version still matches the version the
// profile was read at.
func (s *store) Put(p *PlayerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	partnersJSON, err := json.Marshal(p.TeamPartners)
	if err != nil {
		return err
	}

	res, err := s.db.Exec(`
		UPDATE profiles SET
			username = ?, display_name = ?, singles_rating = ?, doubles_rating = ?, overall_rating = ?,
			singles_matches_played = ?, singles_matches_won = ?, doubles_matches_played = ?, doubles_matches_won = ?,
			singles_points_scored = ?, singles_points_conceded = ?, doubles_points_scored = ?, doubles_points_conceded = ?,
			team_partners_json = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`,
		p.Username, p.DisplayName, p.SinglesRating, p.DoublesRating, p.OverallRating,
		p.SinglesMatchesPlayed, p.SinglesMatchesWon, p.DoublesMatchesPlayed, p.DoublesMatchesWon,
		p.SinglesPointsScored, p.SinglesPointsConceded, p.DoublesPointsScored, p.DoublesPointsConceded,
		string(partnersJSON), time.Now().UTC().Unix(),
		p.ID, p.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists bool
		if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM profiles WHERE id = ?)", p.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	p.Version++
	return nil
}

func (s *store) List() ([]*PlayerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT ` + profileColumns + ` FROM profiles ORDER BY username`)
	if err != nil {
		log.Error("Failed to query profiles", "error", err)
		return nil, err
	}
	defer rows.Close()

	var profiles []*PlayerProfile
	for rows.Next() {
		p, err := s.scanProfile(rows)
		if err != nil {
			log.Error("Failed to scan profile row", "error", err)
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec("DELETE FROM profiles"); err != nil {
		log.Error("Failed to clear profiles table", "error", err)
	}
}

func (s *store) scanProfile(scanner interface{ Scan(...any) error }) (*PlayerProfile, error) {
	var (
		p            PlayerProfile
		displayName  sql.NullString
		partnersJSON sql.NullString
		createdAt    int64
		updatedAt    int64
	)

	err := scanner.Scan(
		&p.ID, &p.Username, &displayName, &p.SinglesRating, &p.DoublesRating, &p.OverallRating,
		&p.SinglesMatchesPlayed, &p.SinglesMatchesWon, &p.DoublesMatchesPlayed, &p.DoublesMatchesWon,
		&p.SinglesPointsScored, &p.SinglesPointsConceded, &p.DoublesPointsScored, &p.DoublesPointsConceded,
		&partnersJSON, &p.Version, &createdAt, &updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	p.DisplayName = displayName.String
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	p.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	p.TeamPartners = map[string]TeamPartnerStats{}
	if partnersJSON.Valid && partnersJSON.String != "" {
		if err := json.Unmarshal([]byte(partnersJSON.String), &p.TeamPartners); err != nil {
			log.Error("Failed to unmarshal team_partners_json", "error", err, "playerID", p.ID)
		}
	}

	p.recomputeDerived()
	return &p, nil
}
