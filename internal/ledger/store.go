package ledger

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new MatchStore backed by the given database.
func New(db *sql.DB) MatchStore {
	return &store{
		db: db,
	}
}

const matchColumns = `id, match_type, player1_id, player2_id, player1_score, player2_score, winner_id,
	team1_player1_id, team1_player2_id, team2_player1_id, team2_player2_id, team1_score, team2_score, winner_team,
	match_summary, created_by, played_at`

func (s *store) Create(m *MatchRecord) error {
	if err := m.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		player1ID, player2ID, winnerID                                 sql.NullString
		player1Score, player2Score                                     sql.NullInt64
		team1Player1ID, team1Player2ID, team2Player1ID, team2Player2ID sql.NullString
		team1Score, team2Score                                         sql.NullInt64
		winnerTeam                                                     sql.NullString
	)
	switch m.Type {
	case MatchTypeSingles:
		player1ID = sql.NullString{String: m.Singles.Player1ID, Valid: true}
		player2ID = sql.NullString{String: m.Singles.Player2ID, Valid: true}
		player1Score = sql.NullInt64{Int64: int64(m.Singles.Player1Score), Valid: true}
		player2Score = sql.NullInt64{Int64: int64(m.Singles.Player2Score), Valid: true}
		winnerID = sql.NullString{String: m.Singles.WinnerID, Valid: true}
	case MatchTypeDoubles:
		team1Player1ID = sql.NullString{String: m.Doubles.Team1Player1ID, Valid: true}
		team1Player2ID = sql.NullString{String: m.Doubles.Team1Player2ID, Valid: true}
		team2Player1ID = sql.NullString{String: m.Doubles.Team2Player1ID, Valid: true}
		team2Player2ID = sql.NullString{String: m.Doubles.Team2Player2ID, Valid: true}
		team1Score = sql.NullInt64{Int64: int64(m.Doubles.Team1Score), Valid: true}
		team2Score = sql.NullInt64{Int64: int64(m.Doubles.Team2Score), Valid: true}
		winnerTeam = sql.NullString{String: m.Doubles.WinnerTeam, Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO matches (`+matchColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		m.ID, string(m.Type), player1ID, player2ID, player1Score, player2Score, winnerID,
		team1Player1ID, team1Player2ID, team2Player1ID, team2Player2ID, team1Score, team2Score, winnerTeam,
		m.Summary, m.CreatedBy, m.PlayedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}
	log.Info("Recorded match", "matchID", m.ID, "type", m.Type)
	return nil
}

func (s *store) Get(id string) (*MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT `+matchColumns+` FROM matches WHERE id = ?`, id)
	return s.scanMatch(row)
}

func (s *store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM matches WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	log.Info("Deleted match", "matchID", id)
	return nil
}

func (s *store) List() ([]*MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT ` + matchColumns + ` FROM matches ORDER BY played_at DESC, id`)
	if err != nil {
		log.Error("Failed to query matches", "error", err)
		return nil, err
	}
	defer rows.Close()

	var matches []*MatchRecord
	for rows.Next() {
		m, err := s.scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (s *store) SetSummary(id, summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE matches SET match_summary = ? WHERE id = ?", summary, id)
	if err != nil {
		return fmt.Errorf("failed to set match summary: %w", err)
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

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec("DELETE FROM matches"); err != nil {
		log.Error("Failed to clear matches table", "error", err)
	}
}

func (s *store) scanMatch(scanner interface{ Scan(...any) error }) (*MatchRecord, error) {
	var (
		m                                                              MatchRecord
		matchType                                                      string
		player1ID, player2ID, winnerID                                 sql.NullString
		player1Score, player2Score                                     sql.NullInt64
		team1Player1ID, team1Player2ID, team2Player1ID, team2Player2ID sql.NullString
		team1Score, team2Score                                         sql.NullInt64
		winnerTeam, summary, createdBy                                 sql.NullString
		playedAt                                                       int64
	)

	err := scanner.Scan(
		&m.ID, &matchType, &player1ID, &player2ID, &player1Score, &player2Score, &winnerID,
		&team1Player1ID, &team1Player2ID, &team2Player1ID, &team2Player2ID, &team1Score, &team2Score, &winnerTeam,
		&summary, &createdBy, &playedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	m.Type = MatchType(matchType)
	m.Summary = summary.String
	m.CreatedBy = createdBy.String
	m.PlayedAt = time.Unix(playedAt, 0).UTC()

	switch m.Type {
	case MatchTypeSingles:
		m.Singles = &SinglesDetails{
			Player1ID:    player1ID.String,
			Player2ID:    player2ID.String,
			Player1Score: int(player1Score.Int64),
			Player2Score: int(player2Score.Int64),
			WinnerID:     winnerID.String,
		}
	case MatchTypeDoubles:
		m.Doubles = &DoublesDetails{
			Team1Player1ID: team1Player1ID.String,
			Team1Player2ID: team1Player2ID.String,
			Team2Player1ID: team2Player1ID.String,
			Team2Player2ID: team2Player2ID.String,
			Team1Score:     int(team1Score.Int64),
			Team2Score:     int(team2Score.Int64),
			WinnerTeam:     winnerTeam.String,
		}
	}

	return &m, nil
}
