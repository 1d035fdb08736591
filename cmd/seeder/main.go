package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

type seedPlayer struct {
	id       string
	username string
	name     string
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	// Create 4 dummy players to use in matches
	dummyPlayers := []seedPlayer{
		{id: "player-1", username: "seeder.a", name: "Seeder Player A"},
		{id: "player-2", username: "seeder.b", name: "Seeder Player B"},
		{id: "player-3", username: "seeder.c", name: "Seeder Player C"},
		{id: "player-4", username: "seeder.d", name: "Seeder Player D"},
	}

	now := time.Now().Unix()
	for _, p := range dummyPlayers {
		_, err := db.Exec(
			"INSERT OR IGNORE INTO profiles (id, username, display_name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			p.id, p.username, p.name, now, now,
		)
		if err != nil {
			log.Fatalf("Failed to insert dummy player %s: %s", p.name, err)
		}
	}
	log.Info("Ensured dummy players exist.")

	const batchSize = 100 // Insert 100 matches at a time
	const numMatches = 10000

	log.Info("Preparing to insert dummy matches...", "total", numMatches, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*17) // 17 columns per match

	for i := 0; i < numMatches; i++ {
		matchTime := time.Now().Add(-time.Duration(rand.Intn(365*24)) * time.Hour)
		winScore := 21
		loseScore := rand.Intn(20)

		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		if i%2 == 0 {
			// Singles between the first two players.
			valueArgs = append(valueArgs,
				uuid.NewString(),
				"singles",
				dummyPlayers[0].id,
				dummyPlayers[1].id,
				winScore,
				loseScore,
				dummyPlayers[0].id,
				nil, nil, nil, nil, nil, nil, nil,
				nil,
				dummyPlayers[0].id,
				matchTime.Unix(),
			)
		} else {
			// Doubles with all four players.
			valueArgs = append(valueArgs,
				uuid.NewString(),
				"doubles",
				nil, nil, nil, nil, nil,
				dummyPlayers[0].id,
				dummyPlayers[1].id,
				dummyPlayers[2].id,
				dummyPlayers[3].id,
				winScore,
				loseScore,
				"team1",
				nil,
				dummyPlayers[0].id,
				matchTime.Unix(),
			)
		}

		if (i+1)%batchSize == 0 || (i+1) == numMatches {
			stmt := fmt.Sprintf(`
				INSERT INTO matches (id, match_type, player1_id, player2_id, player1_score, player2_score,
					winner_id, team1_player1_id, team1_player2_id, team2_player1_id, team2_player2_id,
					team1_score, team2_score, winner_team, match_summary, created_by, played_at)
				VALUES %s;`, strings.Join(valueStrings, ","))

			_, err := tx.Exec(stmt, valueArgs...)
			if err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute batch insert: %s", err)
			}

			// Reset for the next batch
			valueStrings = make([]string, 0, batchSize)
			valueArgs = make([]interface{}, 0, batchSize*17)
			log.Info("Inserted batch", "completed", i+1, "total", numMatches)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted all dummy matches.", "duration", duration)
}
