package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mauv0809/squad-roster/internal/apperr"
	"github.com/mauv0809/squad-roster/internal/auth"
	"github.com/mauv0809/squad-roster/internal/database"
	"github.com/mauv0809/squad-roster/internal/match"
	"github.com/mauv0809/squad-roster/internal/roster"
	"github.com/mauv0809/squad-roster/internal/stats"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":        "esports.db",
		"MIGRATIONS_DIR": "./migrations",
	}
	for _, key := range []string{"DB_NAME", "MIGRATIONS_DIR", "TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"} {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	return config
}

var demoPlayers = []roster.NewPlayer{
	{Username: "seed_ace", GameUID: "100200301", RoleLabel: "Rusher"},
	{Username: "seed_bolt", GameUID: "100200302", RoleLabel: "Sniper"},
	{Username: "seed_cloud", GameUID: "100200303", RoleLabel: "Support"},
	{Username: "seed_dash", GameUID: "100200304", RoleLabel: "IGL"},
}

func main() {
	numMatches := flag.Int("matches", 200, "number of match records to create")
	days := flag.Int("days", 60, "spread records over this many past days")
	flag.Parse()

	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"], cfg["MIGRATIONS_DIR"])
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()

	ctx := context.Background()
	members := roster.New(db)
	records := stats.New(db)

	hash, err := auth.HashPassword("seedpass")
	if err != nil {
		log.Fatalf("Failed to hash seed password: %s", err)
	}

	players := make([]roster.Player, 0, len(demoPlayers))
	for _, np := range demoPlayers {
		np.PasswordHash = hash
		np.Role = roster.RolePlayer
		p, err := members.Create(ctx, np)
		if apperr.IsValidation(err) {
			// Already seeded on a previous run.
			p, err = members.GetByUsername(ctx, np.Username)
		}
		if err != nil {
			log.Fatalf("Failed to ensure player %s: %s", np.Username, err)
		}
		players = append(players, p)
	}
	log.Info("Ensured demo players exist.", "count", len(players))

	log.Info("Preparing to insert match records...", "total", *numMatches)
	startTime := time.Now()
	today := time.Now().UTC().Truncate(24 * time.Hour)

	for i := 0; i < *numMatches; i++ {
		p := players[rand.Intn(len(players))]
		r, err := match.New(match.Fields{
			PlayerID:   p.ID,
			Date:       today.AddDate(0, 0, -rand.Intn(*days)),
			Kills:      rand.Intn(15),
			Position:   1 + rand.Intn(50),
			Damage:     rand.Intn(3000),
			Survival:   rand.Intn(25),
			Type:       match.Types[rand.Intn(len(match.Types))],
			Screenshot: fmt.Sprintf("seed_%s.png", uuid.NewString()),
		})
		if err != nil {
			log.Fatalf("Failed to build record: %s", err)
		}
		if _, err := records.Insert(ctx, r); err != nil {
			if apperr.IsValidation(err) || apperr.IsNotFound(err) {
				log.Warn("Skipping record", "error", err)
				continue
			}
			log.Fatalf("Failed to insert record: %s", err)
		}
		if (i+1)%50 == 0 {
			log.Info("Inserted records", "completed", i+1, "total", *numMatches)
		}
	}

	log.Info("Successfully seeded match records.", "duration", time.Since(startTime))
}
