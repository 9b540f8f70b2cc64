package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"rentflow/internal/database"
	"rentflow/internal/modules/reservation"
	"rentflow/internal/repository"
)

// One-shot sweep for external schedulers (cron, systemd timers). The API
// process also runs an in-process loop; both share the same idempotent
// bulk transition.
func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	sweeper := reservation.NewSweeper(repository.NewReservationRepository(db), 0)
	count, err := sweeper.Sweep(context.Background())
	if err != nil {
		log.Fatalf("hold sweep failed: %v", err)
	}

	log.Printf("hold sweep completed: expired=%d", count)
}
