package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/daviramosds/starsoft-backend-challenge/internal/clock"
	"github.com/daviramosds/starsoft-backend-challenge/internal/config"
	"github.com/daviramosds/starsoft-backend-challenge/internal/database"
	"github.com/daviramosds/starsoft-backend-challenge/internal/repository"
	"github.com/daviramosds/starsoft-backend-challenge/internal/service"
)

// seed creates one demo session with a full seat map so the API can be
// exercised right after docker compose comes up.
func main() {
	title := flag.String("title", "Interstellar", "movie title for the demo session")
	room := flag.String("room", "IMAX-1", "room name")
	price := flag.Uint("price", 4500, "ticket price in cents")
	seats := flag.Int("seats", 64, "number of seats in the seat map")
	startIn := flag.Duration("start-in", 2*time.Hour, "how far in the future the session starts")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("mysql: open failed: %v", err)
	}
	defer db.Close()

	sessions := service.NewSessionService(repository.NewLedger(db), clock.NewSystem())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	start := time.Now().UTC().Add(*startIn).Truncate(time.Minute)
	session, err := sessions.Create(ctx, service.CreateSessionInput{
		MovieTitle:       *title,
		Room:             *room,
		StartTime:        start.Format(time.RFC3339),
		TicketPriceCents: uint32(*price),
		TotalSeats:       *seats,
	})
	if err != nil {
		log.Fatalf("seed session: %v", err)
	}
	log.Printf("seeded session %s (%q in %s at %s, %d seats)",
		session.ID, session.MovieTitle, session.Room, session.StartTime.Format(time.RFC3339), session.TotalSeats)
}
