/*
main.go - Data retention job

Processes reservations created more than ten years ago, either
anonymizing their contact fields or deleting the records outright.
Meant to run from cron; the HTTP API exposes the same operation at
POST /api/admin/retention for manual runs.

FLAGS:
  -db          SQLite database path (default from DB_PATH)
  -anonymize   Blank contact fields instead of deleting rows
               (default from RETENTION_ANONYMIZE, true)
  -dry-run     Report the cutoff without touching anything
*/
package main

import (
	"context"
	"flag"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/maineblanc/booking-engine/booking"
	"github.com/maineblanc/booking-engine/config"
	"github.com/maineblanc/booking-engine/store/sqlite"
)

func main() {
	if err := config.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	cfg := config.Get()

	dbPath := flag.String("db", cfg.DB.Path, "SQLite database path")
	anonymize := flag.Bool("anonymize", cfg.Retention.Anonymize, "anonymize contact fields instead of deleting rows")
	dryRun := flag.Bool("dry-run", false, "report the cutoff without modifying anything")
	flag.Parse()

	now := time.Now()
	if *dryRun {
		cutoff := now.AddDate(-booking.RetentionYears, 0, 0)
		log.Info().
			Time("cutoff", cutoff).
			Bool("anonymize", *anonymize).
			Msg("dry run: reservations created before the cutoff would be processed")
		return
	}

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *dbPath).Msg("Failed to open database")
	}
	defer store.Close()

	result, err := booking.RunRetention(context.Background(), store, now, *anonymize)
	if err != nil {
		log.Fatal().Err(err).Msg("Retention run failed")
	}

	log.Info().
		Time("cutoff", result.Cutoff).
		Int("anonymized", result.Anonymized).
		Int("deleted", result.Deleted).
		Msg("retention run complete")
}
