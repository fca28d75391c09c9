package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"coach-partner/internal/config"
	"coach-partner/internal/repository"
	"coach-partner/internal/services"
	"coach-partner/pkg/database"
	"coach-partner/pkg/logging"
	"coach-partner/pkg/metrics"
)

func main() {
	// Parse command-line flags
	coachID := flag.Int64("coach-id", 1, "Coach ID the seeded team belongs to")
	teamName := flag.String("team-name", "Demo FC", "Name of the seeded team")
	sport := flag.String("sport", "football", "Sport of the seeded team")
	athletes := flag.Int("athletes", 18, "Roster size")
	weeks := flag.Int("weeks", 8, "Weeks of training history to generate")
	seed := flag.Int64("seed", 1, "Random seed for deterministic generation")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := logging.NewStructuredLogger("coach-partner-seeder", "1.0.0", logging.ParseLevel(cfg.Logging.Level))

	ctx := context.Background()
	logger.Info(ctx, "[SEEDER_START] Starting synthetic season seeding", logging.Fields{
		"version":   "1.0.0",
		"team_name": *teamName,
		"athletes":  *athletes,
		"weeks":     *weeks,
		"seed":      *seed,
	})

	// Initialize metrics collector
	metricsCollector := metrics.NewCollector("coach_partner_seeder")

	// Initialize database
	dbConfig := &database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetimeDuration(),
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTimeDuration(),
	}

	db, err := database.NewPostgresDB(dbConfig, logger, metricsCollector)
	if err != nil {
		logger.Fatal(ctx, "[SEEDER_ERROR] Failed to connect to database", logging.Fields{}, err)
	}
	defer db.Close()

	// Initialize repository and service
	teamRepo := repository.NewTeamRepository(db, logger, metricsCollector)
	seedService := services.NewSeedService(teamRepo, logger, metricsCollector)

	// Generate the season
	result, err := seedService.SeedSeason(ctx, services.SeedOptions{
		CoachID:  *coachID,
		TeamName: *teamName,
		Sport:    *sport,
		Athletes: *athletes,
		Weeks:    *weeks,
		Seed:     *seed,
	})
	if err != nil {
		logger.Fatal(ctx, "[SEEDER_ERROR] Seeding failed", logging.Fields{}, err)
	}

	// Print results
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("SEEDING COMPLETE")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Team ID:     %d\n", result.TeamID)
	fmt.Printf("Athletes:    %d\n", result.Athletes)
	fmt.Printf("Sessions:    %d\n", result.Sessions)
	fmt.Printf("Attendance:  %d\n", result.Attendance)
	fmt.Printf("Wellness:    %d\n", result.Wellness)
	fmt.Printf("Injuries:    %d\n", result.Injuries)
	fmt.Printf("Matches:     %d\n", result.Matches)
	fmt.Printf("Duration:    %v\n", result.Duration)

	logger.Info(ctx, "[SEEDER_COMPLETE] Seeding completed successfully", logging.Fields{
		"team_id":          result.TeamID,
		"sessions":         result.Sessions,
		"attendance":       result.Attendance,
		"duration_seconds": result.Duration.Seconds(),
	})
}
