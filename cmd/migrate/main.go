package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ms-attendance/internal/config"
	"ms-attendance/internal/database/migrations"
	"ms-attendance/internal/models"
)

func main() {
	down := flag.Bool("down", false, "roll back all migrations")
	seed := flag.Bool("seed", false, "insert sample data after migrating")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	sqldb, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatalf("❌ Failed to open PostgreSQL: %v", err)
	}
	defer sqldb.Close()

	if err := sqldb.Ping(); err != nil {
		log.Fatalf("❌ Failed to connect to PostgreSQL: %v", err)
	}

	bunDB := bun.NewDB(sqldb, pgdialect.New())
	runner := migrations.NewRunner(bunDB, migrations.MigrateOptions{
		MigrationsDir: cfg.Database.MigrationsDir,
	})

	if *down {
		if err := runner.MigrateDown(); err != nil {
			log.Fatalf("❌ Migration down failed: %v", err)
		}
		log.Println("✅ Rolled back all migrations")
		return
	}

	if err := runner.MigrateUp(); err != nil {
		log.Fatalf("❌ Migration up failed: %v", err)
	}

	version, dirty, err := runner.Version()
	if err != nil {
		log.Fatalf("❌ Failed to read schema version: %v", err)
	}
	log.Printf("✅ Schema at version %d (dirty=%v)", version, dirty)

	if *seed {
		if err := seedData(context.Background(), bunDB); err != nil {
			log.Fatalf("❌ Seeding failed: %v", err)
		}
		log.Println("✅ Sample data inserted")
	}
}

func seedData(ctx context.Context, db *bun.DB) error {
	service := models.Service{
		ID:        uuid.New().String(),
		Title:     "Sunday Service",
		Date:      time.Now().Format("2006-01-02"),
		CreatedAt: time.Now().UnixMilli(),
	}
	if _, err := db.NewInsert().Model(&service).Exec(ctx); err != nil {
		return err
	}

	records := []models.Attendance{
		{
			ID:         uuid.New().String(),
			ServiceID:  service.ID,
			Name:       "Alice Mensah",
			Category:   models.CategoryFemale,
			Email:      "alice@example.com",
			FirstTimer: models.FirstTimerNo,
			CreatedAt:  time.Now().UnixMilli(),
		},
		{
			ID:            uuid.New().String(),
			ServiceID:     service.ID,
			Name:          "Bob Owusu",
			Category:      models.CategoryMale,
			Phone:         "+233201234567",
			PrayerRequest: "Travelling mercies",
			FirstTimer:    models.FirstTimerYes,
			CreatedAt:     time.Now().UnixMilli(),
		},
		{
			ID:        uuid.New().String(),
			ServiceID: service.ID,
			Name:      "Kofi Owusu Jr",
			Category:  models.CategoryKids,
			CreatedAt: time.Now().UnixMilli(),
		},
	}
	_, err := db.NewInsert().Model(&records).Exec(ctx)
	return err
}
