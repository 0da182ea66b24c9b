package main

import (
	"database/sql"
	"flag"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/pageza/despensa/backend/config"
	"github.com/pageza/despensa/backend/internal/database"
	"github.com/pageza/despensa/backend/internal/logger"
)

func main() {
	down := flag.Int("down", 0, "Roll back this many migrations instead of applying pending ones")
	dir := flag.String("dir", "", "Migrations directory (defaults to MIGRATIONS_DIR)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if cfg.DBDriver != "postgres" {
		log.WithField("driver", cfg.DBDriver).Fatal("SQL migrations only apply to postgres; SQLite is auto-migrated on startup")
	}

	migrationsDir := cfg.MigrationsDir
	if *dir != "" {
		migrationsDir = *dir
	}

	db, err := sql.Open("postgres", database.URL(cfg))
	if err != nil {
		log.WithError(err).Fatal("Failed to open database")
	}
	defer db.Close()

	if *down > 0 {
		err = database.MigrateDown(db, migrationsDir, *down, log)
	} else {
		err = database.MigrateUp(db, migrationsDir, log)
	}
	if err != nil {
		log.WithError(err).Fatal("Migration failed")
	}
}
