package main

import (
	"context"
	"os"

	"github.com/ghuser/clickcollect/migrations"
	"github.com/ghuser/clickcollect/pkg/config"
	"github.com/ghuser/clickcollect/pkg/logger"
	"github.com/ghuser/clickcollect/pkg/migrator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg)

	res, err := migrator.RunMigrations(context.Background(), cfg.DatabaseURL, migrations.FS)
	if err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations complete", "from_version", res.From, "to_version", res.To, "applied", res.Applied())
}
