package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/minishop-backend/pkg/config"
	"github.com/angelmondragon/minishop-backend/pkg/db"
	"github.com/angelmondragon/minishop-backend/pkg/logger"
	"github.com/angelmondragon/minishop-backend/pkg/migrate"
)

func main() {
	cmd := flag.String("cmd", "up", "up|down|status|to|create|validate")
	name := flag.String("name", "", "migration name for -cmd=create")
	dir := flag.String("dir", migrate.SourceDir, "source directory for create and validate")
	version := flag.Int64("version", 0, "target version (YYYYMMDDHHMMSS) for -cmd=to")
	flag.Parse()

	_ = godotenv.Load()

	// file commands work without config or a database
	switch *cmd {
	case "create":
		path, err := migrate.NewFile(*dir, *name, time.Now())
		exitOn(err)
		fmt.Println("created", path)
		return
	case "validate":
		exitOn(migrate.Validate(os.DirFS(*dir)))
		fmt.Println("migrations ok")
		return
	}

	cfg, err := config.Load()
	exitOn(err)

	logg := logger.New(logger.Options{
		ServiceName: "minishop-migrate",
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
		Console:     cfg.App.LogFormat == "console",
	})
	ctx := logg.WithFields(context.Background(), map[string]any{"env": cfg.App.Env, "cmd": *cmd})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "migrate.db_unavailable", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		logg.Error(ctx, "migrate.db_unavailable", err)
		os.Exit(1)
	}

	if *cmd == "to" {
		err = migrate.ApplyTo(ctx, sqlDB, *version)
	} else {
		err = migrate.Apply(ctx, sqlDB, migrate.Command(*cmd))
	}
	if err != nil {
		logg.Error(ctx, "migrate.failed", err)
		dbClient.Close()
		os.Exit(1)
	}
	logg.Info(ctx, "migrate.done")
}

func exitOn(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
