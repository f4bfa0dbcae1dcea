package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-storage-samples/internal/config"
	"github.com/ariefcatur/go-storage-samples/internal/logging"
	"github.com/ariefcatur/go-storage-samples/internal/postgres"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	dsn := flag.String("dsn", cfg.PostgresDSN, "postgres connection string")
	flag.Parse()

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"}
	}
	command, args := arguments[0], arguments[1:]

	db, err := postgres.OpenDB(*dsn)
	if err != nil {
		log.Error("goose: open db", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.RunCommand(context.Background(), db, command, args...); err != nil {
		log.Error("goose command failed", "command", command, "err", err)
		db.Close()
		os.Exit(1)
	}
	fmt.Printf("goose %s success\n", command)
}
