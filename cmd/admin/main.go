package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/server"
	"github.com/dmitrijs2005/fooddiary/internal/server/admincli"
	"github.com/dmitrijs2005/fooddiary/internal/server/config"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/repomanager"
)

func main() {

	cmd, err := admincli.ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	// Connection settings come from the environment and .env only; the
	// arguments belong to the command.
	cfg := config.LoadConfigFromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := server.OpenDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migrations error: %v", err)
	}

	_, err = admincli.CreateAdmin(ctx, rm.Users(db), cmd.Email, func() (string, error) {
		return admincli.PromptNewPassword(os.Stdout)
	}, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}
}
