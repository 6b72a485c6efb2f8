package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/asanchezr/consultor/internal/cli"
	"github.com/asanchezr/consultor/internal/db"
	"github.com/asanchezr/consultor/internal/engine"
	"github.com/asanchezr/consultor/internal/intents"
	"github.com/asanchezr/consultor/internal/repository"
	"github.com/asanchezr/consultor/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.consultor/consultor.db
	dbPath := os.Getenv("CONSULTOR_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".consultor", "consultor.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	uow := db.NewSQLiteUnitOfWork(database)
	recorder := repository.NewSQLiteRecorder(uow, database)

	var observer engine.Observer = engine.NoopObserver{}
	if os.Getenv("CONSULTOR_LOG") == "1" {
		observer = engine.NewLogObserver(os.Stderr)
	}

	classifier := intents.NewClassifier(intents.LoadConfig())
	finder := repository.NewSimilarityIndex(database)
	eng := engine.NewEngine(session.NewMemoryStore(), classifier, recorder, finder, observer)

	app := &cli.App{
		Engine:    eng,
		Proposals: repository.NewSQLiteProposalLogRepo(database),
		Messages:  repository.NewSQLiteMessageRepo(database),
	}

	// Detect interactive terminal for the chat entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
