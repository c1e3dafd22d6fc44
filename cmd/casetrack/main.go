package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/andresjgsalzate/case-management-system-sub003/internal/cli"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/db"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/repository"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.casetrack/casetrack.db
	dbPath := os.Getenv("CASETRACK_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".casetrack", "casetrack.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	workItemRepo := repository.NewSQLiteWorkItemRepo(database)
	controlRepo := repository.NewSQLiteControlRepo(database)
	timeEntryRepo := repository.NewSQLiteTimeEntryRepo(database)
	manualEntryRepo := repository.NewSQLiteManualTimeEntryRepo(database)
	snapshotRepo := repository.NewSQLiteSnapshotRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Use-case telemetry goes to stderr only when the output is being piped;
	// interactive runs stay quiet.
	var observerOut io.Writer
	if !isatty.IsTerminal(os.Stderr.Fd()) || os.Getenv("CASETRACK_LOG") != "" {
		observerOut = os.Stderr
	}
	observer := service.NewLogUseCaseObserver(observerOut)

	app := &cli.App{
		WorkItems: service.NewWorkItemService(workItemRepo, controlRepo, uow),
		Timer:     service.NewTimerService(uow, observer),
		Ledger:    service.NewLedgerService(timeEntryRepo, manualEntryRepo, uow, observer),
		Archive:   service.NewArchiveService(snapshotRepo, uow, observer),
		Restore: service.NewRestoreService(
			snapshotRepo, workItemRepo, controlRepo, timeEntryRepo, manualEntryRepo, uow, observer),
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
