package jobs

import (
	"log/slog"

	"devconnect/internal/database"
)

// MaintenanceJob keeps the SQLite WAL from growing without bound by forcing a
// periodic full checkpoint.
type MaintenanceJob struct {
	dbManager *database.DBManager
	logger    *slog.Logger
}

func NewMaintenanceJob(dbManager *database.DBManager, logger *slog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		dbManager: dbManager,
		logger:    logger,
	}
}

// Run checkpoints the write-ahead log back into the main database file.
func (j *MaintenanceJob) Run() error {
	if err := j.dbManager.CheckpointWAL("FULL"); err != nil {
		j.logger.Error("WAL checkpoint failed", slog.Any("error", err))
		return err
	}
	j.logger.Debug("WAL checkpoint completed")
	return nil
}
