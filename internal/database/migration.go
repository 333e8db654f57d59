package database

import (
	"fmt"

	"github.com/wfunc/hangman-game/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models lists every table owned by the service, in migration order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Word{},
		&models.Game{},
	}
}

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	if db == nil {
		return fmt.Errorf("database not initialised")
	}

	// sqlite files are shared between processes started side by side in dev
	if path := sqlitePath(db); path != "" {
		CleanupStaleLocks(path, log)
		lockFile, err := acquireMigrationLock(path, log)
		if err != nil {
			return fmt.Errorf("acquire migration lock: %w", err)
		}
		defer releaseMigrationLock(lockFile, log)
	}

	log.Info("Running database migration")

	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			log.Error("Migration failed", zap.String("model", fmt.Sprintf("%T", model)), zap.Error(err))
			return err
		}
		log.Debug("Migrated", zap.String("model", fmt.Sprintf("%T", model)))
	}

	if err := createIndexes(db, log); err != nil {
		return err
	}

	log.Info("Database migration completed")
	return nil
}

// createIndexes adds indexes gorm tags cannot express.
func createIndexes(db *gorm.DB, log *zap.Logger) error {
	statements := map[string]string{
		"idx_games_status_user": "CREATE INDEX IF NOT EXISTS idx_games_status_user ON games(game_status, user_id)",
	}

	if db.Dialector.Name() == "mysql" {
		// mysql has no CREATE INDEX IF NOT EXISTS
		if db.Migrator().HasIndex(&models.Game{}, "idx_games_status_user") {
			return nil
		}
		statements["idx_games_status_user"] = "CREATE INDEX idx_games_status_user ON games(game_status, user_id)"
	}

	for name, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			log.Warn("Create index failed", zap.String("index", name), zap.Error(err))
		}
	}
	return nil
}
