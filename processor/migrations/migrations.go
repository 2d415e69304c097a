package migrations

import (
	"rmrk-indexer/database"
	"rmrk-indexer/logger"
	"sort"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var Container = &MigrationContainer{}

type migration struct {
	version     string
	description string
	execute     func(db *gorm.DB) error
}

// Versioned data migrations, executed once in the order of their versions
type MigrationContainer struct {
	migrations []migration
}

// Version is a sortable timestamp, e.g., "2023-01-27-00-00"
func (c *MigrationContainer) Add(version string, description string, execute func(db *gorm.DB) error) {
	c.migrations = append(c.migrations, migration{
		version:     version,
		description: description,
		execute:     execute,
	})
}

// Executes all migrations that have not completed yet. Stops at the first failed migration.
func (c *MigrationContainer) ExecuteAll(db *gorm.DB) error {
	executed, err := database.FetchMigrations(db)
	if err != nil {
		return errors.Wrap(err, "fetching migrations")
	}
	byVersion := make(map[string]*database.Migration, len(executed))
	for i := range executed {
		byVersion[executed[i].Version] = &executed[i]
	}

	pending := make([]migration, len(c.migrations))
	copy(pending, c.migrations)
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].version < pending[j].version
	})

	for _, m := range pending {
		row, ok := byVersion[m.version]
		if ok && row.Status == database.MigrationCompleted {
			continue
		}
		if !ok {
			row = &database.Migration{
				Version:     m.version,
				Description: m.description,
				Status:      database.MigrationPending,
			}
			if err := database.CreateMigration(db, row); err != nil {
				return errors.Wrapf(err, "creating migration %s", m.version)
			}
		}
		if err := c.execute(db, m, row); err != nil {
			return err
		}
	}
	return nil
}

func (c *MigrationContainer) execute(db *gorm.DB, m migration, row *database.Migration) error {
	logger.Info("Executing migration %s: %s", m.version, m.description)

	start := time.Now()
	err := database.DoInTransaction(db, m.execute)
	row.ExecutedAt = start
	row.Duration = int(time.Since(start).Milliseconds())
	if err != nil {
		row.Status = database.MigrationFailed
	} else {
		row.Status = database.MigrationCompleted
	}
	if updateErr := database.UpdateMigration(db, row); updateErr != nil {
		logger.Error("Error updating migration %s status: %v", m.version, updateErr)
	}
	if err != nil {
		return errors.Wrapf(err, "migration %s failed", m.version)
	}
	return nil
}
