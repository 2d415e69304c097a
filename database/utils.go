package database

import (
	"fmt"
	"rmrk-indexer/config"
	"rmrk-indexer/logger"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	gormMysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"moul.io/zapgorm2"
)

var (
	// List entities to auto-migrate
	entities []interface{} = []interface{}{
		Migration{},
		Remark{},
		Collection{},
		NFT{},
		Emote{},
		Event{},
		Failure{},
	}

	// Derived entities, cleared by a full resync. Remarks are never truncated.
	derivedEntities []interface{} = []interface{}{
		&Event{},
		&Failure{},
		&Emote{},
		&NFT{},
		&Collection{},
	}
)

func ConnectAndInitialize(cfg *config.DBConfig) (*gorm.DB, error) {
	db, err := Connect(cfg)
	if err != nil {
		return nil, err
	}

	// Initialize - auto migrate
	err = db.AutoMigrate(entities...)
	if err != nil {
		return nil, errors.Wrap(err, "auto migrate")
	}
	return db, nil
}

func Connect(cfg *config.DBConfig) (*gorm.DB, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}
	gormConfig := gorm.Config{
		Logger: newGormLogger(cfg),
	}
	db, err := gorm.Open(dialector, &gormConfig)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to %s database", cfg.Driver)
	}
	return db, nil
}

func openDialector(cfg *config.DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverMySQL, "":
		dbConfig := mysql.Config{
			User:                 cfg.Username,
			Passwd:               cfg.Password,
			Net:                  "tcp",
			Addr:                 fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			DBName:               cfg.Database,
			AllowNativePasswords: true,
			ParseTime:            true,
		}
		return gormMysql.Open(dbConfig.FormatDSN()), nil
	case config.DriverPostgres:
		dsn := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database,
		)
		return postgres.Open(dsn), nil
	case config.DriverSQLite:
		// Database is the file name, e.g., "rmrk.db" or ":memory:"
		return sqlite.Open(cfg.Database), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// gorm logs through the application logger, queries are logged only if requested
func newGormLogger(cfg *config.DBConfig) gormLogger.Interface {
	zl := zapgorm2.New(logger.Logger())
	zl.IgnoreRecordNotFoundError = true
	if cfg.LogQueries {
		return zl.LogMode(gormLogger.Info)
	}
	return zl.LogMode(gormLogger.Silent)
}

func DoInTransaction(db *gorm.DB, operations ...func(db *gorm.DB) error) error {
	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, f := range operations {
		if err := f(tx); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit().Error
}

// Delete all events, failures, emotes, NFTs and collections
func TruncateDerivedData(db *gorm.DB) error {
	return DoInTransaction(db, func(tx *gorm.DB) error {
		for _, e := range derivedEntities {
			err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(e).Error
			if err != nil {
				return errors.Wrapf(err, "truncating %T", e)
			}
		}
		return nil
	})
}
