package database

import (
	"rmrk-indexer/config"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func ConnectTestDB(cfg *config.DBConfig) (*gorm.DB, error) {
	var gormLogLevel logger.LogLevel
	if cfg.LogQueries {
		gormLogLevel = logger.Info
	} else {
		gormLogLevel = logger.Silent
	}
	gormConfig := gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel),
	}
	db, err := gorm.Open(sqlite.Open(":memory:"), &gormConfig)
	if err != nil {
		return nil, err
	}

	// Every new connection would open a new empty in-memory database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func ConnectAndInitializeTestDB(cfg *config.DBConfig) (*gorm.DB, error) {
	db, err := ConnectTestDB(cfg)
	if err != nil {
		return nil, err
	}

	// Initialize - auto migrate
	err = db.AutoMigrate(entities...)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Queries for testing
/////////////////////////////////////////////////////////////////////////////////////////

func CountRows(db *gorm.DB, model interface{}) (int64, error) {
	var count int64
	err := db.Model(model).Count(&count).Error
	return count, err
}

func FetchAllEvents(db *gorm.DB) ([]*Event, error) {
	var events []*Event
	err := db.Order("block_number asc").Order("id asc").Find(&events).Error
	return events, err
}

func FetchRemark(db *gorm.DB, id uint64) (*Remark, error) {
	var remark Remark
	err := db.First(&remark, id).Error
	return &remark, err
}
