package ledger

import (
	"rmrk-indexer/database"

	"gorm.io/gorm"
)

type ledgerDBGorm struct {
	g *gorm.DB
}

func (db *ledgerDBGorm) CountEventsByBlock(blockNumber uint64) (int64, error) {
	return database.CountEventsByBlock(db.g, blockNumber)
}

func (db *ledgerDBGorm) CreateEvent(e *database.Event) error {
	return database.CreateEvent(db.g, e)
}

func (db *ledgerDBGorm) CreateFailure(f *database.Failure) error {
	return database.CreateFailure(db.g, f)
}
