package runner

import (
	"rmrk-indexer/database"

	"gorm.io/gorm"
)

type runnerDB interface {
	FetchPendingRemarks(limit int) ([]*database.Remark, error)
	UpdateRemarkStatus(r *database.Remark) error
	TruncateDerivedData() error
}

type runnerDBGorm struct {
	g *gorm.DB
}

func (db *runnerDBGorm) FetchPendingRemarks(limit int) ([]*database.Remark, error) {
	return database.FetchPendingRemarks(db.g, limit)
}

func (db *runnerDBGorm) UpdateRemarkStatus(r *database.Remark) error {
	return database.UpdateRemarkStatus(db.g, r)
}

func (db *runnerDBGorm) TruncateDerivedData() error {
	return database.TruncateDerivedData(db.g)
}
