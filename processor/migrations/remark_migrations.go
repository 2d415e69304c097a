package migrations

import (
	"rmrk-indexer/database"
	"rmrk-indexer/logger"

	"gorm.io/gorm"
)

func init() {
	Container.Add("2023-05-02-00-00", "Mark empty pending remarks as malformed", markEmptyRemarksMalformed)
}

func markEmptyRemarksMalformed(db *gorm.DB) error {
	count, err := database.MarkEmptyRemarksMalformed(db)
	if err != nil {
		return err
	}
	logger.Info("Marked %d empty remarks as malformed", count)
	return nil
}
