package database

import (
	"gorm.io/gorm"
)

// Pending remarks, oldest first. Remarks in the same block keep their insertion order.
func FetchPendingRemarks(db *gorm.DB, limit int) ([]*Remark, error) {
	var remarks []*Remark
	err := db.Where("processed = ?", RemarkPending).
		Order("block_number asc").
		Order("id asc").
		Limit(limit).
		Find(&remarks).Error
	return remarks, err
}

func CreateRemarks(db *gorm.DB, remarks []*Remark) error {
	if len(remarks) == 0 { // attempt to create from an empty slice returns error
		return nil
	}
	return db.Create(remarks).Error
}

// Persists the processing outcome of a single remark, other columns are left untouched
func UpdateRemarkStatus(db *gorm.DB, r *Remark) error {
	return db.Model(r).
		Updates(map[string]interface{}{
			"processed":    r.Processed,
			"interaction":  r.Interaction,
			"spec_version": r.SpecVersion,
		}).Error
}

// Pending remarks without a payload can never be classified
func MarkEmptyRemarksMalformed(db *gorm.DB) (int64, error) {
	result := db.Model(&Remark{}).
		Where("processed = ? AND (value IS NULL OR value = ?)", RemarkPending, "").
		Update("processed", RemarkMalformed)
	return result.RowsAffected, result.Error
}

func FetchRemarksByStatus(db *gorm.DB, status RemarkStatus) ([]*Remark, error) {
	var remarks []*Remark
	err := db.Where("processed = ?", status).Order("id asc").Find(&remarks).Error
	return remarks, err
}

// Returns nil if the collection does not exist
func FetchCollection(db *gorm.DB, id string) (*Collection, error) {
	var collections []*Collection
	err := db.Where("id = ?", id).Limit(1).Find(&collections).Error
	if err != nil || len(collections) == 0 {
		return nil, err
	}
	return collections[0], nil
}

func FetchCollectionsByBlockNumber(db *gorm.DB, blockNumber uint64) ([]*Collection, error) {
	var collections []*Collection
	err := db.Where("block_number = ?", blockNumber).Order("id asc").Find(&collections).Error
	return collections, err
}

func SaveCollection(db *gorm.DB, c *Collection) error {
	return db.Save(c).Error
}

// Returns nil if the NFT does not exist
func FetchNFT(db *gorm.DB, id string) (*NFT, error) {
	var nfts []*NFT
	err := db.Where("id = ?", id).Limit(1).Find(&nfts).Error
	if err != nil || len(nfts) == 0 {
		return nil, err
	}
	return nfts[0], nil
}

func FetchNFTsByOwner(db *gorm.DB, owner string) ([]*NFT, error) {
	var nfts []*NFT
	err := db.Where("current_owner = ?", owner).Order("id asc").Find(&nfts).Error
	return nfts, err
}

func FetchNFTsByCollection(db *gorm.DB, collectionID string) ([]*NFT, error) {
	var nfts []*NFT
	err := db.Where("collection_id = ?", collectionID).Order("id asc").Find(&nfts).Error
	return nfts, err
}

func SaveNFT(db *gorm.DB, n *NFT) error {
	return db.Save(n).Error
}

// Returns nil if the emote does not exist
func FetchEmote(db *gorm.DB, id string) (*Emote, error) {
	var emotes []*Emote
	err := db.Where("id = ?", id).Limit(1).Find(&emotes).Error
	if err != nil || len(emotes) == 0 {
		return nil, err
	}
	return emotes[0], nil
}

func FetchEmotesByNFT(db *gorm.DB, nftID string) ([]*Emote, error) {
	var emotes []*Emote
	err := db.Where("nft_id = ?", nftID).Order("id asc").Find(&emotes).Error
	return emotes, err
}

func CreateEmote(db *gorm.DB, e *Emote) error {
	return db.Create(e).Error
}

func DeleteEmote(db *gorm.DB, id string) error {
	return db.Delete(&Emote{ID: id}).Error
}

func CreateEvent(db *gorm.DB, e *Event) error {
	return db.Create(e).Error
}

// Number of events already recorded in the given block
func CountEventsByBlock(db *gorm.DB, blockNumber uint64) (int64, error) {
	var count int64
	err := db.Model(&Event{}).Where("block_number = ?", blockNumber).Count(&count).Error
	return count, err
}

func FetchEvents(db *gorm.DB, ids []string) ([]*Event, error) {
	var events []*Event
	if len(ids) == 0 {
		return events, nil
	}
	err := db.Where("id IN ?", ids).Order("block_number asc").Order("id asc").Find(&events).Error
	return events, err
}

func CreateFailure(db *gorm.DB, f *Failure) error {
	return db.Create(f).Error
}

func FetchFailures(db *gorm.DB) ([]*Failure, error) {
	var failures []*Failure
	err := db.Order("timestamp asc").Find(&failures).Error
	return failures, err
}

func FetchMigrations(db *gorm.DB) ([]Migration, error) {
	var migrations []Migration
	err := db.Order("version asc").Find(&migrations).Error
	return migrations, err
}

func CreateMigration(db *gorm.DB, m *Migration) error {
	return db.Create(m).Error
}

func UpdateMigration(db *gorm.DB, m *Migration) error {
	return db.Save(m).Error
}
