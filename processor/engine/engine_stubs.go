package engine

import (
	"rmrk-indexer/database"

	"gorm.io/gorm"
)

type engineDB interface {
	FetchCollection(id string) (*database.Collection, error)
	SaveCollection(c *database.Collection) error
	FetchNFT(id string) (*database.NFT, error)
	SaveNFT(n *database.NFT) error
	FetchEmote(id string) (*database.Emote, error)
	CreateEmote(e *database.Emote) error
	DeleteEmote(id string) error
}

type engineDBGorm struct {
	g *gorm.DB
}

func (db *engineDBGorm) FetchCollection(id string) (*database.Collection, error) {
	return database.FetchCollection(db.g, id)
}

func (db *engineDBGorm) SaveCollection(c *database.Collection) error {
	return database.SaveCollection(db.g, c)
}

func (db *engineDBGorm) FetchNFT(id string) (*database.NFT, error) {
	return database.FetchNFT(db.g, id)
}

func (db *engineDBGorm) SaveNFT(n *database.NFT) error {
	return database.SaveNFT(db.g, n)
}

func (db *engineDBGorm) FetchEmote(id string) (*database.Emote, error) {
	return database.FetchEmote(db.g, id)
}

func (db *engineDBGorm) CreateEmote(e *database.Emote) error {
	return database.CreateEmote(db.g, e)
}

func (db *engineDBGorm) DeleteEmote(id string) error {
	return database.DeleteEmote(db.g, id)
}
