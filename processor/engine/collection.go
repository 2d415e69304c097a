package engine

import (
	"rmrk-indexer/database"
	"rmrk-indexer/processor/consolidator"
	"rmrk-indexer/processor/ledger"
	"rmrk-indexer/rmrk"
	"strings"

	"github.com/shopspring/decimal"
)

// Max supply of a collection synthesized for an orphan mint
const autoCollectionMax = 9999

func (e *Engine) createCollection(rc *remarkContext) error {
	view, err := rc.remark.Collection()
	if err != nil {
		return err
	}
	rc.view = view
	if err := consolidator.Must(consolidator.IDPresent, true, view.ID); err != nil {
		return err
	}

	existing, err := e.db.FetchCollection(view.ID)
	if err != nil {
		return err
	}
	if err := consolidator.MustNotExist(existing); err != nil {
		return err
	}

	symbol := strings.TrimSpace(view.Symbol)
	name := strings.TrimSpace(view.Name)
	if len(name) == 0 {
		name = symbol
	}
	maxSupply := view.Max.Int64()
	if maxSupply < 0 {
		maxSupply = 0
	}
	collection := &database.Collection{
		ID:           view.ID,
		Version:      string(rc.remark.Version),
		Name:         name,
		Symbol:       symbol,
		Max:          uint64(maxSupply),
		Issuer:       rc.record.Caller,
		CurrentOwner: rc.record.Caller,
		Metadata:     view.Metadata,
		BlockNumber:  rc.record.BlockNumber,
		Created:      rc.record.Timestamp,
		Updated:      rc.record.Timestamp,
	}
	return e.saveNewCollection(rc, collection)
}

// Existing collection with the given id, or a new one owned by the caller if there is none
func (e *Engine) checkCollection(rc *remarkContext, id string) (*database.Collection, error) {
	collection, err := e.db.FetchCollection(id)
	if err != nil || collection != nil {
		return collection, err
	}
	collection = &database.Collection{
		ID:           id,
		Version:      string(rc.remark.Version),
		Name:         id,
		Symbol:       id,
		Max:          autoCollectionMax,
		Issuer:       rc.record.Caller,
		CurrentOwner: rc.record.Caller,
		BlockNumber:  rc.record.BlockNumber,
		Created:      rc.record.Timestamp,
		Updated:      rc.record.Timestamp,
	}
	if err := e.saveNewCollection(rc, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

func (e *Engine) saveNewCollection(rc *remarkContext, collection *database.Collection) error {
	eventID, err := e.appendEvent(rc, ledger.Entry{
		Interaction: rmrk.ActionMint,
		Collection:  collection.ID,
		Account:     rc.record.Caller,
		Price:       decimal.Zero,
	})
	if err != nil {
		return err
	}
	collection.AddEvent(eventID, rc.record.Timestamp)
	return e.db.SaveCollection(collection)
}

func (e *Engine) changeIssuer(rc *remarkContext) error {
	interaction, err := rc.remark.Interaction()
	if err != nil {
		return err
	}
	rc.view = interaction
	if err := consolidator.ValidateMeta(interaction); err != nil {
		return err
	}

	collection, err := e.db.FetchCollection(interaction.ID)
	if err != nil {
		return err
	}
	if err := consolidator.Must(consolidator.CollectionExists, true, collection); err != nil {
		return err
	}
	if err := consolidator.IsOwnerOrError(collection, rc.record.Caller); err != nil {
		return err
	}

	previousOwner := collection.CurrentOwner
	collection.CurrentOwner = interaction.Metadata

	eventID, err := e.appendEvent(rc, ledger.Entry{
		Interaction: rmrk.ActionChangeIssuer,
		Meta:        interaction.Metadata,
		Collection:  collection.ID,
		Account:     previousOwner,
		Price:       decimal.Zero,
	})
	if err != nil {
		return err
	}
	collection.AddEvent(eventID, rc.record.Timestamp)
	return e.db.SaveCollection(collection)
}
