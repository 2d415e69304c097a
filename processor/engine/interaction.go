package engine

import (
	"rmrk-indexer/database"
	"rmrk-indexer/processor/consolidator"
	"rmrk-indexer/processor/ledger"
	"rmrk-indexer/rmrk"

	"github.com/shopspring/decimal"
)

func (e *Engine) fetchInteraction(rc *remarkContext) (*rmrk.Interaction, *database.NFT, error) {
	interaction, err := rc.remark.Interaction()
	if err != nil {
		return nil, nil, err
	}
	rc.view = interaction
	nft, err := e.db.FetchNFT(interaction.ID)
	if err != nil {
		return nil, nil, err
	}
	return interaction, nft, nil
}

func mustBeAlive(nft *database.NFT) error {
	if err := consolidator.Must(consolidator.NFTExists, true, nft); err != nil {
		return err
	}
	return consolidator.Must(consolidator.IsBurned, false, nft)
}

// CONSUME and its 2.0.0 alias BURN. The event keeps the alias used by the remark.
func (e *Engine) consume(rc *remarkContext) error {
	interaction, nft, err := e.fetchInteraction(rc)
	if err != nil {
		return err
	}
	if err := mustBeAlive(nft); err != nil {
		return err
	}
	if err := consolidator.IsOwnerOrError(nft, rc.record.Caller); err != nil {
		return err
	}

	previousOwner := nft.CurrentOwner
	nft.Price = decimal.Zero
	nft.Burned = true

	err = e.recordNFTEvent(rc, nft, ledger.Entry{
		Interaction: rc.remark.Action,
		Meta:        interaction.Metadata,
		Collection:  nft.CollectionID,
		NFT:         nft.ID,
		Account:     previousOwner,
		Price:       decimal.Zero,
	})
	if err != nil {
		return err
	}
	return e.db.SaveNFT(nft)
}

// Sets the asking price, 0 withdraws the NFT from sale
func (e *Engine) list(rc *remarkContext) error {
	interaction, nft, err := e.fetchInteraction(rc)
	if err != nil {
		return err
	}
	if err := consolidator.ValidateNFT(nft); err != nil {
		return err
	}
	if err := consolidator.ValidateMeta(interaction); err != nil {
		return err
	}
	if err := consolidator.IsOwnerOrError(nft, rc.record.Caller); err != nil {
		return err
	}
	price, err := consolidator.ParsePrice(interaction.Metadata)
	if err != nil {
		return err
	}
	if err := consolidator.IsPositiveOrError(price, false); err != nil {
		return err
	}

	nft.Price = price
	err = e.recordNFTEvent(rc, nft, ledger.Entry{
		Interaction: rmrk.ActionList,
		Meta:        interaction.Metadata,
		Collection:  nft.CollectionID,
		NFT:         nft.ID,
		Account:     nft.CurrentOwner,
		Price:       price,
	})
	if err != nil {
		return err
	}
	return e.db.SaveNFT(nft)
}

// Emotes toggle, a repeated emote removes the previous one. No event is recorded.
func (e *Engine) emote(rc *remarkContext) error {
	interaction, err := rc.remark.Emote()
	if err != nil {
		return err
	}
	rc.view = interaction
	if err := consolidator.ValidateMeta(interaction); err != nil {
		return err
	}
	nft, err := e.db.FetchNFT(interaction.ID)
	if err != nil {
		return err
	}
	if err := mustBeAlive(nft); err != nil {
		return err
	}

	id := rmrk.EmoteID(nft.ID, rc.record.Caller, interaction.Metadata)
	existing, err := e.db.FetchEmote(id)
	if err != nil {
		return err
	}
	if existing != nil {
		return e.db.DeleteEmote(id)
	}
	return e.db.CreateEmote(&database.Emote{
		ID:        id,
		NFTID:     nft.ID,
		Caller:    rc.record.Caller,
		Value:     interaction.Metadata,
		Timestamp: rc.record.Timestamp,
	})
}
