package engine

import (
	"rmrk-indexer/database"
	"rmrk-indexer/processor/consolidator"
	"rmrk-indexer/processor/ledger"
	"rmrk-indexer/rmrk"
)

// Clears the pending flag of a resource or a child NFT
func (e *Engine) accept(rc *remarkContext) error {
	accept, err := rc.remark.Accept()
	if err != nil {
		return err
	}
	rc.view = accept

	nft, err := e.db.FetchNFT(accept.ID1)
	if err != nil {
		return err
	}
	if err := mustBeAlive(nft); err != nil {
		return err
	}

	switch accept.Entity {
	case rmrk.AcceptResource:
		nft.AcceptResource(accept.ID2)
	case rmrk.AcceptNFT:
		nft.AcceptChild(accept.ID2)
	default:
		return &consolidator.ValidationError{
			Rule:    "entity",
			Subject: nft.ID,
			Detail:  "unknown entity " + string(accept.Entity),
		}
	}

	err = e.recordNFTEvent(rc, nft, ledger.Entry{
		Interaction: rmrk.ActionAccept,
		Meta:        accept.ID2,
		Collection:  nft.CollectionID,
		NFT:         nft.ID,
		Account:     nft.CurrentOwner,
		Price:       nft.Price,
	})
	if err != nil {
		return err
	}
	return e.db.SaveNFT(nft)
}

// Adds a resource, pending unless the caller owns the NFT
func (e *Engine) resAdd(rc *remarkContext) error {
	nftID, res, err := rc.remark.ResAdd()
	if err != nil {
		return err
	}
	rc.view = &rmrk.Interaction{ID: nftID, Metadata: res.Metadata}

	nft, err := e.db.FetchNFT(nftID)
	if err != nil {
		return err
	}
	if err := mustBeAlive(nft); err != nil {
		return err
	}

	nft.AddResource(database.Resource{
		ID:       res.ID,
		Src:      res.Src,
		Metadata: res.Metadata,
		Pending:  !consolidator.IsOwner(nft, rc.record.Caller),
		Slot:     res.Slot,
		Base:     res.Base,
		Parts:    res.Parts,
	})

	err = e.recordNFTEvent(rc, nft, ledger.Entry{
		Interaction: rmrk.ActionResAdd,
		Meta:        res.Metadata,
		Collection:  nft.CollectionID,
		NFT:         nft.ID,
		Account:     nft.CurrentOwner,
		Price:       nft.Price,
	})
	if err != nil {
		return err
	}
	return e.db.SaveNFT(nft)
}
