package engine

import (
	"rmrk-indexer/database"
	"rmrk-indexer/processor/consolidator"
	"rmrk-indexer/processor/ledger"
	"rmrk-indexer/rmrk"
)

func (e *Engine) fetchSend(rc *remarkContext) (*rmrk.SendInteraction, *database.NFT, error) {
	send, err := rc.remark.Send()
	if err != nil {
		return nil, nil, err
	}
	rc.view = send
	if err := consolidator.Must(consolidator.IDPresent, true, send.Recipient); err != nil {
		return nil, nil, err
	}
	nft, err := e.db.FetchNFT(send.ID)
	if err != nil {
		return nil, nil, err
	}
	if err := consolidator.ValidateNFT(nft); err != nil {
		return nil, nil, err
	}
	return send, nft, nil
}

// Instant transfer to an account, there is no nesting before 2.0.0
func (e *Engine) sendV1(rc *remarkContext) error {
	send, nft, err := e.fetchSend(rc)
	if err != nil {
		return err
	}
	if err := consolidator.IsOwnerOrError(nft, rc.record.Caller); err != nil {
		return err
	}
	return e.transfer(rc, nft, send.Recipient)
}

// Transfer to an account, or nesting under an existing NFT. The nested NFT stays pending
// until the owner of the new parent accepts it.
func (e *Engine) sendV2(rc *remarkContext) error {
	send, nft, err := e.fetchSend(rc)
	if err != nil {
		return err
	}
	if err := e.isRootOwnerOrError(nft, rc.record.Caller); err != nil {
		return err
	}

	target, err := e.db.FetchNFT(send.Recipient)
	if err != nil {
		return err
	}
	if target == nil {
		return e.transfer(rc, nft, send.Recipient)
	}
	if err := consolidator.Must(consolidator.IsBurned, false, target); err != nil {
		return err
	}
	if err := e.mustNotNestIntoItself(nft, target); err != nil {
		return err
	}

	targetOwner, err := e.rootOwner(target)
	if err != nil {
		return err
	}
	previousOwner := nft.CurrentOwner
	var previousParent *database.NFT
	if previousOwner == target.ID {
		previousParent = target
	} else if previousParent, err = e.db.FetchNFT(previousOwner); err != nil {
		return err
	}
	if previousParent != nil {
		previousParent.RemoveChild(nft.ID)
	}

	target.AddChild(database.NFTChild{
		ID:      nft.ID,
		Pending: targetOwner != rc.record.Caller,
	})
	nft.CurrentOwner = target.ID

	err = e.recordNFTEvent(rc, nft, ledger.Entry{
		Interaction: rmrk.ActionSend,
		Meta:        target.ID,
		Collection:  nft.CollectionID,
		NFT:         nft.ID,
		Account:     previousOwner,
		Price:       nft.Price,
	})
	if err != nil {
		return err
	}
	if err := e.db.SaveNFT(nft); err != nil {
		return err
	}
	if previousParent != nil && previousParent != target {
		if err := e.db.SaveNFT(previousParent); err != nil {
			return err
		}
	}
	return e.db.SaveNFT(target)
}

// Reassigns the NFT to the recipient account. The price is kept.
func (e *Engine) transfer(rc *remarkContext, nft *database.NFT, recipient string) error {
	previousOwner := nft.CurrentOwner
	previousParent, err := e.db.FetchNFT(previousOwner)
	if err != nil {
		return err
	}
	nft.CurrentOwner = recipient

	err = e.recordNFTEvent(rc, nft, ledger.Entry{
		Interaction: rmrk.ActionSend,
		Meta:        recipient,
		Collection:  nft.CollectionID,
		NFT:         nft.ID,
		Account:     previousOwner,
		Price:       nft.Price,
	})
	if err != nil {
		return err
	}
	if err := e.db.SaveNFT(nft); err != nil {
		return err
	}
	if previousParent != nil && previousParent.RemoveChild(nft.ID) {
		return e.db.SaveNFT(previousParent)
	}
	return nil
}

func (e *Engine) buy(rc *remarkContext) error {
	interaction, err := rc.remark.Interaction()
	if err != nil {
		return err
	}
	rc.view = interaction

	nft, err := e.db.FetchNFT(interaction.ID)
	if err != nil {
		return err
	}
	if err := consolidator.ValidateNFT(nft); err != nil {
		return err
	}
	if err := consolidator.IsPositiveOrError(nft.Price, true); err != nil {
		return err
	}
	if err := consolidator.IsBuyLegalOrError(nft, rc.record.Extra); err != nil {
		return err
	}
	price, err := consolidator.UnwrapBuyPrice(nft, rc.record.Extra)
	if err != nil {
		return err
	}

	previousOwner := nft.CurrentOwner
	nft.Price = price
	nft.CurrentOwner = rc.record.Caller

	err = e.recordNFTEvent(rc, nft, ledger.Entry{
		Interaction: rmrk.ActionBuy,
		Meta:        interaction.Metadata,
		Collection:  nft.CollectionID,
		NFT:         nft.ID,
		Account:     previousOwner,
		Price:       price,
	})
	if err != nil {
		return err
	}
	return e.db.SaveNFT(nft)
}

// Direct owner, or the account owning the nesting tree through accepted children only
func (e *Engine) isRootOwnerOrError(nft *database.NFT, caller string) error {
	if consolidator.IsOwner(nft, caller) {
		return nil
	}
	owner, err := e.rootOwner(nft)
	if err != nil {
		return err
	}
	if owner == caller {
		return nil
	}
	return consolidator.IsOwnerOrError(nft, caller)
}

func (e *Engine) mustNotNestIntoItself(nft *database.NFT, target *database.NFT) error {
	if target.ID == nft.ID {
		return &consolidator.ValidationError{Rule: "nesting", Subject: nft.ID, Detail: "cannot send NFT to itself"}
	}
	chain, err := e.ownerChain(target, false)
	if err != nil {
		return err
	}
	for _, owner := range chain {
		if owner == nft.ID {
			return &consolidator.ValidationError{Rule: "nesting", Subject: nft.ID, Detail: "cannot send NFT to its descendant " + target.ID}
		}
	}
	return nil
}
