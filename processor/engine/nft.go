package engine

import (
	"rmrk-indexer/database"
	"rmrk-indexer/processor/consolidator"
	"rmrk-indexer/processor/ledger"
	"rmrk-indexer/rmrk"
	"strings"

	"github.com/shopspring/decimal"
)

// Maximal depth of nesting followed when resolving the owner of an NFT
const maxNestingDepth = 32

// MINTNFT of any version and MINT under 1.0.0 or the legacy dialect
func (e *Engine) mintNFT(rc *remarkContext) error {
	nft, err := e.prepareMint(rc)
	if err != nil {
		return err
	}
	return e.saveMint(rc, nft)
}

// MINT under 2.0.0, the optional recipient is an account or the id of a parent NFT
func (e *Engine) mintNFTV2(rc *remarkContext) error {
	nft, err := e.prepareMint(rc)
	if err != nil {
		return err
	}

	recipient, err := rc.remark.MintRecipient()
	if err != nil {
		return err
	}
	if len(recipient) == 0 {
		return e.saveMint(rc, nft)
	}
	parent, err := e.db.FetchNFT(recipient)
	if err != nil {
		return err
	}
	if parent == nil {
		nft.CurrentOwner = recipient
		return e.saveMint(rc, nft)
	}

	if err := consolidator.Must(consolidator.IsBurned, false, parent); err != nil {
		return err
	}
	parent.AddChild(database.NFTChild{ID: nft.ID})
	nft.CurrentOwner = parent.ID
	if err := e.saveMint(rc, nft); err != nil {
		return err
	}
	return e.db.SaveNFT(parent)
}

// Decodes the NFT, resolves its collection and derives the id. The NFT is owned by the caller.
func (e *Engine) prepareMint(rc *remarkContext) (*database.NFT, error) {
	view, err := rc.remark.NFT()
	if err != nil {
		return nil, err
	}
	rc.view = view
	if err := consolidator.Must(consolidator.IDPresent, true, view.Collection); err != nil {
		return nil, err
	}

	collection, err := e.checkCollection(rc, view.Collection)
	if err != nil {
		return nil, err
	}
	if err := consolidator.IsOwnerOrError(collection, rc.record.Caller); err != nil {
		return nil, err
	}

	id := rmrk.NFTID(rc.remark.Version, view, rc.record.BlockNumber)
	existing, err := e.db.FetchNFT(id)
	if err != nil {
		return nil, err
	}
	if err := consolidator.MustNotExist(existing); err != nil {
		return nil, err
	}

	nft := &database.NFT{
		ID:           id,
		Version:      string(rc.remark.Version),
		CollectionID: collection.ID,
		Name:         strings.TrimSpace(view.Name),
		Instance:     strings.TrimSpace(view.Instance),
		SN:           view.SN.String(),
		Transferable: view.Transferable.Int64(),
		Issuer:       rc.record.Caller,
		CurrentOwner: rc.record.Caller,
		Metadata:     view.Metadata,
		Price:        decimal.Zero,
		BlockNumber:  rc.record.BlockNumber,
		Created:      rc.record.Timestamp,
		Updated:      rc.record.Timestamp,
	}
	return nft, nil
}

func (e *Engine) saveMint(rc *remarkContext, nft *database.NFT) error {
	err := e.recordNFTEvent(rc, nft, ledger.Entry{
		Interaction: rmrk.ActionMintNFT,
		Meta:        nft.Metadata,
		Collection:  nft.CollectionID,
		NFT:         nft.ID,
		Account:     rc.record.Caller,
		Price:       decimal.Zero,
	})
	if err != nil {
		return err
	}
	return e.db.SaveNFT(nft)
}

func (e *Engine) recordNFTEvent(rc *remarkContext, nft *database.NFT, entry ledger.Entry) error {
	eventID, err := e.appendEvent(rc, entry)
	if err != nil {
		return err
	}
	nft.AddEvent(eventID, rc.record.Timestamp)
	return nil
}

// Owners of the NFT starting with its direct owner and ending with the account at the root
// of the nesting tree. With accepted set, the chain ends at the first parent that has not
// accepted its child yet, so the last entry is that parent's id.
func (e *Engine) ownerChain(nft *database.NFT, accepted bool) ([]string, error) {
	chain := []string{nft.CurrentOwner}
	visited := map[string]bool{nft.ID: true}
	child := nft.ID
	owner := nft.CurrentOwner
	for len(chain) < maxNestingDepth && !visited[owner] {
		visited[owner] = true
		parent, err := e.db.FetchNFT(owner)
		if err != nil {
			return nil, err
		}
		if parent == nil || (accepted && parent.IsPendingChild(child)) {
			break
		}
		child = parent.ID
		owner = parent.CurrentOwner
		chain = append(chain, owner)
	}
	return chain, nil
}

// Account at the root of the nesting tree of the NFT, following accepted children only.
// An NFT id if the NFT or one of its ancestors is still pending.
func (e *Engine) rootOwner(nft *database.NFT) (string, error) {
	chain, err := e.ownerChain(nft, true)
	if err != nil {
		return "", err
	}
	return chain[len(chain)-1], nil
}
