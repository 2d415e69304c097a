package ledger

import (
	"encoding/json"
	"fmt"
	"rmrk-indexer/database"
	"rmrk-indexer/logger"
	"rmrk-indexer/rmrk"
	"rmrk-indexer/utils"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ledgerDB interface {
	CountEventsByBlock(blockNumber uint64) (int64, error)
	CreateEvent(e *database.Event) error
	CreateFailure(f *database.Failure) error
}

// Append-only event log and failure sink
type Ledger struct {
	db    ledgerDB
	clock utils.Clock
}

// Audit record of an accepted interaction
type Entry struct {
	Interaction rmrk.ActionKind
	Meta        string
	Collection  string
	NFT         string
	// Owner of the entity before the interaction was applied
	Account string
	Price   decimal.Decimal
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{
		db:    &ledgerDBGorm{g: db},
		clock: utils.SystemClock{},
	}
}

// Records the entry for the remark and returns the new event id
func (l *Ledger) AppendEvent(remark *database.Remark, entry Entry) (string, error) {
	index, err := l.db.CountEventsByBlock(remark.BlockNumber)
	if err != nil {
		return "", errors.Wrap(err, "counting events")
	}
	event := &database.Event{
		ID:                    rmrk.EventID(remark.BlockNumber, index),
		BlockNumber:           remark.BlockNumber,
		Timestamp:             remark.Timestamp,
		Caller:                remark.Caller,
		Interaction:           string(entry.Interaction),
		Meta:                  entry.Meta,
		InteractionCollection: entry.Collection,
		InteractionNFT:        entry.NFT,
		InteractionAccount:    entry.Account,
		NFTPrice:              entry.Price,
	}
	if err := l.db.CreateEvent(event); err != nil {
		return "", errors.Wrapf(err, "saving event %s", event.ID)
	}
	return event.ID, nil
}

// Records a rejected remark. Errors are only logged.
func (l *Ledger) LogFailure(value string, reason string, interaction rmrk.ActionKind, remark *database.Remark) {
	now := l.clock.Now()
	snapshot, err := json.Marshal(remark)
	if err != nil {
		snapshot = []byte(fmt.Sprintf("%+v", remark))
	}
	failure := &database.Failure{
		ID:          fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()),
		Value:       value,
		Reason:      reason,
		Interaction: string(interaction),
		Remark:      string(snapshot),
		Timestamp:   now,
	}
	if err := l.db.CreateFailure(failure); err != nil {
		logger.Warn("[FAIL IN FAIL] %s::%s %v", interaction, value, err)
	}
}
