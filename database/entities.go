package database

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Abstact entity, all other entities with a surrogate key should be derived from it
type BaseEntity struct {
	ID uint64 `gorm:"primaryKey"`
}

type Migration struct {
	BaseEntity
	Version     string `gorm:"type:varchar(50);unique;not null"`
	Description string `gorm:"type:varchar(256)"`
	ExecutedAt  time.Time
	Duration    int
	Status      MigrationStatus `gorm:"type:varchar(20)"`
}

// Sibling call from the same batched transaction as the remark
type ExtraCall struct {
	Section string   `json:"section"`
	Method  string   `json:"method"`
	Args    []string `json:"args"`
}

// Raw remark as produced by the remark source. The processor only changes its status.
type Remark struct {
	BaseEntity
	Value       string `gorm:"type:text;not null"`
	Caller      string `gorm:"type:varchar(66);index"`
	BlockNumber uint64 `gorm:"index"`
	Timestamp   time.Time
	Extra       datatypes.JSONSlice[ExtraCall]
	Processed   RemarkStatus `gorm:"index;not null;default:0"`

	// Filled when the remark is processed, diagnostics only
	Interaction string `gorm:"type:varchar(20)"`
	SpecVersion string `gorm:"type:varchar(10)"`
}

type Collection struct {
	ID           string `gorm:"primaryKey;type:varchar(255)"`
	Version      string `gorm:"type:varchar(10)"`
	Name         string `gorm:"type:varchar(255)"`
	Symbol       string `gorm:"type:varchar(255)"`
	Max          uint64
	Issuer       string `gorm:"type:varchar(66);index"`
	CurrentOwner string `gorm:"type:varchar(66);index"`
	Metadata     string `gorm:"type:text"`
	BlockNumber  uint64 `gorm:"index"`
	Created      time.Time
	Updated      time.Time
	Events       datatypes.JSONSlice[string]
}

type NFTChild struct {
	ID       string `json:"id"`
	Equipped string `json:"equipped"`
	Pending  bool   `json:"pending"`
}

type Resource struct {
	ID       string   `json:"id"`
	Src      string   `json:"src,omitempty"`
	Metadata string   `json:"metadata,omitempty"`
	Pending  bool     `json:"pending"`
	Slot     string   `json:"slot,omitempty"`
	Base     string   `json:"base,omitempty"`
	Parts    []string `json:"parts,omitempty"`
}

type NFT struct {
	ID           string `gorm:"primaryKey;type:varchar(255)"`
	Version      string `gorm:"type:varchar(10)"`
	CollectionID string `gorm:"type:varchar(255);index"`
	Name         string `gorm:"type:varchar(255)"`
	Instance     string `gorm:"type:varchar(255)"`
	SN           string `gorm:"type:varchar(64)"`
	Transferable int64
	Issuer       string `gorm:"type:varchar(66);index"`
	// Account address or the id of the parent NFT
	CurrentOwner string          `gorm:"type:varchar(255);index"`
	Metadata     string          `gorm:"type:text"`
	Price        decimal.Decimal `gorm:"type:decimal(65,0)"`
	Burned       bool
	BlockNumber  uint64 `gorm:"index"`
	Children     datatypes.JSONSlice[NFTChild]
	Resources    datatypes.JSONSlice[Resource]
	Priority     datatypes.JSONSlice[string]
	Created      time.Time
	Updated      time.Time
	Events       datatypes.JSONSlice[string]
}

type Emote struct {
	ID        string `gorm:"primaryKey;type:varchar(64)"`
	NFTID     string `gorm:"type:varchar(255);index"`
	Caller    string `gorm:"type:varchar(66)"`
	Value     string `gorm:"type:varchar(255)"`
	Timestamp time.Time
}

// Audit record, never updated
type Event struct {
	ID                    string `gorm:"primaryKey;type:varchar(50)"`
	BlockNumber           uint64 `gorm:"index"`
	Timestamp             time.Time
	Caller                string          `gorm:"type:varchar(66)"`
	Interaction           string          `gorm:"type:varchar(20)"`
	Meta                  string          `gorm:"type:text"`
	InteractionCollection string          `gorm:"type:varchar(255);index"`
	InteractionNFT        string          `gorm:"type:varchar(255);index"`
	InteractionAccount    string          `gorm:"type:varchar(255)"`
	NFTPrice              decimal.Decimal `gorm:"type:decimal(65,0)"`
}

// Rejected remark
type Failure struct {
	ID          string `gorm:"primaryKey;type:varchar(64)"`
	Value       string `gorm:"type:text"`
	Reason      string `gorm:"type:text"`
	Interaction string `gorm:"type:varchar(20)"`
	Remark      string `gorm:"type:text"`
	Timestamp   time.Time
}
