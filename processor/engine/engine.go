package engine

import (
	"encoding/json"
	"fmt"
	"rmrk-indexer/database"
	"rmrk-indexer/logger"
	"rmrk-indexer/processor/ledger"
	"rmrk-indexer/rmrk"

	mapset "github.com/deckarep/golang-set/v2"
	"gorm.io/gorm"
)

var (
	allVersions = []rmrk.SpecVersion{rmrk.SpecV01, rmrk.SpecV1, rmrk.SpecV2}

	// Actions introduced by the 2.0.0 standard
	v2OnlyActions = mapset.NewSet(rmrk.ActionAccept, rmrk.ActionResAdd)
)

type eventLedger interface {
	AppendEvent(remark *database.Remark, entry ledger.Entry) (string, error)
	LogFailure(value string, reason string, interaction rmrk.ActionKind, remark *database.Remark)
}

// State of a single remark while it is being handled
type remarkContext struct {
	record *database.Remark
	remark *rmrk.Remark

	// Decoded view of the interaction, recorded with failures
	view interface{}
}

type handlerFunc func(e *Engine, rc *remarkContext) error

type route struct {
	tag     string
	failure rmrk.ActionKind
	handle  handlerFunc
}

// Outcome of processing one remark
type Result struct {
	Status  database.RemarkStatus
	Action  rmrk.ActionKind
	Version rmrk.SpecVersion
	Skipped bool
	Failed  bool
}

// Applies remarks to the collection, NFT and emote state. Not safe for concurrent use.
type Engine struct {
	db     engineDB
	ledger eventLedger
	routes map[rmrk.ActionKind]map[rmrk.SpecVersion]route
}

func New(db *gorm.DB) *Engine {
	return newEngine(&engineDBGorm{g: db}, ledger.New(db))
}

func newEngine(db engineDB, l eventLedger) *Engine {
	return &Engine{
		db:     db,
		ledger: l,
		routes: newRoutes(),
	}
}

func newRoutes() map[rmrk.ActionKind]map[rmrk.SpecVersion]route {
	routes := make(map[rmrk.ActionKind]map[rmrk.SpecVersion]route)
	add := func(action rmrk.ActionKind, versions []rmrk.SpecVersion, r route) {
		if _, ok := routes[action]; !ok {
			routes[action] = make(map[rmrk.SpecVersion]route)
		}
		for _, v := range versions {
			if v != rmrk.SpecV2 && v2OnlyActions.Contains(action) {
				continue
			}
			routes[action][v] = r
		}
	}
	v1 := []rmrk.SpecVersion{rmrk.SpecV01, rmrk.SpecV1}
	v2 := []rmrk.SpecVersion{rmrk.SpecV2}

	add(rmrk.ActionCreate, allVersions, route{"COLLECTION", rmrk.ActionCreate, (*Engine).createCollection})
	add(rmrk.ActionMint, v1, route{"COLLECTION", rmrk.ActionMint, (*Engine).createCollection})
	add(rmrk.ActionMint, v2, route{"MINT_NFT V2", rmrk.ActionMintNFT, (*Engine).mintNFTV2})
	add(rmrk.ActionMintNFT, allVersions, route{"MINT_NFT", rmrk.ActionMintNFT, (*Engine).mintNFT})
	add(rmrk.ActionSend, v1, route{"SEND V1", rmrk.ActionSend, (*Engine).sendV1})
	add(rmrk.ActionSend, v2, route{"SEND V2", rmrk.ActionSend, (*Engine).sendV2})
	add(rmrk.ActionBuy, allVersions, route{"BUY", rmrk.ActionBuy, (*Engine).buy})
	add(rmrk.ActionConsume, allVersions, route{"CONSUME", rmrk.ActionConsume, (*Engine).consume})
	add(rmrk.ActionBurn, allVersions, route{"BURN", rmrk.ActionBurn, (*Engine).consume})
	add(rmrk.ActionList, allVersions, route{"LIST", rmrk.ActionList, (*Engine).list})
	add(rmrk.ActionChangeIssuer, allVersions, route{"CHANGEISSUER", rmrk.ActionChangeIssuer, (*Engine).changeIssuer})
	add(rmrk.ActionEmote, allVersions, route{"EMOTE", rmrk.ActionEmote, (*Engine).emote})
	add(rmrk.ActionAccept, allVersions, route{"ACCEPT", rmrk.ActionAccept, (*Engine).accept})
	add(rmrk.ActionResAdd, allVersions, route{"RESADD", rmrk.ActionResAdd, (*Engine).resAdd})
	return routes
}

// Decode the remark and apply it. Rejected interactions are recorded as failures and the
// remark is still handled, only remarks that cannot be classified are malformed.
func (e *Engine) Process(record *database.Remark) Result {
	remark, err := rmrk.Parse(record.Value)
	if err != nil {
		logger.Error("[MALFORMED] %d::%s %v", record.BlockNumber, record.Value, err)
		return Result{Status: database.RemarkMalformed}
	}
	result := Result{
		Status:  database.RemarkHandled,
		Action:  remark.Action,
		Version: remark.Version,
	}

	r, ok := e.routes[remark.Action][remark.Version]
	if !ok {
		logger.Warn("[SKIP] %s::%s::%s::%d", remark.Action, remark.Version, record.Value, record.BlockNumber)
		result.Skipped = true
		return result
	}

	rc := &remarkContext{record: record, remark: remark}
	if err := e.apply(r, rc); err != nil {
		value := rc.failureValue()
		logger.Warn("[%s] %v %s", r.tag, err, value)
		e.ledger.LogFailure(value, err.Error(), r.failure, record)
		result.Failed = true
	}
	return result
}

func (e *Engine) apply(r route, rc *remarkContext) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic in %s handler: %v", r.tag, p)
		}
	}()
	return r.handle(e, rc)
}

func (e *Engine) appendEvent(rc *remarkContext, entry ledger.Entry) (string, error) {
	return e.ledger.AppendEvent(rc.record, entry)
}

// Serialized interaction, the decoded text if decoding did not get that far
func (rc *remarkContext) failureValue() string {
	if rc.view == nil {
		return rc.remark.Text
	}
	return toJSON(rc.view)
}

func toJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}
