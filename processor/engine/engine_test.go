package engine

import (
	"fmt"
	"rmrk-indexer/config"
	"rmrk-indexer/database"
	"rmrk-indexer/processor/ledger"
	"rmrk-indexer/rmrk"
	"rmrk-indexer/utils"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type engineTest struct {
	t      *testing.T
	db     *gorm.DB
	engine *Engine
}

func newEngineTest(t *testing.T) *engineTest {
	db, err := database.ConnectAndInitializeTestDB(&config.DBConfig{})
	require.NoError(t, err)
	return &engineTest{t: t, db: db, engine: New(db)}
}

func (et *engineTest) process(block uint64, caller string, value string, extra ...database.ExtraCall) Result {
	record := &database.Remark{
		Value:       value,
		Caller:      caller,
		BlockNumber: block,
		Timestamp:   utils.ParseTime("2022-03-01T12:00:00Z").Add(time.Duration(block) * 6 * time.Second),
		Extra:       extra,
	}
	return et.engine.Process(record)
}

func (et *engineTest) mustProcess(block uint64, caller string, value string, extra ...database.ExtraCall) {
	result := et.process(block, caller, value, extra...)
	require.Equal(et.t, database.RemarkHandled, result.Status, value)
	require.False(et.t, result.Failed, value)
	require.False(et.t, result.Skipped, value)
}

func (et *engineTest) mustFail(block uint64, caller string, value string, extra ...database.ExtraCall) {
	result := et.process(block, caller, value, extra...)
	require.Equal(et.t, database.RemarkHandled, result.Status, value)
	require.True(et.t, result.Failed, value)
}

func (et *engineTest) nft(id string) *database.NFT {
	nft, err := database.FetchNFT(et.db, id)
	require.NoError(et.t, err)
	require.NotNil(et.t, nft, id)
	return nft
}

func (et *engineTest) collection(id string) *database.Collection {
	collection, err := database.FetchCollection(et.db, id)
	require.NoError(et.t, err)
	require.NotNil(et.t, collection, id)
	return collection
}

func (et *engineTest) count(model interface{}) int64 {
	count, err := database.CountRows(et.db, model)
	require.NoError(et.t, err)
	return count
}

func (et *engineTest) failures() []*database.Failure {
	failures, err := database.FetchFailures(et.db)
	require.NoError(et.t, err)
	return failures
}

func (et *engineTest) eventsOf(interaction rmrk.ActionKind, nftID string) []*database.Event {
	events, err := database.FetchAllEvents(et.db)
	require.NoError(et.t, err)
	result := make([]*database.Event, 0)
	for _, e := range events {
		if e.Interaction == string(interaction) && e.InteractionNFT == nftID {
			result = append(result, e)
		}
	}
	return result
}

func createCollection(version rmrk.SpecVersion, id string) string {
	return fmt.Sprintf(`RMRK::CREATE::%s::{"id":"%s","symbol":"%s","max":100,"metadata":"ipfs://%s"}`, version, id, id, id)
}

func mintNFT(collection string, instance string, sn string) string {
	return fmt.Sprintf(`RMRK::MINTNFT::1.0.0::{"collection":"%s","name":"%s","instance":"%s","sn":"%s","transferable":1,"metadata":"ipfs://nft"}`,
		collection, instance, instance, sn)
}

func mintNFTV2(collection string, symbol string, sn string, recipient string) string {
	value := fmt.Sprintf(`RMRK::MINT::2.0.0::{"collection":"%s","symbol":"%s","sn":"%s","transferable":1,"metadata":"ipfs://nft"}`,
		collection, symbol, sn)
	if len(recipient) > 0 {
		value += "::" + recipient
	}
	return value
}

func payment(to string, amount string) database.ExtraCall {
	return database.ExtraCall{Section: "balances", Method: "transfer", Args: []string{to, amount}}
}

func TestCreateCollection(t *testing.T) {
	et := newEngineTest(t)
	et.mustProcess(10, "alice", `RMRK::CREATE::2.0.0::{"id":"KAN","symbol":" KAN ","max":100,"metadata":"ipfs://kan"}`)

	collection := et.collection("KAN")
	assert.Equal(t, "KAN", collection.Symbol)
	assert.Equal(t, "KAN", collection.Name)
	assert.Equal(t, uint64(100), collection.Max)
	assert.Equal(t, "alice", collection.Issuer)
	assert.Equal(t, "alice", collection.CurrentOwner)
	assert.Equal(t, "10-0", collection.EventIDs())

	et.mustFail(11, "bob", createCollection(rmrk.SpecV2, "KAN"))
	require.Equal(t, "alice", et.collection("KAN").CurrentOwner)

	failures := et.failures()
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Reason, "already exists")
	assert.Equal(t, string(rmrk.ActionCreate), failures[0].Interaction)
}

func TestLegacyMintCreatesCollection(t *testing.T) {
	et := newEngineTest(t)
	et.mustProcess(10, "alice", `RMRK::MINT::1.0.0::{"name":"Kanaria","max":0,"issuer":"alice","symbol":"KAN","id":"KAN-1","metadata":"ipfs://kan"}`)

	collection := et.collection("KAN-1")
	assert.Equal(t, "Kanaria", collection.Name)
	assert.Equal(t, string(rmrk.SpecV1), collection.Version)
}

func TestMintThenSend(t *testing.T) {
	et := newEngineTest(t)
	et.mustProcess(10, "alice", createCollection(rmrk.SpecV1, "KAN"))
	et.mustProcess(11, "alice", mintNFT("KAN", "BIRD", "01"))

	id := "11-KAN-BIRD-01"
	nft := et.nft(id)
	require.Equal(t, "alice", nft.CurrentOwner)
	require.Equal(t, "alice", nft.Issuer)
	require.True(t, nft.Price.IsZero())
	require.False(t, nft.Burned)

	et.mustProcess(12, "alice", "RMRK::SEND::1.0.0::"+id+"::bob")

	nft = et.nft(id)
	require.Equal(t, "bob", nft.CurrentOwner)
	require.Equal(t, "11-0,12-0", nft.EventIDs())

	sends := et.eventsOf(rmrk.ActionSend, id)
	require.Len(t, sends, 1)
	assert.Equal(t, "bob", sends[0].Meta)
	assert.Equal(t, "alice", sends[0].InteractionAccount)

	// Previous owner can no longer send it
	et.mustFail(13, "alice", "RMRK::SEND::1.0.0::"+id+"::carol")
	require.Equal(t, "bob", et.nft(id).CurrentOwner)
}

func TestMintRequiresCollectionOwner(t *testing.T) {
	et := newEngineTest(t)
	et.mustProcess(10, "alice", createCollection(rmrk.SpecV1, "KAN"))
	et.mustFail(11, "bob", mintNFT("KAN", "BIRD", "01"))
	require.Equal(t, int64(0), et.count(&database.NFT{}))
	assert.Equal(t, string(rmrk.ActionMintNFT), et.failures()[0].Interaction)
}

func TestLegacyIdentifierCollision(t *testing.T) {
	et := newEngineTest(t)
	et.mustProcess(10, "alice", `RMRK::MINT::0.1::{"id":"KAN","name":"Kanaria","max":10,"symbol":"KAN"}`)
	et.mustProcess(11, "alice", `RMRK::MINTNFT::0.1::{"collection":"KAN","instance":"EGG","sn":"1","transferable":1,"metadata":"first"}`)
	et.mustFail(12, "alice", `RMRK::MINTNFT::0.1::{"collection":"KAN","instance":"EGG","sn":"1","transferable":1,"metadata":"second"}`)

	nft := et.nft("KAN-EGG-1")
	require.Equal(t, "first", nft.Metadata)
	require.Equal(t, uint64(11), nft.BlockNumber)

	failures := et.failures()
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Reason, "already exists")
}

func TestBurnedIsTerminal(t *testing.T) {
	et := newEngineTest(t)
	et.mustProcess(10, "alice", createCollection(rmrk.SpecV1, "KAN"))
	et.mustProcess(11, "alice", mintNFT("KAN", "BIRD", "01"))
	id := "11-KAN-BIRD-01"

	et.mustProcess(12, "alice", "RMRK::LIST::1.0.0::"+id+"::100")
	et.mustFail(13, "bob", "RMRK::CONSUME::1.0.0::"+id)
	et.mustProcess(14, "alice", "RMRK::CONSUME::1.0.0::"+id+"::reason")

	burned := et.nft(id)
	require.True(t, burned.Burned)
	require.True(t, burned.Price.IsZero())
	consumed := et.eventsOf(rmrk.ActionConsume, id)
	require.Len(t, consumed, 1)
	assert.Equal(t, "reason", consumed[0].Meta)

	for i, value := range []string{
		"RMRK::BURN::2.0.0::" + id,
		"RMRK::CONSUME::1.0.0::" + id,
		"RMRK::LIST::1.0.0::" + id + "::10",
		"RMRK::SEND::1.0.0::" + id + "::bob",
		"RMRK::SEND::2.0.0::" + id + "::bob",
		"RMRK::BUY::1.0.0::" + id,
		"RMRK::ACCEPT::2.0.0::" + id + "::RES::res-1",
		`RMRK::RESADD::2.0.0::` + id + `::{"id":"res-1","src":"ipfs://src"}`,
		"RMRK::EMOTE::1.0.0::" + id + "::1F389",
	} {
		et.mustFail(uint64(20+i), "alice", value)
	}

	after := et.nft(id)
	require.Equal(t, burned, after)
	require.Len(t, et.failures(), 10)
}

func TestBurnAliasIsRecorded(t *testing.T) {
	et := newEngineTest(t)
	et.mustProcess(10, "alice", createCollection(rmrk.SpecV2, "KAN"))
	et.mustProcess(11, "alice", mintNFTV2("KAN", "BIRD", "01", ""))
	et.mustProcess(12, "alice", "RMRK::BURN::2.0.0::11-KAN-BIRD-01")

	require.True(t, et.nft("11-KAN-BIRD-01").Burned)
	require.Len(t, et.eventsOf(rmrk.ActionBurn, "11-KAN-BIRD-01"), 1)
	require.Len(t, et.eventsOf(rmrk.ActionConsume, "11-KAN-BIRD-01"), 0)
}

func TestListThenBuy(t *testing.T) {
	et := newEngineTest(t)
	et.mustProcess(10, "alice", createCollection(rmrk.SpecV1, "KAN"))
	et.mustProcess(11, "alice", mintNFT("KAN", "BIRD", "01"))
	id := "11-KAN-BIRD-01"

	et.mustFail(12, "bob", "RMRK::LIST::1.0.0::"+id+"::100")
	et.mustFail(13, "alice", "RMRK::LIST::1.0.0::"+id+"::-5")
	et.mustFail(14, "alice", "RMRK::LIST::1.0.0::"+id+"::1.5")
	et.mustProcess(15, "alice", "RMRK::LIST::1.0.0::"+id+"::100")
	require.True(t, decimal.NewFromInt(100).Equal(et.nft(id).Price))

	et.mustProcess(16, "bob", "RMRK::BUY::1.0.0::"+id,
		database.ExtraCall{Section: "system", Method: "remark", Args: []string{"RMRK::BUY::1.0.0::" + id}},
		payment("alice", "150"),
	)

	nft := et.nft(id)
	require.Equal(t, "bob", nft.CurrentOwner)
	require.True(t, decimal.NewFromInt(150).Equal(nft.Price), nft.Price.String())

	buys := et.eventsOf(rmrk.ActionBuy, id)
	require.Len(t, buys, 1)
	assert.Equal(t, "alice", buys[0].InteractionAccount)
	assert.Equal(t, "bob", buys[0].Caller)
	assert.True(t, decimal.NewFromInt(150).Equal(buys[0].NFTPrice))
}

func TestBuyWithoutPayment(t *testing.T) {
	et := newEngineTest(t)
	et.mustProcess(10, "alice", createCollection(rmrk.SpecV1, "KAN"))
	et.mustProcess(11, "alice", mintNFT("KAN", "BIRD", "01"))
	id := "11-KAN-BIRD-01"

	// Not listed
	et.mustFail(12, "bob", "RMRK::BUY::1.0.0::"+id, payment("alice", "150"))

	et.mustProcess(13, "alice", "RMRK::LIST::1.0.0::"+id+"::100")
	before := et.nft(id)

	et.mustFail(14, "bob", "RMRK::BUY::1.0.0::"+id)
	et.mustFail(15, "bob", "RMRK::BUY::1.0.0::"+id, payment("alice", "50"))
	et.mustFail(16, "bob", "RMRK::BUY::1.0.0::"+id, payment("carol", "150"))

	require.Equal(t, before, et.nft(id))
	failures := et.failures()
	require.Len(t, failures, 4)
	illegal := 0
	for _, f := range failures {
		assert.Equal(t, string(rmrk.ActionBuy), f.Interaction)
		if strings.Contains(f.Reason, "ILLEGAL BUY") {
			illegal++
		}
	}
	require.Equal(t, 3, illegal)
}

func TestNestingRoundTrip(t *testing.T) {
	et := newEngineTest(t)
	et.mustProcess(10, "alice", createCollection(rmrk.SpecV2, "KAN"))
	et.mustProcess(11, "bob", createCollection(rmrk.SpecV2, "BOB"))
	et.mustProcess(12, "alice", mintNFTV2("KAN", "X", "01", ""))
	et.mustProcess(13, "bob", mintNFTV2("BOB", "Y", "01", ""))
	x, y := "12-KAN-X-01", "13-BOB-Y-01"

	et.mustProcess(14, "alice", "RMRK::SEND::2.0.0::"+x+"::"+y)
	require.Equal(t, y, et.nft(x).CurrentOwner)
	require.Equal(t, []database.NFTChild{{ID: x, Pending: true}}, []database.NFTChild(et.nft(y).Children))

	et.mustProcess(15, "bob", "RMRK::ACCEPT::2.0.0::"+y+"::NFT::"+x)
	require.Equal(t, []database.NFTChild{{ID: x, Pending: false}}, []database.NFTChild(et.nft(y).Children))
	require.Equal(t, y, et.nft(x).CurrentOwner)
	require.Equal(t, "bob", et.nft(y).CurrentOwner)

	// The parent can not be nested into its own child
	et.mustFail(16, "bob", "RMRK::SEND::2.0.0::"+y+"::"+x)
	et.mustFail(17, "bob", "RMRK::SEND::2.0.0::"+y+"::"+y)

	// Root owner takes the child out
	et.mustProcess(18, "bob", "RMRK::SEND::2.0.0::"+x+"::carol")
	require.Equal(t, "carol", et.nft(x).CurrentOwner)
	require.Empty(t, et.nft(y).Children)
}

func TestPendingChildCannotBeSentByParentOwner(t *testing.T) {
	et := newEngineTest(t)
	et.mustProcess(10, "alice", createCollection(rmrk.SpecV2, "KAN"))
	et.mustProcess(11, "bob", createCollection(rmrk.SpecV2, "BOB"))
	et.mustProcess(12, "alice", mintNFTV2("KAN", "X", "01", ""))
	et.mustProcess(13, "bob", mintNFTV2("BOB", "Y", "01", ""))
	et.mustProcess(14, "bob", mintNFTV2("BOB", "Z", "01", ""))
	x, y, z := "12-KAN-X-01", "13-BOB-Y-01", "14-BOB-Z-01"

	et.mustProcess(15, "alice", "RMRK::SEND::2.0.0::"+x+"::"+y)
	require.True(t, et.nft(y).IsPendingChild(x))

	et.mustFail(16, "bob", "RMRK::SEND::2.0.0::"+x+"::mallory")
	et.mustFail(17, "bob", "RMRK::SEND::2.0.0::"+x+"::"+z)
	require.Equal(t, y, et.nft(x).CurrentOwner)
	require.Equal(t, []database.NFTChild{{ID: x, Pending: true}}, []database.NFTChild(et.nft(y).Children))
	require.Empty(t, et.nft(z).Children)
	require.Len(t, et.eventsOf(rmrk.ActionSend, x), 1)
	for _, f := range et.failures() {
		assert.Equal(t, string(rmrk.ActionSend), f.Interaction)
	}
	require.Len(t, et.failures(), 2)

	et.mustProcess(18, "bob", "RMRK::ACCEPT::2.0.0::"+y+"::NFT::"+x)
	et.mustProcess(19, "bob", "RMRK::SEND::2.0.0::"+x+"::mallory")
	require.Equal(t, "mallory", et.nft(x).CurrentOwner)
	require.Empty(t, et.nft(y).Children)
}

func TestSendIntoPendingSubtreeStaysPending(t *testing.T) {
	et := newEngineTest(t)
	et.mustProcess(10, "alice", createCollection(rmrk.SpecV2, "KAN"))
	et.mustProcess(11, "bob", createCollection(rmrk.SpecV2, "BOB"))
	et.mustProcess(12, "alice", mintNFTV2("KAN", "X", "01", ""))
	et.mustProcess(13, "alice", mintNFTV2("KAN", "W", "01", ""))
	et.mustProcess(14, "bob", mintNFTV2("BOB", "Y", "01", ""))
	x, w, y := "12-KAN-X-01", "13-KAN-W-01", "14-BOB-Y-01"

	// Y has not accepted X yet, so X does not count as owned by alice
	et.mustProcess(15, "alice", "RMRK::SEND::2.0.0::"+x+"::"+y)
	et.mustProcess(16, "alice", "RMRK::SEND::2.0.0::"+w+"::"+x)
	require.Equal(t, []database.NFTChild{{ID: w, Pending: true}}, []database.NFTChild(et.nft(x).Children))
}

func TestSendIntoOwnNFTIsAccepted(t *testing.T) {
	et := newEngineTest(t)
	et.mustProcess(10, "alice", createCollection(rmrk.SpecV2, "KAN"))
	et.mustProcess(11, "alice", mintNFTV2("KAN", "A", "01", ""))
	et.mustProcess(12, "alice", mintNFTV2("KAN", "B", "01", ""))
	et.mustProcess(13, "alice", mintNFTV2("KAN", "C", "01", ""))
	a, b, c := "11-KAN-A-01", "12-KAN-B-01", "13-KAN-C-01"

	et.mustProcess(14, "alice", "RMRK::SEND::2.0.0::"+a+"::"+b)
	require.Equal(t, []database.NFTChild{{ID: a}}, []database.NFTChild(et.nft(b).Children))

	// Moving between parents removes it from the previous one
	et.mustProcess(15, "alice", "RMRK::SEND::2.0.0::"+a+"::"+c)
	require.Empty(t, et.nft(b).Children)
	require.Equal(t, []database.NFTChild{{ID: a}}, []database.NFTChild(et.nft(c).Children))
	require.Equal(t, c, et.nft(a).CurrentOwner)
}

func TestMintV2Recipient(t *testing.T) {
	et := newEngineTest(t)
	et.mustProcess(10, "alice", createCollection(rmrk.SpecV2, "KAN"))
	et.mustProcess(11, "alice", mintNFTV2("KAN", "P", "01", "bob"))
	parent := "11-KAN-P-01"
	require.Equal(t, "bob", et.nft(parent).CurrentOwner)
	require.Equal(t, "alice", et.nft(parent).Issuer)

	et.mustProcess(12, "alice", mintNFTV2("KAN", "C", "01", parent))
	child := "12-KAN-C-01"
	require.Equal(t, parent, et.nft(child).CurrentOwner)
	require.Equal(t, []database.NFTChild{{ID: child}}, []database.NFTChild(et.nft(parent).Children))
}

func TestOrphanMintCreatesCollection(t *testing.T) {
	et := newEngineTest(t)
	et.mustProcess(10, "alice", mintNFTV2("GHOST", "G", "01", ""))

	collection := et.collection("GHOST")
	assert.Equal(t, "GHOST", collection.Name)
	assert.Equal(t, "GHOST", collection.Symbol)
	assert.Equal(t, uint64(autoCollectionMax), collection.Max)
	assert.Equal(t, "alice", collection.CurrentOwner)
	assert.Equal(t, "10-0", collection.EventIDs())

	nft := et.nft("10-GHOST-G-01")
	assert.Equal(t, "10-1", nft.EventIDs())
	assert.Equal(t, "GHOST", nft.CollectionID)
}

func TestChangeIssuer(t *testing.T) {
	et := newEngineTest(t)
	et.mustProcess(10, "alice", createCollection(rmrk.SpecV1, "KAN"))

	et.mustFail(11, "bob", "RMRK::CHANGEISSUER::1.0.0::KAN::bob")
	et.mustFail(12, "alice", "RMRK::CHANGEISSUER::1.0.0::KAN")
	et.mustFail(13, "alice", "RMRK::CHANGEISSUER::1.0.0::NOPE::bob")
	et.mustProcess(14, "alice", "RMRK::CHANGEISSUER::1.0.0::KAN::bob")

	collection := et.collection("KAN")
	require.Equal(t, "bob", collection.CurrentOwner)
	require.Equal(t, "alice", collection.Issuer)
	require.Equal(t, "10-0,14-0", collection.EventIDs())

	events, err := database.FetchEvents(et.db, []string{"14-0"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "bob", events[0].Meta)
	assert.Equal(t, "alice", events[0].InteractionAccount)
	assert.Equal(t, "KAN", events[0].InteractionCollection)
	assert.Empty(t, events[0].InteractionNFT)

	// New owner mints
	et.mustProcess(15, "bob", mintNFT("KAN", "BIRD", "01"))
}

func TestEmoteToggle(t *testing.T) {
	et := newEngineTest(t)
	et.mustProcess(10, "alice", createCollection(rmrk.SpecV1, "KAN"))
	et.mustProcess(11, "alice", mintNFT("KAN", "BIRD", "01"))
	id := "11-KAN-BIRD-01"
	events := et.count(&database.Event{})

	et.mustProcess(12, "bob", "RMRK::EMOTE::1.0.0::"+id+"::1F389")
	require.Equal(t, int64(1), et.count(&database.Emote{}))
	et.mustProcess(13, "bob", "RMRK::EMOTE::1.0.0::"+id+"::1F389")
	require.Equal(t, int64(0), et.count(&database.Emote{}))

	et.mustProcess(14, "bob", "RMRK::EMOTE::2.0.0::RMRK2::"+id+"::1F600")
	et.mustProcess(15, "carol", "RMRK::EMOTE::1.0.0::"+id+"::1F600")
	emotes, err := database.FetchEmotesByNFT(et.db, id)
	require.NoError(t, err)
	require.Len(t, emotes, 2)

	et.mustFail(16, "bob", "RMRK::EMOTE::1.0.0::"+id)
	et.mustFail(17, "bob", "RMRK::EMOTE::1.0.0::missing::1F600")
	require.Equal(t, events, et.count(&database.Event{}))
}

func TestResourceAddAndAccept(t *testing.T) {
	et := newEngineTest(t)
	et.mustProcess(10, "alice", createCollection(rmrk.SpecV2, "KAN"))
	et.mustProcess(11, "alice", mintNFTV2("KAN", "BIRD", "01", "bob"))
	id := "11-KAN-BIRD-01"

	et.mustProcess(12, "alice", `RMRK::RESADD::2.0.0::`+id+`::{"id":"res-1","src":"ipfs://one","metadata":"ipfs://meta"}`)
	et.mustProcess(13, "bob", `RMRK::RESADD::2.0.0::`+id+`::{"id":"res-2","src":"ipfs://two"}`)
	et.mustFail(14, "alice", `RMRK::RESADD::2.0.0::`+id+`::{"src":"ipfs://three"}`)

	nft := et.nft(id)
	require.Equal(t, []string{"res-1", "res-2"}, []string(nft.Priority))
	require.Len(t, nft.Resources, 2)
	assert.True(t, nft.Resources[0].Pending)
	assert.Equal(t, "ipfs://one", nft.Resources[0].Src)
	assert.False(t, nft.Resources[1].Pending)

	et.mustProcess(15, "bob", "RMRK::ACCEPT::2.0.0::"+id+"::RES::res-1")
	assert.False(t, et.nft(id).Resources[0].Pending)

	et.mustFail(16, "bob", "RMRK::ACCEPT::2.0.0::"+id+"::BASE::res-1")
	accepts := et.eventsOf(rmrk.ActionAccept, id)
	require.Len(t, accepts, 1)
	assert.Equal(t, "res-1", accepts[0].Meta)
}

func TestMalformedRemark(t *testing.T) {
	et := newEngineTest(t)
	for _, value := range []string{
		"RMRK::TEACH::1.0.0::x",
		"hello world",
		"0xnothex",
	} {
		result := et.process(10, "alice", value)
		require.Equal(t, database.RemarkMalformed, result.Status, value)
	}
	require.Empty(t, et.failures())
	require.Equal(t, int64(0), et.count(&database.Event{}))
}

func TestUnsupportedVersionIsSkipped(t *testing.T) {
	et := newEngineTest(t)
	for _, value := range []string{
		"RMRK::ACCEPT::1.0.0::a::NFT::b",
		`RMRK::RESADD::0.1::a::{"id":"r"}`,
	} {
		result := et.process(10, "alice", value)
		require.Equal(t, database.RemarkHandled, result.Status, value)
		require.True(t, result.Skipped, value)
	}
	require.Empty(t, et.failures())
}

func TestDecodeErrorIsFailure(t *testing.T) {
	et := newEngineTest(t)
	et.mustFail(10, "alice", "RMRK::MINT::1.0.0::{broken}")
	et.mustFail(11, "alice", "RMRK::SEND::1.0.0::x")

	failures := et.failures()
	require.Len(t, failures, 2)
	byInteraction := make(map[string]*database.Failure)
	for _, f := range failures {
		byInteraction[f.Interaction] = f
	}
	mint := byInteraction[string(rmrk.ActionMint)]
	require.NotNil(t, mint)
	assert.Equal(t, "RMRK::MINT::1.0.0::{broken}", mint.Value)
	assert.Contains(t, mint.Remark, "RMRK::MINT")
	require.NotNil(t, byInteraction[string(rmrk.ActionSend)])
	require.Equal(t, int64(0), et.count(&database.Collection{}))
}

func TestStrayPercentIsFailure(t *testing.T) {
	et := newEngineTest(t)
	et.mustProcess(10, "alice", createCollection(rmrk.SpecV1, "KAN"))
	et.mustProcess(11, "alice", mintNFT("KAN", "BIRD", "01"))
	id := "11-KAN-BIRD-01"

	list := "RMRK::LIST::1.0.0::" + id + "::100%"
	mint := `RMRK::MINTNFT::1.0.0::{"collection":"KAN","name":"50% off","instance":"SALE","sn":"01","transferable":1}`
	et.mustFail(12, "alice", list)
	et.mustFail(13, "alice", mint)

	require.True(t, et.nft(id).Price.IsZero())
	require.Equal(t, int64(1), et.count(&database.NFT{}))

	failures := et.failures()
	require.Len(t, failures, 2)
	byInteraction := make(map[string]*database.Failure)
	for _, f := range failures {
		assert.Contains(t, f.Reason, "invalid percent encoding")
		byInteraction[f.Interaction] = f
	}
	require.NotNil(t, byInteraction[string(rmrk.ActionList)])
	assert.Equal(t, list, byInteraction[string(rmrk.ActionList)].Value)
	require.NotNil(t, byInteraction[string(rmrk.ActionMintNFT)])
	assert.Equal(t, mint, byInteraction[string(rmrk.ActionMintNFT)].Value)
}

type panickingDB struct {
	engineDB
}

func (db *panickingDB) FetchNFT(id string) (*database.NFT, error) {
	panic("connection lost")
}

type ledgerTest struct {
	failures []string
}

func (l *ledgerTest) AppendEvent(remark *database.Remark, entry ledger.Entry) (string, error) {
	return "", nil
}

func (l *ledgerTest) LogFailure(value string, reason string, interaction rmrk.ActionKind, remark *database.Remark) {
	l.failures = append(l.failures, fmt.Sprintf("%s|%s|%s", interaction, value, reason))
}

func TestHandlerPanicIsRecorded(t *testing.T) {
	l := &ledgerTest{}
	e := newEngine(&panickingDB{}, l)

	result := e.Process(&database.Remark{Value: "RMRK::BUY::1.0.0::x", Caller: "bob", BlockNumber: 1})
	require.Equal(t, database.RemarkHandled, result.Status)
	require.True(t, result.Failed)
	require.Equal(t, []string{`BUY|{"id":"x","metadata":""}|panic in BUY handler: connection lost`}, l.failures)
}
