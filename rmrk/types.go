package rmrk

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

type ActionKind string

const (
	ActionUnknown      ActionKind = ""
	ActionMint         ActionKind = "MINT"
	ActionMintNFT      ActionKind = "MINTNFT"
	ActionSend         ActionKind = "SEND"
	ActionBuy          ActionKind = "BUY"
	ActionConsume      ActionKind = "CONSUME"
	ActionChangeIssuer ActionKind = "CHANGEISSUER"
	ActionList         ActionKind = "LIST"
	ActionEmote        ActionKind = "EMOTE"
	ActionBurn         ActionKind = "BURN"
	ActionResAdd       ActionKind = "RESADD"
	ActionAccept       ActionKind = "ACCEPT"
	ActionCreate       ActionKind = "CREATE"
)

var knownActions = map[string]ActionKind{
	string(ActionMint):         ActionMint,
	string(ActionMintNFT):      ActionMintNFT,
	string(ActionSend):         ActionSend,
	string(ActionBuy):          ActionBuy,
	string(ActionConsume):      ActionConsume,
	string(ActionChangeIssuer): ActionChangeIssuer,
	string(ActionList):         ActionList,
	string(ActionEmote):        ActionEmote,
	string(ActionBurn):         ActionBurn,
	string(ActionResAdd):       ActionResAdd,
	string(ActionAccept):       ActionAccept,
	string(ActionCreate):       ActionCreate,
}

type SpecVersion string

const (
	// Legacy dialect without a version token
	SpecV01 SpecVersion = "V01"
	SpecV1  SpecVersion = "1.0.0"
	SpecV2  SpecVersion = "2.0.0"
)

type AcceptEntity string

const (
	AcceptResource AcceptEntity = "RES"
	AcceptNFT      AcceptEntity = "NFT"
)

// JSON value given either as a string or as a bare number
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(data)
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// Integer value of the string, 0 if it is empty or not an integer
func (f FlexString) Int64() int64 {
	s := strings.TrimSpace(string(f))
	switch s {
	case "true":
		return 1
	case "", "false":
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		fv, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0
		}
		return int64(fv)
	}
	return v
}

type CollectionView struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Symbol   string     `json:"symbol"`
	Max      FlexString `json:"max"`
	Issuer   string     `json:"issuer"`
	Metadata string     `json:"metadata"`
	Version  string     `json:"version"`
}

type NFTView struct {
	Collection   string     `json:"collection"`
	Name         string     `json:"name"`
	Instance     string     `json:"instance"`
	Symbol       string     `json:"symbol"`
	Transferable FlexString `json:"transferable"`
	SN           FlexString `json:"sn"`
	Metadata     string     `json:"metadata"`
}

// Simple interaction addressing an NFT or a collection by id
type Interaction struct {
	ID       string `json:"id"`
	Metadata string `json:"metadata"`
}

type SendInteraction struct {
	Version   string `json:"version"`
	ID        string `json:"id"`
	Recipient string `json:"recipient"`
}

type AcceptInteraction struct {
	ID1    string       `json:"id1"`
	Entity AcceptEntity `json:"entity"`
	ID2    string       `json:"id2"`
}

type ResourceView struct {
	ID    string   `json:"id"`
	Src   string   `json:"src"`
	Slot  string   `json:"slot"`
	Base  string   `json:"base"`
	Parts []string `json:"parts"`

	// Raw JSON of the whole resource
	Metadata string `json:"-"`
}
