package consolidator

import (
	"encoding/json"
	"fmt"
	"rmrk-indexer/database"
	"rmrk-indexer/rmrk"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/shopspring/decimal"
)

// Collection or NFT
type Entity interface {
	EntityID() string
	Owner() string
	IssuedBy() string
}

// Payment methods accepted for a BUY
var transferMethods = mapset.NewSet("transfer", "transfer_keep_alive", "transfer_allow_death")

const balancesSection = "balances"

type ValidationError struct {
	Rule    string
	Subject string
	Detail  string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("[CONSOLIDATE %s] %s", e.Rule, e.Subject)
	if len(e.Detail) > 0 {
		msg += " " + e.Detail
	}
	return msg
}

type Rule[T any] struct {
	Name  string
	Check func(T) bool
}

var (
	NFTExists = Rule[*database.NFT]{
		Name:  "exists",
		Check: func(n *database.NFT) bool { return n != nil },
	}
	CollectionExists = Rule[*database.Collection]{
		Name:  "exists",
		Check: func(c *database.Collection) bool { return c != nil },
	}
	IDPresent = Rule[string]{
		Name:  "exists",
		Check: func(id string) bool { return len(id) > 0 },
	}
	IsBurned = Rule[*database.NFT]{
		Name:  "isBurned",
		Check: func(n *database.NFT) bool { return n.Burned },
	}
	IsTransferable = Rule[*database.NFT]{
		Name:  "isTransferable",
		Check: func(n *database.NFT) bool { return n.Transferable != 0 },
	}
	HasMeta = Rule[*rmrk.Interaction]{
		Name:  "hasMeta",
		Check: func(i *rmrk.Interaction) bool { return len(i.Metadata) > 0 },
	}
)

// Returns a ValidationError if the rule does not evaluate to expected
func Must[T any](rule Rule[T], expected bool, subject T) error {
	if rule.Check(subject) == expected {
		return nil
	}
	detail := "expected"
	if !expected {
		detail = "expected not"
	}
	return &ValidationError{
		Rule:    rule.Name,
		Subject: subjectID(subject),
		Detail:  fmt.Sprintf("(%s %s)", detail, rule.Name),
	}
}

func subjectID(subject interface{}) string {
	switch s := subject.(type) {
	case Entity:
		return s.EntityID()
	case *rmrk.Interaction:
		if s != nil {
			return s.ID
		}
	case string:
		return s
	}
	return ""
}

func IsOwner(entity Entity, caller string) bool {
	return entity.Owner() == caller
}

func IsIssuer(entity Entity, caller string) bool {
	return entity.IssuedBy() == caller
}

func IsOwnerOrError(entity Entity, caller string) error {
	if IsOwner(entity, caller) {
		return nil
	}
	return &ValidationError{
		Rule:    "Bad Owner",
		Subject: entity.EntityID(),
		Detail:  fmt.Sprintf("Owner: %s Caller: %s", entity.Owner(), caller),
	}
}

// NFT exists, is not burned and is transferable
func ValidateNFT(nft *database.NFT) error {
	if err := Must(NFTExists, true, nft); err != nil {
		return err
	}
	if err := Must(IsBurned, false, nft); err != nil {
		return err
	}
	return Must(IsTransferable, true, nft)
}

func ValidateMeta(interaction *rmrk.Interaction) error {
	return Must(HasMeta, true, interaction)
}

// Price must not be negative, if excludeZero is set it must be strictly positive
func IsPositiveOrError(price decimal.Decimal, excludeZero bool) error {
	if price.IsNegative() || (excludeZero && price.IsZero()) {
		return &ValidationError{
			Rule:    "isPositiveOrElseError",
			Subject: price.String(),
		}
	}
	return nil
}

// Parse the listing price, only integer amounts are accepted
func ParsePrice(s string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(s)
	if err != nil || !price.IsInteger() {
		return decimal.Zero, &ValidationError{
			Rule:    "invalid price",
			Subject: s,
		}
	}
	return price, nil
}

func isBalanceTransfer(call database.ExtraCall) bool {
	return call.Section == balancesSection && transferMethods.Contains(call.Method)
}

// Amount of the payment if the call pays the current owner of the NFT at least its price
func paymentFor(nft *database.NFT, call database.ExtraCall) (decimal.Decimal, bool) {
	if !isBalanceTransfer(call) || len(call.Args) < 2 || !IsOwner(nft, call.Args[0]) {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(call.Args[1])
	if err != nil || amount.LessThan(nft.Price) {
		return decimal.Zero, false
	}
	return amount, true
}

func IsBuyLegal(nft *database.NFT, calls []database.ExtraCall) bool {
	for _, call := range calls {
		if _, ok := paymentFor(nft, call); ok {
			return true
		}
	}
	return false
}

func IsBuyLegalOrError(nft *database.NFT, calls []database.ExtraCall) error {
	if IsBuyLegal(nft, calls) {
		return nil
	}
	return &ValidationError{
		Rule:    "ILLEGAL BUY",
		Subject: nft.ID,
		Detail:  "CALLS: " + formatCalls(calls),
	}
}

// Settlement amount of the BUY, the amount of the first qualifying payment
func UnwrapBuyPrice(nft *database.NFT, calls []database.ExtraCall) (decimal.Decimal, error) {
	for _, call := range calls {
		if amount, ok := paymentFor(nft, call); ok {
			return amount, nil
		}
	}
	return decimal.Zero, &ValidationError{
		Rule:    "ILLEGAL PRICE FOR BUY INTERACTION",
		Subject: nft.ID,
		Detail:  "CALLS: " + formatCalls(calls),
	}
}

func formatCalls(calls []database.ExtraCall) string {
	b, err := json.Marshal(calls)
	if err != nil {
		return fmt.Sprintf("%v", calls)
	}
	return string(b)
}

// Fails if the entity is already stored
func MustNotExist(entity Entity) error {
	id := entity.EntityID()
	if len(id) == 0 {
		return nil
	}
	return &ValidationError{
		Rule:    "exists",
		Subject: id,
		Detail:  "already exists",
	}
}
