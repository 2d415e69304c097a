package rmrk

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

func (v *NFTView) instanceOrName() string {
	if len(v.Instance) > 0 {
		return v.Instance
	}
	if len(v.Name) > 0 {
		return v.Name
	}
	return v.Symbol
}

// collection-instance-sn, minted twice with the same instance and serial gives the same id
func NFTIDV01(v *NFTView) string {
	return fmt.Sprintf("%s-%s-%s", v.Collection, v.instanceOrName(), v.SN)
}

// block-collection-instance-sn
func NFTIDV1(v *NFTView, blockNumber uint64) string {
	return fmt.Sprintf("%d-%s", blockNumber, NFTIDV01(v))
}

func NFTIDV2(v *NFTView, blockNumber uint64) string {
	return NFTIDV1(v, blockNumber)
}

func NFTID(version SpecVersion, v *NFTView, blockNumber uint64) string {
	switch version {
	case SpecV1:
		return NFTIDV1(v, blockNumber)
	case SpecV2:
		return NFTIDV2(v, blockNumber)
	default:
		return NFTIDV01(v)
	}
}

// Hex encoded blake2b-256 hash of the emote triple
func EmoteID(nftID, caller, value string) string {
	h, _ := blake2b.New256(nil)
	for _, part := range []string{nftID, caller, value} {
		// Parts are length prefixed
		fmt.Fprintf(h, "%d:%s", len(part), part)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func EventID(blockNumber uint64, index int64) string {
	return fmt.Sprintf("%d-%d", blockNumber, index)
}
