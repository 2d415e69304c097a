package utils

import (
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
)

const (
	hexPrefix = "0x"
)

func IsHex(s string) bool {
	return strings.HasPrefix(s, hexPrefix)
}

// DecodeHexString decodes a string that is prefixed with "0x" into a byte slice
func DecodeHexString(s string) ([]byte, error) {
	if !IsHex(s) {
		return nil, errors.New("string does not have hex prefix")
	}
	return hex.DecodeString(s[len(hexPrefix):])
}

// Decode percent-encoded sequences, "+" is left as is
func DecodeURIComponent(s string) (string, error) {
	if !strings.Contains(s, "%") {
		return s, nil
	}
	return url.PathUnescape(s)
}
