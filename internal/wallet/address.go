package wallet

import (
	"errors"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrInvalidAddress = errors.New("invalid wallet address")
	ErrInvalidTxHash  = errors.New("invalid transaction hash")

	txHashRe = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
)

// NormalizeAddress validates a hex account address and returns it lowercased.
func NormalizeAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if !common.IsHexAddress(address) || !strings.HasPrefix(strings.ToLower(address), "0x") {
		return "", ErrInvalidAddress
	}
	return strings.ToLower(address), nil
}

func IsAddress(address string) bool {
	_, err := NormalizeAddress(address)
	return err == nil
}

// NormalizeTxHash validates a 32 byte hex hash and returns it lowercased.
func NormalizeTxHash(hash string) (string, error) {
	hash = strings.TrimSpace(hash)
	if !txHashRe.MatchString(hash) {
		return "", ErrInvalidTxHash
	}
	return strings.ToLower(hash), nil
}
