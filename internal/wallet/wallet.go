package wallet

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
)

// Wallet holds an EVM key pair. Only used for local tooling and tests,
// the backend itself never holds user keys.
type Wallet struct {
	PrivateKey string
	Address    string

	key *ecdsa.PrivateKey
}

// Generate creates a new random EVM wallet.
func Generate() (*Wallet, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return fromKey(privateKey), nil
}

// FromPrivateKey loads a wallet from a hex private key, with or without 0x.
func FromPrivateKey(privKeyHex string) (*Wallet, error) {
	privBytes, err := hex.DecodeString(strings.TrimPrefix(privKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key hex: %v", err)
	}
	privKey, err := crypto.ToECDSA(privBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to convert to ECDSA: %v", err)
	}
	return fromKey(privKey), nil
}

func fromKey(k *ecdsa.PrivateKey) *Wallet {
	return &Wallet{
		PrivateKey: hex.EncodeToString(crypto.FromECDSA(k)),
		Address:    strings.ToLower(crypto.PubkeyToAddress(k.PublicKey).Hex()),
		key:        k,
	}
}

// SignText produces a personal_sign (EIP-191) signature, hex encoded with 0x
// prefix and v in {27, 28} the way browser wallets return it.
func (w *Wallet) SignText(message string) (string, error) {
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), w.key)
	if err != nil {
		return "", err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return "0x" + hex.EncodeToString(sig), nil
}
