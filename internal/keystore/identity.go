package keystore

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Identity is the secret material of the single wallet account.
type Identity struct {
	// Address is the EIP-55 checksummed address derived from PrivateKey.
	Address string `json:"address"`
	// PrivateKey is the 0x-prefixed hex secp256k1 scalar.
	PrivateKey string `json:"private_key"`
	// Mnemonic is set only when the identity came from a recovery phrase.
	Mnemonic string `json:"mnemonic,omitempty"`
}

func newIdentity(key *ecdsa.PrivateKey, mnemonic string) *Identity {
	return &Identity{
		Address:    crypto.PubkeyToAddress(key.PublicKey).Hex(),
		PrivateKey: hexutil.Encode(crypto.FromECDSA(key)),
		Mnemonic:   mnemonic,
	}
}

// ECDSA parses the private key.
func (id *Identity) ECDSA() (*ecdsa.PrivateKey, error) {
	return crypto.HexToECDSA(strings.TrimPrefix(strings.TrimPrefix(id.PrivateKey, "0x"), "0X"))
}

// HasMnemonic reports whether a recovery phrase is available.
func (id *Identity) HasMnemonic() bool {
	return id.Mnemonic != ""
}

// verify checks that Address is the one derived from PrivateKey.
func (id *Identity) verify() error {
	key, err := id.ECDSA()
	if err != nil {
		return fmt.Errorf("parse private key: %w", err)
	}
	derived := crypto.PubkeyToAddress(key.PublicKey)
	if !common.IsHexAddress(id.Address) || common.HexToAddress(id.Address) != derived {
		return fmt.Errorf("stored address %s does not match key (derived %s)", id.Address, derived.Hex())
	}
	return nil
}
