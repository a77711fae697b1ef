package keystore

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"strings"
	"unicode"

	"evmwallet/internal/xerr"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
)

// SecretKind tells which import branch a secret went through.
type SecretKind int

const (
	SecretMnemonic SecretKind = iota + 1
	SecretPrivateKey
)

func (k SecretKind) String() string {
	switch k {
	case SecretMnemonic:
		return "mnemonic"
	case SecretPrivateKey:
		return "private_key"
	default:
		return "unknown"
	}
}

var (
	ErrEmptySecret       = errors.New("secret is empty")
	ErrInvalidMnemonic   = errors.New("invalid recovery phrase")
	ErrInvalidPrivateKey = errors.New("invalid private key")
)

// privateKeyHexLen is 32 bytes in hex.
const privateKeyHexLen = 64

// Secret is a parsed import input.
type Secret struct {
	Kind     SecretKind
	Mnemonic string
	Key      *ecdsa.PrivateKey
}

// ParseSecret parses import input. Surrounding whitespace is ignored; any
// remaining whitespace selects the recovery-phrase branch, otherwise the
// input must be a raw hex private key. Every failure is KindInvalidSecret and
// wraps the branch's sentinel error.
func ParseSecret(input string) (*Secret, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil, xerr.Wrap(xerr.KindInvalidSecret, ErrEmptySecret, "import")
	}
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return parseMnemonic(s)
	}
	return parsePrivateKey(s)
}

func parseMnemonic(s string) (*Secret, error) {
	mnemonic := NormalizeMnemonic(s)
	if !ValidateMnemonic(mnemonic) {
		return nil, xerr.Wrap(xerr.KindInvalidSecret, ErrInvalidMnemonic, "word list or checksum mismatch")
	}
	key, err := DeriveKey(mnemonic, accounts.DefaultBaseDerivationPath)
	if err != nil {
		return nil, xerr.Wrap(xerr.KindInvalidSecret, errors.Join(ErrInvalidMnemonic, err), "derive key")
	}
	return &Secret{Kind: SecretMnemonic, Mnemonic: mnemonic, Key: key}, nil
}

func parsePrivateKey(s string) (*Secret, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != privateKeyHexLen {
		return nil, xerr.Wrap(xerr.KindInvalidSecret, ErrInvalidPrivateKey, "expected 64 hex characters")
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, xerr.Wrap(xerr.KindInvalidSecret, ErrInvalidPrivateKey, "not hex")
	}
	key, err := crypto.ToECDSA(raw)
	if err != nil {
		return nil, xerr.Wrap(xerr.KindInvalidSecret, errors.Join(ErrInvalidPrivateKey, err), "not a valid secp256k1 scalar")
	}
	return &Secret{Kind: SecretPrivateKey, Key: key}, nil
}

// Identity builds the identity for the parsed secret.
func (s *Secret) Identity() *Identity {
	return newIdentity(s.Key, s.Mnemonic)
}
