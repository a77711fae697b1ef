package keystore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// RecordVersion is the only record layout this package reads and writes.
const RecordVersion = 1

var (
	ErrUnsupportedVersion = errors.New("unsupported wallet record version")
	ErrPassphraseRequired = errors.New("wallet record is sealed and no passphrase is configured")
)

// record is the persisted wallet. Exactly one of the plaintext secret fields
// (PrivateKey) or Sealed is set.
type record struct {
	Version    int       `json:"version"`
	Address    string    `json:"address"`
	PrivateKey string    `json:"privateKey,omitempty"`
	Mnemonic   string    `json:"mnemonic,omitempty"`
	Sealed     []byte    `json:"sealed,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// sealedSecrets is the plaintext inside record.Sealed.
type sealedSecrets struct {
	PrivateKey string `json:"privateKey"`
	Mnemonic   string `json:"mnemonic,omitempty"`
}

func encodeRecord(id *Identity, passphrase []byte, params EncryptionParams, now time.Time) ([]byte, error) {
	rec := record{
		Version:   RecordVersion,
		Address:   id.Address,
		CreatedAt: now.UTC(),
	}
	if len(passphrase) == 0 {
		rec.PrivateKey = id.PrivateKey
		rec.Mnemonic = id.Mnemonic
		return json.Marshal(rec)
	}

	secrets, err := json.Marshal(sealedSecrets{PrivateKey: id.PrivateKey, Mnemonic: id.Mnemonic})
	if err != nil {
		return nil, fmt.Errorf("marshal secrets: %w", err)
	}
	defer clear(secrets)

	rec.Sealed, err = seal(secrets, passphrase, params)
	if err != nil {
		return nil, fmt.Errorf("seal secrets: %w", err)
	}
	return json.Marshal(rec)
}

func decodeRecord(data, passphrase []byte) (*Identity, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}
	if rec.Version != RecordVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, rec.Version)
	}

	id := &Identity{Address: rec.Address, PrivateKey: rec.PrivateKey, Mnemonic: rec.Mnemonic}
	if len(rec.Sealed) > 0 {
		if len(passphrase) == 0 {
			return nil, ErrPassphraseRequired
		}
		plain, err := open(rec.Sealed, passphrase)
		if err != nil {
			return nil, fmt.Errorf("open sealed record (wrong passphrase?): %w", err)
		}
		defer clear(plain)

		var secrets sealedSecrets
		if err := json.Unmarshal(plain, &secrets); err != nil {
			return nil, fmt.Errorf("parse sealed secrets: %w", err)
		}
		id.PrivateKey = secrets.PrivateKey
		id.Mnemonic = secrets.Mnemonic
	}

	if err := id.verify(); err != nil {
		return nil, err
	}
	return id, nil
}
