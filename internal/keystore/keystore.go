package keystore

import (
	"context"
	"errors"
	"time"

	"evmwallet/internal/constant"
	"evmwallet/internal/model"
	"evmwallet/internal/xerr"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/zeromicro/go-zero/core/logx"
)

// KeyStore creates, imports and persists the single wallet identity.
type KeyStore struct {
	store      model.KVStore
	key        string
	passphrase []byte
	params     EncryptionParams
	now        func() time.Time
}

// Option customizes a KeyStore.
type Option func(*KeyStore)

// WithPassphrase seals the secret fields of the stored record. An empty
// passphrase stores them in plaintext.
func WithPassphrase(passphrase string) Option {
	return func(ks *KeyStore) {
		if passphrase != "" {
			ks.passphrase = []byte(passphrase)
		}
	}
}

// WithStorageKey overrides the key the record is stored under.
func WithStorageKey(key string) Option {
	return func(ks *KeyStore) {
		if key != "" {
			ks.key = key
		}
	}
}

// WithEncryptionParams overrides the Argon2id parameters for newly sealed records.
func WithEncryptionParams(params EncryptionParams) Option {
	return func(ks *KeyStore) {
		ks.params = params
	}
}

// New returns a KeyStore on top of store.
func New(store model.KVStore, opts ...Option) *KeyStore {
	ks := &KeyStore{
		store:  store,
		key:    constant.WalletStorageKey,
		params: DefaultParams(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(ks)
	}
	return ks
}

// Create generates a fresh mnemonic-backed identity and persists it. When
// saving fails the identity is still returned together with a
// KindPersistence error.
func (ks *KeyStore) Create(ctx context.Context) (*Identity, error) {
	mnemonic, err := GenerateMnemonic()
	if err != nil {
		return nil, xerr.Wrap(xerr.KindUnknown, err, "create wallet")
	}
	key, err := DeriveKey(mnemonic, accounts.DefaultBaseDerivationPath)
	if err != nil {
		return nil, xerr.Wrap(xerr.KindUnknown, err, "create wallet")
	}
	id := newIdentity(key, mnemonic)
	logx.WithContext(ctx).Infof("created wallet %s", id.Address)

	return id, ks.Save(ctx, id)
}

// Import parses secret as a recovery phrase or a raw private key and persists
// the resulting identity. Parse failures are KindInvalidSecret; save failures
// behave as in Create.
func (ks *KeyStore) Import(ctx context.Context, secret string) (*Identity, error) {
	parsed, err := ParseSecret(secret)
	if err != nil {
		return nil, err
	}
	id := parsed.Identity()
	logx.WithContext(ctx).Infof("imported wallet %s from %s", id.Address, parsed.Kind)

	return id, ks.Save(ctx, id)
}

// Load returns the stored identity, or nil when nothing is stored.
func (ks *KeyStore) Load(ctx context.Context) (*Identity, error) {
	data, err := ks.store.Get(ctx, ks.key)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, xerr.Wrap(xerr.KindPersistence, err, "load wallet")
	}

	id, err := decodeRecord(data, ks.passphrase)
	if err != nil {
		return nil, xerr.Wrap(xerr.KindPersistence, err, "load wallet")
	}
	return id, nil
}

// Save replaces the stored record with id.
func (ks *KeyStore) Save(ctx context.Context, id *Identity) error {
	data, err := encodeRecord(id, ks.passphrase, ks.params, ks.now())
	if err != nil {
		return xerr.Wrap(xerr.KindPersistence, err, "save wallet")
	}
	if err := ks.store.Set(ctx, ks.key, data); err != nil {
		return xerr.Wrap(xerr.KindPersistence, err, "save wallet")
	}
	return nil
}

// Delete purges the stored record. Deleting a missing record succeeds.
func (ks *KeyStore) Delete(ctx context.Context) error {
	if err := ks.store.Remove(ctx, ks.key); err != nil {
		return xerr.Wrap(xerr.KindPersistence, err, "delete wallet")
	}
	return nil
}
