// Package session drives the wallet lifecycle: which identity is active, which
// network it is bound to, its cached balance and the sends made from it.
package session

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"evmwallet/internal/chain"
	"evmwallet/internal/keystore"
	"evmwallet/internal/network"
	"evmwallet/internal/xerr"

	"github.com/zeromicro/go-zero/core/collection"
	"github.com/zeromicro/go-zero/core/logx"
)

const (
	DefaultCallTimeout = 15 * time.Second
	DefaultHistorySize = 20
	// FeeReserve is kept back by MaxSendable to pay for gas.
	FeeReserve = "0.001"
)

// ErrNoWallet is returned by operations that need an active wallet.
var ErrNoWallet = xerr.New(xerr.KindValidation, "no wallet")

// KeyStore is what the session needs from keystore.KeyStore.
type KeyStore interface {
	Create(ctx context.Context) (*keystore.Identity, error)
	Import(ctx context.Context, secret string) (*keystore.Identity, error)
	Load(ctx context.Context) (*keystore.Identity, error)
	Delete(ctx context.Context) error
}

// Session is one wallet session. Mutating operations are serialized; State
// may be read concurrently at any time.
type Session struct {
	registry    *network.Registry
	keys        KeyStore
	dial        chain.Dialer
	callTimeout time.Duration
	historySize int

	mu    sync.Mutex
	conn  chain.Connector
	state atomic.Pointer[State]

	txMu    sync.Mutex
	history *collection.Ring
}

// Option customizes a Session.
type Option func(*Session)

// WithCallTimeout bounds every connector call.
func WithCallTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.callTimeout = d
		}
	}
}

// WithHistorySize sets how many recent sends are kept.
func WithHistorySize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.historySize = n
		}
	}
}

// WithNetwork selects the starting network instead of the registry default.
func WithNetwork(n network.Network) Option {
	return func(s *Session) {
		s.state.Store(&State{Network: n, Balance: ZeroBalance})
	}
}

// New returns a session with no wallet on the registry's default network.
func New(registry *network.Registry, keys KeyStore, dial chain.Dialer, opts ...Option) *Session {
	s := &Session{
		registry:    registry,
		keys:        keys,
		dial:        dial,
		callTimeout: DefaultCallTimeout,
		historySize: DefaultHistorySize,
	}
	s.state.Store(&State{Network: registry.Default(), Balance: ZeroBalance})
	for _, opt := range opts {
		opt(s)
	}
	s.history = collection.NewRing(s.historySize)
	return s
}

// State returns the current snapshot without blocking.
func (s *Session) State() State {
	return *s.state.Load()
}

func (s *Session) update(fn func(*State)) {
	next := *s.state.Load()
	fn(&next)
	s.state.Store(&next)
}

// begin takes the operation lock and marks the session busy.
func (s *Session) begin() {
	s.mu.Lock()
	s.update(func(st *State) {
		st.Loading = true
		st.Err = nil
	})
}

// end records err as the outcome of the operation and releases the lock.
func (s *Session) end(err error) error {
	s.update(func(st *State) {
		st.Loading = false
		st.Err = err
	})
	s.mu.Unlock()
	return err
}

// Restore activates the persisted wallet, if any.
func (s *Session) Restore(ctx context.Context) error {
	s.begin()
	id, err := s.keys.Load(ctx)
	if err != nil {
		return s.end(err)
	}
	if id == nil {
		logx.WithContext(ctx).Info("no stored wallet")
		return s.end(nil)
	}
	return s.end(s.activate(ctx, id))
}

// CreateWallet generates and activates a new wallet. If persisting it fails
// the wallet is still active for this process and the persistence error is
// returned.
func (s *Session) CreateWallet(ctx context.Context) error {
	s.begin()
	id, err := s.keys.Create(ctx)
	if id == nil {
		return s.end(err)
	}
	return s.end(firstErr(err, s.activate(ctx, id)))
}

// ImportWallet activates the wallet for a recovery phrase or private key. An
// invalid secret leaves the previous wallet in place.
func (s *Session) ImportWallet(ctx context.Context, secret string) error {
	s.begin()
	id, err := s.keys.Import(ctx, secret)
	if id == nil {
		return s.end(err)
	}
	return s.end(firstErr(err, s.activate(ctx, id)))
}

// activate replaces the wallet, binds it to the current network and loads
// its balance. A failed bind leaves the wallet active but unbound.
func (s *Session) activate(ctx context.Context, id *keystore.Identity) error {
	s.unbind()
	s.clearHistory()
	s.update(func(st *State) {
		st.Wallet = id
		st.Balance = ZeroBalance
	})
	logx.WithContext(ctx).WithFields(logx.Field("address", id.Address)).Info("wallet active")

	if err := s.bind(ctx); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// SwitchNetwork makes id the current network and rebinds the wallet to it.
func (s *Session) SwitchNetwork(ctx context.Context, id string) error {
	s.begin()
	n, err := s.registry.Lookup(id)
	if err != nil {
		return s.end(err)
	}

	s.unbind()
	s.update(func(st *State) {
		st.Network = n
		if st.Wallet != nil {
			st.Balance = ZeroBalance
		}
	})
	logx.WithContext(ctx).WithFields(logx.Field("network", n.ID)).Info("network switched")

	if !s.State().HasWallet() {
		return s.end(nil)
	}
	if err := s.bind(ctx); err != nil {
		return s.end(err)
	}
	return s.end(s.refresh(ctx))
}

// RefreshBalance reloads the balance. Without a wallet it does nothing; on
// failure the previous balance stays.
func (s *Session) RefreshBalance(ctx context.Context) error {
	s.begin()
	return s.end(s.refresh(ctx))
}

func (s *Session) refresh(ctx context.Context) error {
	st := s.State()
	if !st.HasWallet() {
		return nil
	}
	conn, err := s.connector(ctx)
	if err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	balance, err := conn.GetBalance(callCtx, st.Wallet.Address)
	if err != nil {
		logx.WithContext(ctx).Errorf("refresh balance on %s: %v", st.Network.ID, err)
		return xerr.Wrap(xerr.KindConnector, err, "refresh balance")
	}
	s.update(func(st *State) { st.Balance = balance })
	return nil
}

// SendTransaction validates the intent locally and, only if it passes,
// submits it. Returns the transaction hash.
func (s *Session) SendTransaction(ctx context.Context, recipient, amount string) (string, error) {
	s.begin()
	hash, err := s.send(ctx, strings.TrimSpace(recipient), strings.TrimSpace(amount))
	return hash, s.end(err)
}

func (s *Session) send(ctx context.Context, recipient, amount string) (string, error) {
	st := s.State()
	if !st.HasWallet() {
		return "", ErrNoWallet
	}
	if !chain.ValidateAddress(recipient) {
		return "", xerr.Newf(xerr.KindValidation, "invalid recipient address %q", recipient)
	}
	value, err := chain.ParseUnits(amount, st.Network.Decimals)
	if err != nil {
		return "", xerr.Wrap(xerr.KindValidation, err, "invalid amount")
	}
	if value.Sign() <= 0 {
		return "", xerr.New(xerr.KindValidation, "amount must be greater than zero")
	}
	if value.Cmp(s.balanceUnits(st)) > 0 {
		return "", xerr.Newf(xerr.KindValidation, "insufficient balance: %s %s available", st.Balance, st.Network.Symbol)
	}

	conn, err := s.connector(ctx)
	if err != nil {
		return "", err
	}

	logger := logx.WithContext(ctx).WithFields(logx.Field("network", st.Network.ID), logx.Field("to", recipient))
	logger.Infof("submitting %s %s", amount, st.Network.Symbol)

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	hash, err := conn.SubmitTransaction(callCtx, recipient, amount)
	if err != nil {
		logger.Errorf("submit failed: %v", err)
		return "", xerr.Wrap(xerr.KindSubmission, err, "submit transaction")
	}

	s.record(&Transaction{
		Hash:      hash,
		From:      st.Wallet.Address,
		To:        recipient,
		Value:     amount,
		Network:   st.Network.ID,
		Timestamp: time.Now(),
		Status:    chain.StatusPending,
	})
	if err := s.refresh(ctx); err != nil {
		logger.Errorf("refresh after send %s: %v", hash, err)
	}
	return hash, nil
}

func (s *Session) balanceUnits(st State) *big.Int {
	v, err := chain.ParseUnits(st.Balance, st.Network.Decimals)
	if err != nil {
		return new(big.Int)
	}
	return v
}

// DeleteWallet purges the stored wallet and resets the session. The reset
// happens even when the purge fails; that failure is returned.
func (s *Session) DeleteWallet(ctx context.Context) error {
	s.begin()
	err := s.keys.Delete(ctx)
	if err != nil {
		logx.WithContext(ctx).Errorf("delete wallet: %v", err)
	}

	s.unbind()
	s.clearHistory()
	s.update(func(st *State) {
		st.Wallet = nil
		st.Balance = ZeroBalance
	})
	return s.end(err)
}

// ExportPrivateKey returns the active wallet's private key.
func (s *Session) ExportPrivateKey() (string, error) {
	id, err := s.ExportIdentity()
	if err != nil {
		return "", err
	}
	return id.PrivateKey, nil
}

// ExportIdentity returns the active identity, key and recovery phrase included.
func (s *Session) ExportIdentity() (*keystore.Identity, error) {
	st := s.State()
	if !st.HasWallet() {
		return nil, ErrNoWallet
	}
	return st.Wallet, nil
}

// MaxSendable is the cached balance minus FeeReserve, never below zero.
func (s *Session) MaxSendable() string {
	st := s.State()
	reserve, _ := chain.ParseUnits(FeeReserve, st.Network.Decimals)
	v := new(big.Int).Sub(s.balanceUnits(st), reserve)
	if v.Sign() < 0 {
		v.SetInt64(0)
	}
	return chain.FormatUnits(v, st.Network.Decimals)
}

// TransactionStatus asks the chain for the status of hash and updates the
// matching history entry.
func (s *Session) TransactionStatus(ctx context.Context, hash string) (chain.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.State().HasWallet() {
		return "", ErrNoWallet
	}
	conn, err := s.connector(ctx)
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	status, err := conn.TransactionStatus(callCtx, hash)
	if err != nil {
		return "", xerr.Wrap(xerr.KindConnector, err, "transaction status")
	}

	s.txMu.Lock()
	for _, v := range s.history.Take() {
		if tx := v.(*Transaction); strings.EqualFold(tx.Hash, hash) {
			tx.Status = status
		}
	}
	s.txMu.Unlock()
	return status, nil
}

// Transactions returns recent sends, newest first.
func (s *Session) Transactions() []Transaction {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	items := s.history.Take()
	out := make([]Transaction, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		out = append(out, *items[i].(*Transaction))
	}
	return out
}

// Transaction returns the recent send with hash, if it is still kept.
func (s *Session) Transaction(hash string) (Transaction, bool) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	for _, v := range s.history.Take() {
		if tx := v.(*Transaction); strings.EqualFold(tx.Hash, hash) {
			return *tx, true
		}
	}
	return Transaction{}, false
}

func (s *Session) record(tx *Transaction) {
	s.txMu.Lock()
	s.history.Add(tx)
	s.txMu.Unlock()
}

func (s *Session) clearHistory() {
	s.txMu.Lock()
	s.history = collection.NewRing(s.historySize)
	s.txMu.Unlock()
}

// Close releases the chain binding.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unbind()
	return nil
}

// connector returns the current binding, retrying the bind if an earlier one failed.
func (s *Session) connector(ctx context.Context) (chain.Connector, error) {
	if s.conn == nil {
		if err := s.bind(ctx); err != nil {
			return nil, err
		}
	}
	return s.conn, nil
}

func (s *Session) bind(ctx context.Context) error {
	st := s.State()
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	conn, err := s.dial(callCtx, st.Network, st.Wallet.PrivateKey)
	if err != nil {
		logx.WithContext(ctx).Errorf("bind wallet to %s: %v", st.Network.ID, err)
		return xerr.Wrap(xerr.KindConnector, err, "connect to "+st.Network.Name)
	}
	s.conn = conn
	return nil
}

func (s *Session) unbind() {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

var _ KeyStore = (*keystore.KeyStore)(nil)
