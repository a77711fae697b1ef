package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"evmwallet/internal/chain"
	"evmwallet/internal/constant"
	"evmwallet/internal/keystore"
	"evmwallet/internal/model"
	"evmwallet/internal/network"
	"evmwallet/internal/xerr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	rawKey        = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	rawKeyAddress = "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"
	recipient     = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"
)

// fakeChain hands out fakeConnectors and records what they were asked.
type fakeChain struct {
	mu        sync.Mutex
	balances  map[string]string // network id -> balance
	dialErr   error
	balErr    error
	submitErr error
	status    chain.Status
	stall     bool
	attempts  int
	dials     []string
	submits   int
	closed    int
	calls     int
}

func newFakeChain() *fakeChain {
	return &fakeChain{balances: map[string]string{}, status: chain.StatusPending}
}

func (f *fakeChain) dial(_ context.Context, n network.Network, _ string) (chain.Connector, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.dialErr != nil {
		return nil, f.dialErr
	}
	f.dials = append(f.dials, n.ID)
	return &fakeConnector{chain: f, network: n.ID}, nil
}

func (f *fakeChain) set(fn func(f *fakeChain)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

// wait blocks until ctx ends when the chain is stalled.
func (f *fakeChain) wait(ctx context.Context) error {
	f.mu.Lock()
	stall := f.stall
	f.mu.Unlock()
	if !stall {
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}

type fakeConnector struct {
	chain   *fakeChain
	network string
}

func (c *fakeConnector) ValidateAddress(s string) bool {
	return len(s) == 42 && s[:2] == "0x"
}

func (c *fakeConnector) GetBalance(ctx context.Context, _ string) (string, error) {
	if err := c.chain.wait(ctx); err != nil {
		return "", err
	}
	c.chain.mu.Lock()
	defer c.chain.mu.Unlock()
	c.chain.calls++
	if c.chain.balErr != nil {
		return "", c.chain.balErr
	}
	if b, ok := c.chain.balances[c.network]; ok {
		return b, nil
	}
	return "0.0", nil
}

func (c *fakeConnector) SubmitTransaction(ctx context.Context, _, _ string) (string, error) {
	if err := c.chain.wait(ctx); err != nil {
		return "", err
	}
	c.chain.mu.Lock()
	defer c.chain.mu.Unlock()
	c.chain.calls++
	c.chain.submits++
	if c.chain.submitErr != nil {
		return "", c.chain.submitErr
	}
	return "0xabc123", nil
}

func (c *fakeConnector) TransactionStatus(context.Context, string) (chain.Status, error) {
	c.chain.mu.Lock()
	defer c.chain.mu.Unlock()
	c.chain.calls++
	return c.chain.status, nil
}

func (c *fakeConnector) Close() {
	c.chain.mu.Lock()
	defer c.chain.mu.Unlock()
	c.chain.closed++
}

type failingStore struct {
	model.KVStore
	err error
}

func (f failingStore) Set(context.Context, string, []byte) error { return f.err }
func (f failingStore) Remove(context.Context, string) error      { return f.err }

func registry(t *testing.T) *network.Registry {
	t.Helper()
	r, err := network.FromPresets(constant.SupportedChains, nil, "")
	require.NoError(t, err)
	return r
}

func newSession(t *testing.T, fc *fakeChain, store model.KVStore) *Session {
	t.Helper()
	if store == nil {
		store = model.NewMemoryStore()
	}
	s := New(registry(t), keystore.New(store), fc.dial, WithCallTimeout(time.Second), WithHistorySize(3))
	t.Cleanup(func() { s.Close() })
	return s
}

// withWallet returns a session with the raw test key active and balance set on ethereum.
func withWallet(t *testing.T, balance string) (*Session, *fakeChain) {
	t.Helper()
	fc := newFakeChain()
	fc.balances[constant.NetworkEthereum] = balance
	s := newSession(t, fc, nil)
	require.NoError(t, s.ImportWallet(context.Background(), rawKey))
	require.Equal(t, balance, s.State().Balance)
	return s, fc
}

func TestNewSessionDefaults(t *testing.T) {
	s := newSession(t, newFakeChain(), nil)

	st := s.State()
	assert.Nil(t, st.Wallet)
	assert.Equal(t, constant.NetworkEthereum, st.Network.ID)
	assert.Equal(t, ZeroBalance, st.Balance)
	assert.False(t, st.Loading)
	assert.NoError(t, st.Err)
}

func TestCreateWallet(t *testing.T) {
	fc := newFakeChain()
	fc.balances[constant.NetworkEthereum] = "1.25"
	s := newSession(t, fc, nil)

	require.NoError(t, s.CreateWallet(context.Background()))

	st := s.State()
	require.NotNil(t, st.Wallet)
	assert.True(t, st.Wallet.HasMnemonic())
	assert.Equal(t, "1.25", st.Balance)
	assert.Equal(t, []string{constant.NetworkEthereum}, fc.dials)
}

func TestCreateWalletPersistenceFailureKeepsWalletActive(t *testing.T) {
	fc := newFakeChain()
	fc.balances[constant.NetworkEthereum] = "3.0"
	s := newSession(t, fc, failingStore{KVStore: model.NewMemoryStore(), err: errors.New("disk full")})

	err := s.CreateWallet(context.Background())
	require.Error(t, err)
	assert.True(t, xerr.Is(err, xerr.KindPersistence))

	st := s.State()
	require.NotNil(t, st.Wallet)
	assert.Equal(t, "3.0", st.Balance)
	assert.True(t, xerr.Is(st.Err, xerr.KindPersistence))
}

func TestImportInvalidSecretKeepsState(t *testing.T) {
	s, _ := withWallet(t, "2.0")

	err := s.ImportWallet(context.Background(), "definitely not a phrase")
	require.Error(t, err)
	assert.True(t, xerr.Is(err, xerr.KindInvalidSecret))

	st := s.State()
	require.NotNil(t, st.Wallet)
	assert.Equal(t, rawKeyAddress, st.Wallet.Address)
	assert.Equal(t, "2.0", st.Balance)
	assert.True(t, xerr.Is(st.Err, xerr.KindInvalidSecret))
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	store := model.NewMemoryStore()
	_, err := keystore.New(store).Import(ctx, rawKey)
	require.NoError(t, err)

	fc := newFakeChain()
	fc.balances[constant.NetworkEthereum] = "4.0"
	s := newSession(t, fc, store)
	require.NoError(t, s.Restore(ctx))

	st := s.State()
	require.NotNil(t, st.Wallet)
	assert.Equal(t, rawKeyAddress, st.Wallet.Address)
	assert.Equal(t, "4.0", st.Balance)
}

func TestRestoreEmpty(t *testing.T) {
	fc := newFakeChain()
	s := newSession(t, fc, nil)

	require.NoError(t, s.Restore(context.Background()))
	assert.Nil(t, s.State().Wallet)
	assert.Empty(t, fc.dials)
}

func TestSwitchNetworkUnknownKeepsNetwork(t *testing.T) {
	s, _ := withWallet(t, "1.0")

	err := s.SwitchNetwork(context.Background(), "polygon")
	require.Error(t, err)
	assert.True(t, xerr.Is(err, xerr.KindUnknownNetwork))

	st := s.State()
	assert.Equal(t, constant.NetworkEthereum, st.Network.ID)
	assert.Equal(t, "1.0", st.Balance)
	assert.True(t, xerr.Is(st.Err, xerr.KindUnknownNetwork))
}

func TestSwitchNetworkRebinds(t *testing.T) {
	s, fc := withWallet(t, "1.0")
	fc.set(func(f *fakeChain) { f.balances[constant.NetworkBSC] = "7.5" })

	require.NoError(t, s.SwitchNetwork(context.Background(), constant.NetworkBSC))

	st := s.State()
	assert.Equal(t, constant.NetworkBSC, st.Network.ID)
	assert.Equal(t, "7.5", st.Balance)
	assert.Equal(t, []string{constant.NetworkEthereum, constant.NetworkBSC}, fc.dials)
	assert.Equal(t, 1, fc.closed)
}

func TestSwitchNetworkResetsBalanceWhenRefreshFails(t *testing.T) {
	s, fc := withWallet(t, "1.0")
	fc.set(func(f *fakeChain) { f.balErr = errors.New("rpc down") })

	err := s.SwitchNetwork(context.Background(), constant.NetworkBSC)
	assert.True(t, xerr.Is(err, xerr.KindConnector))

	st := s.State()
	assert.Equal(t, constant.NetworkBSC, st.Network.ID)
	assert.Equal(t, ZeroBalance, st.Balance)
}

func TestSwitchNetworkWithoutWallet(t *testing.T) {
	fc := newFakeChain()
	s := newSession(t, fc, nil)

	require.NoError(t, s.SwitchNetwork(context.Background(), constant.NetworkGoerli))
	assert.Equal(t, constant.NetworkGoerli, s.State().Network.ID)
	assert.Empty(t, fc.dials)
}

func TestRefreshFailureKeepsBalance(t *testing.T) {
	s, fc := withWallet(t, "5.0")
	fc.set(func(f *fakeChain) { f.balErr = errors.New("timeout") })

	err := s.RefreshBalance(context.Background())
	require.Error(t, err)
	assert.True(t, xerr.Is(err, xerr.KindConnector))

	st := s.State()
	assert.Equal(t, "5.0", st.Balance)
	assert.True(t, xerr.Is(st.Err, xerr.KindConnector))
	assert.False(t, st.Loading)
}

func TestRefreshWithoutWalletIsNoop(t *testing.T) {
	fc := newFakeChain()
	s := newSession(t, fc, nil)

	require.NoError(t, s.RefreshBalance(context.Background()))
	assert.Zero(t, fc.calls)
}

func TestSendValidation(t *testing.T) {
	tests := []struct {
		name      string
		balance   string
		recipient string
		amount    string
	}{
		{name: "malformed recipient", balance: "5.0", recipient: "not-an-address", amount: "1.0"},
		{name: "amount above balance", balance: "1.0", recipient: recipient, amount: "1.5"},
		{name: "zero amount", balance: "1.0", recipient: recipient, amount: "0"},
		{name: "negative amount", balance: "1.0", recipient: recipient, amount: "-1"},
		{name: "not a number", balance: "1.0", recipient: recipient, amount: "lots"},
		{name: "too many decimals", balance: "1.0", recipient: recipient, amount: "0.0000000000000000001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, fc := withWallet(t, tt.balance)
			callsBefore := fc.calls

			hash, err := s.SendTransaction(context.Background(), tt.recipient, tt.amount)
			require.Error(t, err)
			assert.Empty(t, hash)
			assert.True(t, xerr.Is(err, xerr.KindValidation))
			assert.Zero(t, fc.submits)
			assert.Equal(t, callsBefore, fc.calls)
			assert.Equal(t, tt.balance, s.State().Balance)
		})
	}
}

func TestSendValidationOnUnboundSession(t *testing.T) {
	ctx := context.Background()
	fc := newFakeChain()
	fc.dialErr = errors.New("connection refused")
	s := newSession(t, fc, nil)

	err := s.ImportWallet(ctx, rawKey)
	assert.True(t, xerr.Is(err, xerr.KindConnector))
	require.NotNil(t, s.State().Wallet)
	s.update(func(st *State) { st.Balance = "5.0" })
	attempts := fc.attempts

	_, err = s.SendTransaction(ctx, "not-an-address", "1.0")
	assert.True(t, xerr.Is(err, xerr.KindValidation))
	_, err = s.SendTransaction(ctx, recipient, "0")
	assert.True(t, xerr.Is(err, xerr.KindValidation))
	_, err = s.SendTransaction(ctx, recipient, "6")
	assert.True(t, xerr.Is(err, xerr.KindValidation))
	assert.Equal(t, attempts, fc.attempts)

	// a valid intent retries the bind
	_, err = s.SendTransaction(ctx, recipient, "1.0")
	assert.True(t, xerr.Is(err, xerr.KindConnector))
	assert.Equal(t, attempts+1, fc.attempts)
	assert.Zero(t, fc.submits)
}

func TestConnectorCallsAreBounded(t *testing.T) {
	ctx := context.Background()
	fc := newFakeChain()
	fc.balances[constant.NetworkEthereum] = "5.0"
	s := New(registry(t), keystore.New(model.NewMemoryStore()), fc.dial, WithCallTimeout(50*time.Millisecond))
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.ImportWallet(ctx, rawKey))
	fc.set(func(f *fakeChain) { f.stall = true })

	start := time.Now()
	hash, err := s.SendTransaction(ctx, recipient, "1.0")
	assert.Empty(t, hash)
	assert.True(t, xerr.Is(err, xerr.KindSubmission))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	st := s.State()
	assert.False(t, st.Loading)
	assert.True(t, xerr.Is(st.Err, xerr.KindSubmission))
	assert.Empty(t, s.Transactions())

	err = s.RefreshBalance(ctx)
	assert.True(t, xerr.Is(err, xerr.KindConnector))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	st = s.State()
	assert.False(t, st.Loading)
	assert.Equal(t, "5.0", st.Balance)

	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSendWithoutWallet(t *testing.T) {
	fc := newFakeChain()
	s := newSession(t, fc, nil)

	_, err := s.SendTransaction(context.Background(), recipient, "1")
	assert.ErrorIs(t, err, ErrNoWallet)
	assert.Empty(t, fc.dials)
}

func TestSendFullBalance(t *testing.T) {
	s, fc := withWallet(t, "2.5")
	fc.set(func(f *fakeChain) { f.balances[constant.NetworkEthereum] = "0.0" })

	hash, err := s.SendTransaction(context.Background(), recipient, "2.5")
	require.NoError(t, err)
	assert.Equal(t, "0xabc123", hash)
	assert.Equal(t, 1, fc.submits)
	assert.Equal(t, "0.0", s.State().Balance)

	txs := s.Transactions()
	require.Len(t, txs, 1)
	tx, ok := s.Transaction(hash)
	require.True(t, ok)
	assert.Equal(t, txs[0], tx)
	_, ok = s.Transaction("0xfeed")
	assert.False(t, ok)
	assert.Equal(t, rawKeyAddress, txs[0].From)
	assert.Equal(t, recipient, txs[0].To)
	assert.Equal(t, "2.5", txs[0].Value)
	assert.Equal(t, chain.StatusPending, txs[0].Status)
}

func TestSendSubmissionFailure(t *testing.T) {
	s, fc := withWallet(t, "2.0")
	fc.set(func(f *fakeChain) { f.submitErr = errors.New("nonce too low") })

	_, err := s.SendTransaction(context.Background(), recipient, "1")
	require.Error(t, err)
	assert.True(t, xerr.Is(err, xerr.KindSubmission))
	assert.True(t, xerr.Is(s.State().Err, xerr.KindSubmission))
	assert.Empty(t, s.Transactions())
}

func TestBindFailureRetriedOnNextOperation(t *testing.T) {
	fc := newFakeChain()
	fc.balances[constant.NetworkEthereum] = "9.0"
	fc.dialErr = errors.New("connection refused")
	s := newSession(t, fc, nil)

	err := s.ImportWallet(context.Background(), rawKey)
	assert.True(t, xerr.Is(err, xerr.KindConnector))
	require.NotNil(t, s.State().Wallet)
	assert.Equal(t, ZeroBalance, s.State().Balance)

	fc.set(func(f *fakeChain) { f.dialErr = nil })
	require.NoError(t, s.RefreshBalance(context.Background()))
	assert.Equal(t, "9.0", s.State().Balance)
	assert.NoError(t, s.State().Err)
}

func TestDeleteWallet(t *testing.T) {
	ctx := context.Background()
	store := model.NewMemoryStore()
	fc := newFakeChain()
	fc.balances[constant.NetworkEthereum] = "1.0"
	s := newSession(t, fc, store)
	require.NoError(t, s.ImportWallet(ctx, rawKey))
	require.NoError(t, s.SwitchNetwork(ctx, constant.NetworkBSC))

	require.NoError(t, s.DeleteWallet(ctx))

	st := s.State()
	assert.Nil(t, st.Wallet)
	assert.Equal(t, ZeroBalance, st.Balance)
	assert.Equal(t, constant.NetworkBSC, st.Network.ID)

	loaded, err := keystore.New(store).Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	_, err = s.ExportPrivateKey()
	assert.ErrorIs(t, err, ErrNoWallet)
}

func TestDeleteWalletPurgeFailureStillResets(t *testing.T) {
	ctx := context.Background()
	fc := newFakeChain()
	s := newSession(t, fc, failingStore{KVStore: model.NewMemoryStore(), err: errors.New("locked")})
	_ = s.ImportWallet(ctx, rawKey)
	require.NotNil(t, s.State().Wallet)

	err := s.DeleteWallet(ctx)
	assert.True(t, xerr.Is(err, xerr.KindPersistence))
	assert.Nil(t, s.State().Wallet)
	assert.True(t, xerr.Is(s.State().Err, xerr.KindPersistence))
}

func TestExportPrivateKey(t *testing.T) {
	s, _ := withWallet(t, "1.0")

	key, err := s.ExportPrivateKey()
	require.NoError(t, err)
	assert.Equal(t, "0x"+rawKey, key)

	id, err := s.ExportIdentity()
	require.NoError(t, err)
	assert.Equal(t, rawKeyAddress, id.Address)
	assert.Equal(t, key, id.PrivateKey)
	assert.False(t, id.HasMnemonic())
}

func TestMaxSendable(t *testing.T) {
	tests := []struct {
		balance string
		want    string
	}{
		{"1.0", "0.999"},
		{"0.001", "0.0"},
		{"0.0005", "0.0"},
		{"0.0", "0.0"},
	}
	for _, tt := range tests {
		t.Run(tt.balance, func(t *testing.T) {
			s, _ := withWallet(t, tt.balance)
			assert.Equal(t, tt.want, s.MaxSendable())
		})
	}
}

func TestTransactionHistory(t *testing.T) {
	ctx := context.Background()
	s, fc := withWallet(t, "10.0")

	for _, amount := range []string{"1", "2", "3", "4"} {
		_, err := s.SendTransaction(ctx, recipient, amount)
		require.NoError(t, err)
	}

	txs := s.Transactions()
	require.Len(t, txs, 3)
	assert.Equal(t, "4", txs[0].Value)
	assert.Equal(t, "2", txs[2].Value)

	fc.set(func(f *fakeChain) { f.status = chain.StatusConfirmed })
	status, err := s.TransactionStatus(ctx, "0xabc123")
	require.NoError(t, err)
	assert.Equal(t, chain.StatusConfirmed, status)
	for _, tx := range s.Transactions() {
		assert.Equal(t, chain.StatusConfirmed, tx.Status)
	}

	require.NoError(t, s.DeleteWallet(ctx))
	assert.Empty(t, s.Transactions())
}

func TestConcurrentOperationsAreSerialized(t *testing.T) {
	s, _ := withWallet(t, "10.0")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = s.RefreshBalance(ctx)
			} else {
				_ = s.SwitchNetwork(ctx, constant.NetworkEthereum)
			}
			_ = s.State()
		}(i)
	}
	wg.Wait()

	st := s.State()
	assert.False(t, st.Loading)
	assert.Equal(t, "10.0", st.Balance)
}

func TestFormatAddress(t *testing.T) {
	assert.Equal(t, "0x2c75...5c23", FormatAddress(rawKeyAddress))
	assert.Equal(t, "0x9858...da94", FormatAddress(recipient))
	assert.Equal(t, "0x12345678", FormatAddress("0x12345678"))
	assert.Equal(t, "", FormatAddress(""))
}
