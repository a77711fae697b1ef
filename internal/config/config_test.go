package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/conf"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	require.NoError(t, conf.LoadFromYamlBytes([]byte(`
Name: wallet
Host: 127.0.0.1
Port: 8888
Chains:
  bsc:
    RpcUrl: http://localhost:8545
`), &c))

	assert.Equal(t, StoreDriverBadger, c.Store.Driver)
	assert.Equal(t, "ethereum", c.Session.DefaultNetwork)
	assert.Equal(t, 15*time.Second, c.Session.CallTimeoutDuration())
	assert.Equal(t, 20, c.Session.HistorySize)
	assert.Equal(t, map[string]string{"bsc": "http://localhost:8545"}, c.RpcOverrides())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	var c Config
	err := conf.LoadFromYamlBytes([]byte(`
Name: wallet
Host: 127.0.0.1
Port: 8888
Store:
  Driver: sqlite
`), &c)
	assert.Error(t, err)
}

func TestLoadSecrets(t *testing.T) {
	t.Setenv("WALLET_PASSPHRASE", "hunter2")
	t.Setenv("INFURA_KEY", "abc123")

	s, err := LoadSecrets()
	require.NoError(t, err)
	assert.Equal(t, "hunter2", s.WalletPassphrase)
	assert.Equal(t, "abc123", s.InfuraKey)
}
