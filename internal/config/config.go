package config

import (
	"time"

	"github.com/zeromicro/go-zero/rest"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverBadger   = "badger"
	StoreDriverMemory   = "memory"
)

// ChainConf overrides the RPC endpoint of a built-in network.
type ChainConf struct {
	RpcUrl string `json:"RpcUrl"`
}

type StoreConf struct {
	// Driver 存储驱动: postgres | badger | memory
	Driver string `json:",default=badger,options=postgres|badger|memory"`
	// DSN postgres 连接串
	DSN string `json:",optional"`
	// Path badger 数据目录, 为空时使用内存模式
	Path string `json:",optional"`
}

type SessionConf struct {
	DefaultNetwork string `json:",default=ethereum"`
	// CallTimeout 单次链上调用超时, 毫秒
	CallTimeout int64 `json:",default=15000"`
	HistorySize int   `json:",default=20"`
}

type Config struct {
	rest.RestConf
	Store   StoreConf
	Session SessionConf
	// Chains maps a network id (e.g., "bsc") to its RPC override.
	Chains map[string]ChainConf `json:",optional"`
}

func (c SessionConf) CallTimeoutDuration() time.Duration {
	return time.Duration(c.CallTimeout) * time.Millisecond
}

// RpcOverrides flattens Chains for network.FromPresets.
func (c Config) RpcOverrides() map[string]string {
	overrides := make(map[string]string, len(c.Chains))
	for id, chain := range c.Chains {
		overrides[id] = chain.RpcUrl
	}
	return overrides
}
