package svc

import (
	"fmt"
	"log"
	"time"

	"evmwallet/internal/chain"
	"evmwallet/internal/config"
	"evmwallet/internal/constant"
	"evmwallet/internal/keystore"
	"evmwallet/internal/model"
	"evmwallet/internal/network"
	"evmwallet/internal/session"

	"github.com/zeromicro/go-zero/core/errorx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ServiceContext struct {
	Config   config.Config
	Store    model.KVStore
	Registry *network.Registry
	KeyStore *keystore.KeyStore
	Session  *session.Session
}

// NewServiceContext 按配置组装存储、网络表、密钥库和钱包会话
func NewServiceContext(c config.Config) *ServiceContext {
	secrets, err := config.LoadSecrets()
	if err != nil {
		log.Fatalf("failed to load secrets: %v", err)
	}

	store, err := initStore(c.Store)
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}

	svcCtx, err := NewServiceContextWithDeps(c, secrets, store, chain.DialEthereum)
	if err != nil {
		log.Fatalf("failed to init service: %v", err)
	}
	return svcCtx
}

// NewServiceContextWithDeps 使用给定的存储和链连接器组装服务, 便于测试替换
func NewServiceContextWithDeps(c config.Config, secrets config.Secrets, store model.KVStore, dial chain.Dialer) (*ServiceContext, error) {
	registry, err := network.FromPresets(constant.SupportedChains, c.RpcOverrides(), secrets.InfuraKey)
	if err != nil {
		return nil, err
	}

	defaultNetwork := c.Session.DefaultNetwork
	if defaultNetwork == "" {
		defaultNetwork = constant.DefaultNetworkID
	}
	n, err := registry.Lookup(defaultNetwork)
	if err != nil {
		return nil, fmt.Errorf("default network: %w", err)
	}
	opts := []session.Option{
		session.WithNetwork(n),
		session.WithCallTimeout(c.Session.CallTimeoutDuration()),
		session.WithHistorySize(c.Session.HistorySize),
	}

	keys := keystore.New(store, keystore.WithPassphrase(secrets.WalletPassphrase))
	return &ServiceContext{
		Config:   c,
		Store:    store,
		Registry: registry,
		KeyStore: keys,
		Session:  session.New(registry, keys, dial, opts...),
	}, nil
}

// Close 关闭会话与存储, 汇总所有错误
func (s *ServiceContext) Close() error {
	var errs errorx.BatchError
	errs.Add(s.Session.Close())
	errs.Add(s.Store.Close())
	return errs.Err()
}

func initStore(c config.StoreConf) (model.KVStore, error) {
	switch c.Driver {
	case config.StoreDriverPostgres:
		db, err := initDB(c.DSN)
		if err != nil {
			return nil, err
		}
		return model.NewWalletKvDao(db)
	case config.StoreDriverBadger:
		return model.NewBadgerStore(c.Path)
	case config.StoreDriverMemory:
		return model.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", c.Driver)
	}
}

func initDB(dsn string) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(log.Writer(), "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(10)

	return db, nil
}
