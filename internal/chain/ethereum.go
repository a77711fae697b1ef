package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"evmwallet/internal/network"
	"evmwallet/internal/xerr"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/zeromicro/go-zero/core/logx"
)

const (
	nativeTransferGas = 21000
	gasBufferPercent  = 110
)

// errTxIndexing is what nodes answer for a receipt lookup while the
// transaction index is still being built.
const errTxIndexing = "transaction indexing is in progress"

// ValidateAddress reports whether s is a well-formed account address. It needs
// no node, so a recipient can be checked before any binding exists.
func ValidateAddress(s string) bool {
	return common.IsHexAddress(s)
}

// Backend is the subset of *ethclient.Client the connector needs.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// EthereumConnector is a Connector backed by a JSON-RPC node.
type EthereumConnector struct {
	backend  Backend
	closer   func()
	net      network.Network
	key      *ecdsa.PrivateKey
	from     common.Address
	chainID  *big.Int
	decimals int
}

// DialEthereum is the Dialer for real nodes.
func DialEthereum(ctx context.Context, net network.Network, privateKeyHex string) (Connector, error) {
	client, err := ethclient.DialContext(ctx, net.RPCURL)
	if err != nil {
		return nil, xerr.Wrap(xerr.KindConnector, err, fmt.Sprintf("dial %s", net.Name))
	}

	c, err := NewEthereumConnector(ctx, client, net, privateKeyHex)
	if err != nil {
		client.Close()
		return nil, err
	}
	c.closer = client.Close
	return c, nil
}

// NewEthereumConnector binds the key to backend after checking the node
// serves net's chain id. The caller keeps ownership of backend.
func NewEthereumConnector(ctx context.Context, backend Backend, net network.Network, privateKeyHex string) (*EthereumConnector, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, xerr.Wrap(xerr.KindConnector, err, "parse private key")
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, xerr.Wrap(xerr.KindConnector, err, fmt.Sprintf("query chain id of %s", net.Name))
	}
	if chainID.Int64() != net.ChainID {
		return nil, xerr.Newf(xerr.KindConnector, "rpc for %s serves chain id %s, want %d", net.Name, chainID, net.ChainID)
	}

	return &EthereumConnector{
		backend:  backend,
		net:      net,
		key:      key,
		from:     crypto.PubkeyToAddress(key.PublicKey),
		chainID:  chainID,
		decimals: net.Decimals,
	}, nil
}

func (c *EthereumConnector) ValidateAddress(s string) bool {
	return ValidateAddress(s)
}

func (c *EthereumConnector) GetBalance(ctx context.Context, address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", xerr.Newf(xerr.KindConnector, "invalid address %q", address)
	}
	wei, err := c.backend.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return "", xerr.Wrap(xerr.KindConnector, err, "get balance")
	}
	return FormatUnits(wei, c.decimals), nil
}

func (c *EthereumConnector) SubmitTransaction(ctx context.Context, recipient, amount string) (string, error) {
	logger := logx.WithContext(ctx).WithFields(logx.Field("network", c.net.ID), logx.Field("to", recipient))

	if !ValidateAddress(recipient) {
		return "", xerr.Newf(xerr.KindConnector, "invalid recipient %q", recipient)
	}
	to := common.HexToAddress(recipient)
	value, err := ParseUnits(amount, c.decimals)
	if err != nil {
		return "", xerr.Wrap(xerr.KindConnector, err, "parse amount")
	}

	nonce, err := c.backend.PendingNonceAt(ctx, c.from)
	if err != nil {
		return "", xerr.Wrap(xerr.KindConnector, err, "get nonce")
	}
	gasLimit, gasPrice, err := c.estimateNativeTransferGas(ctx, to, value)
	if err != nil {
		return "", xerr.Wrap(xerr.KindConnector, err, "estimate gas")
	}
	logger.Infof("nonce=%d gasLimit=%d gasPrice=%s", nonce, gasLimit, gasPrice)

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
	})
	signed, err := types.SignTx(tx, types.NewEIP155Signer(c.chainID), c.key)
	if err != nil {
		return "", xerr.Wrap(xerr.KindConnector, err, "sign transaction")
	}
	if err := c.backend.SendTransaction(ctx, signed); err != nil {
		return "", xerr.Wrap(xerr.KindConnector, err, "send transaction")
	}

	hash := signed.Hash().Hex()
	logger.Infof("transaction accepted: %s", hash)
	return hash, nil
}

// estimateNativeTransferGas asks the node, never goes below the intrinsic
// transfer cost and adds a 10% buffer.
func (c *EthereumConnector) estimateNativeTransferGas(ctx context.Context, to common.Address, value *big.Int) (uint64, *big.Int, error) {
	gasPrice, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("suggest gas price: %w", err)
	}

	gasLimit, err := c.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  c.from,
		To:    &to,
		Value: value,
	})
	if err != nil {
		if ctx.Err() != nil {
			return 0, nil, err
		}
		logx.WithContext(ctx).Infof("gas estimation failed, using %d: %v", nativeTransferGas, err)
		gasLimit = nativeTransferGas
	}
	if gasLimit < nativeTransferGas {
		gasLimit = nativeTransferGas
	}
	return gasLimit * gasBufferPercent / 100, gasPrice, nil
}

func (c *EthereumConnector) TransactionStatus(ctx context.Context, hash string) (Status, error) {
	receipt, err := c.backend.TransactionReceipt(ctx, common.HexToHash(hash))
	if errors.Is(err, ethereum.NotFound) || isIndexing(err) {
		return StatusPending, nil
	}
	if err != nil {
		return "", xerr.Wrap(xerr.KindConnector, err, "get receipt")
	}
	if receipt.Status == types.ReceiptStatusSuccessful {
		return StatusConfirmed, nil
	}
	return StatusFailed, nil
}

func isIndexing(err error) bool {
	return err != nil && strings.Contains(err.Error(), errTxIndexing)
}

// Address is the sender bound to this connector.
func (c *EthereumConnector) Address() common.Address {
	return c.from
}

func (c *EthereumConnector) Close() {
	if c.closer != nil {
		c.closer()
		c.closer = nil
	}
}
