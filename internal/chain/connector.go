// Package chain talks to an EVM node on behalf of the active wallet.
package chain

import (
	"context"

	"evmwallet/internal/network"
)

// Status of a submitted transaction.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

// Connector is a binding of one identity to one network.
type Connector interface {
	// ValidateAddress reports whether s is a well-formed account address.
	ValidateAddress(s string) bool
	// GetBalance returns the native balance of address as a decimal string.
	GetBalance(ctx context.Context, address string) (string, error)
	// SubmitTransaction signs and broadcasts a native transfer and returns
	// its hash once the node accepted it.
	SubmitTransaction(ctx context.Context, recipient, amount string) (string, error)
	TransactionStatus(ctx context.Context, hash string) (Status, error)
	Close()
}

// Dialer binds privateKeyHex to net. Each call yields an independent binding.
type Dialer func(ctx context.Context, net network.Network, privateKeyHex string) (Connector, error)
