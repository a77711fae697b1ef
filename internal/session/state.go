package session

import (
	"time"

	"evmwallet/internal/chain"
	"evmwallet/internal/keystore"
	"evmwallet/internal/network"
)

// ZeroBalance is the balance of a session without a wallet.
const ZeroBalance = "0"

// State is an immutable snapshot of the session.
type State struct {
	Wallet  *keystore.Identity
	Network network.Network
	// Balance is the native balance from the last successful query against Network.
	Balance string
	Loading bool
	// Err is the failure of the most recent operation, nil when it succeeded.
	Err error
}

// HasWallet reports whether an identity is active.
func (s State) HasWallet() bool {
	return s.Wallet != nil
}

// Transaction is a send made during this process lifetime.
type Transaction struct {
	Hash      string       `json:"hash"`
	From      string       `json:"from"`
	To        string       `json:"to"`
	Value     string       `json:"value"`
	Network   string       `json:"network"`
	Timestamp time.Time    `json:"timestamp"`
	Status    chain.Status `json:"status"`
}

// FormatAddress shortens addr to first6...last4 for display. Strings of ten
// characters or fewer come back unchanged.
func FormatAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
