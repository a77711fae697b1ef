// Package network holds the immutable catalog of supported chains.
package network

import (
	"fmt"
	"strings"

	"evmwallet/internal/constant"
	"evmwallet/internal/xerr"
)

// Network is one supported chain. Values are never mutated after the registry is built.
type Network struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Symbol           string `json:"symbol"`
	RPCURL           string `json:"rpc_url"`
	ChainID          int64  `json:"chain_id"`
	BlockExplorerURL string `json:"block_explorer_url"`
	Color            string `json:"color"`
	Decimals         int    `json:"decimals"`
}

// TxURL links a transaction hash on the network's block explorer.
func (n Network) TxURL(hash string) string {
	return fmt.Sprintf("%s/tx/%s", strings.TrimRight(n.BlockExplorerURL, "/"), hash)
}

// AddressURL links an address on the network's block explorer.
func (n Network) AddressURL(address string) string {
	return fmt.Sprintf("%s/address/%s", strings.TrimRight(n.BlockExplorerURL, "/"), address)
}

// Registry is a lookup table over a fixed, ordered set of networks.
type Registry struct {
	ordered []Network
	byID    map[string]int
}

// NewRegistry builds a registry. Ids and chain ids must both be unique.
func NewRegistry(networks ...Network) (*Registry, error) {
	if len(networks) == 0 {
		return nil, fmt.Errorf("registry needs at least one network")
	}

	r := &Registry{
		ordered: make([]Network, 0, len(networks)),
		byID:    make(map[string]int, len(networks)),
	}
	chainIDs := make(map[int64]string, len(networks))
	for _, n := range networks {
		if n.ID == "" {
			return nil, fmt.Errorf("network with chain id %d has an empty id", n.ChainID)
		}
		if _, ok := r.byID[n.ID]; ok {
			return nil, fmt.Errorf("duplicate network id %q", n.ID)
		}
		if other, ok := chainIDs[n.ChainID]; ok {
			return nil, fmt.Errorf("networks %q and %q share chain id %d", other, n.ID, n.ChainID)
		}
		if n.Decimals == 0 {
			n.Decimals = constant.NativeDecimals
		}
		chainIDs[n.ChainID] = n.ID
		r.byID[n.ID] = len(r.ordered)
		r.ordered = append(r.ordered, n)
	}
	return r, nil
}

// Lookup returns the network with the given id.
func (r *Registry) Lookup(id string) (Network, error) {
	i, ok := r.byID[id]
	if !ok {
		return Network{}, xerr.Newf(xerr.KindUnknownNetwork, "network %q not found", id)
	}
	return r.ordered[i], nil
}

// All returns every network in declaration order.
func (r *Registry) All() []Network {
	out := make([]Network, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Default returns the first declared network.
func (r *Registry) Default() Network {
	return r.ordered[0]
}
