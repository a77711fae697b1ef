package network

import (
	"fmt"
	"strings"

	"evmwallet/internal/constant"
)

// FromPresets builds the process registry from the built-in chain presets.
// rpcOverrides replaces the RPC URL of a preset by id; infuraKey fills the
// constant.InfuraKeyPlaceholder in whatever URL ends up selected.
func FromPresets(presets []constant.ChainPreset, rpcOverrides map[string]string, infuraKey string) (*Registry, error) {
	for id := range rpcOverrides {
		if !containsPreset(presets, id) {
			return nil, fmt.Errorf("rpc override for unknown network %q", id)
		}
	}

	networks := make([]Network, 0, len(presets))
	for _, p := range presets {
		rpcURL := p.RpcUrl
		if override, ok := rpcOverrides[p.ID]; ok && override != "" {
			rpcURL = override
		}
		if infuraKey != "" {
			rpcURL = strings.ReplaceAll(rpcURL, constant.InfuraKeyPlaceholder, infuraKey)
		}

		networks = append(networks, Network{
			ID:               p.ID,
			Name:             p.Name,
			Symbol:           p.Symbol,
			RPCURL:           rpcURL,
			ChainID:          p.ChainId,
			BlockExplorerURL: p.BlockExplorerUrl,
			Color:            p.Color,
			Decimals:         constant.NativeDecimals,
		})
	}
	return NewRegistry(networks...)
}

func containsPreset(presets []constant.ChainPreset, id string) bool {
	for _, p := range presets {
		if p.ID == id {
			return true
		}
	}
	return false
}
