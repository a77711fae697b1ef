package types

// NetworkInfo 网络信息
type NetworkInfo struct {
	Id               string `json:"id"`
	Name             string `json:"name"`
	Symbol           string `json:"symbol"`
	ChainId          int64  `json:"chain_id"`
	BlockExplorerUrl string `json:"block_explorer_url"`
	Color            string `json:"color"`
	Decimals         int    `json:"decimals"`
}

type NetworkListResp struct {
	Networks []NetworkInfo `json:"networks"`
	Current  string        `json:"current"`
}

// NetworkSwitchReq 切换网络
type NetworkSwitchReq struct {
	NetworkId string `json:"network_id"`
}
