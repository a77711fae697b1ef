package constant

// Built-in network ids.
const (
	NetworkEthereum   = "ethereum"
	NetworkBSC        = "bsc"
	NetworkGoerli     = "goerli"
	NetworkBSCTestnet = "bscTestnet"
)

// DefaultNetworkID is selected when the config does not name one.
const DefaultNetworkID = NetworkEthereum

// InfuraKeyPlaceholder is replaced in RPC URLs by the INFURA_KEY environment variable.
const InfuraKeyPlaceholder = "YOUR_INFURA_KEY"

// NativeDecimals is the decimals of every built-in network's native coin (wei-denominated).
const NativeDecimals = 18

// WalletStorageKey is the single key the identity record is stored under.
const WalletStorageKey = "wallet"

// ChainPreset is the static definition of one supported chain.
type ChainPreset struct {
	ID               string
	Name             string
	Symbol           string
	RpcUrl           string
	ChainId          int64
	BlockExplorerUrl string
	Color            string
}

// SupportedChains lists every built-in network in display order.
var SupportedChains = []ChainPreset{
	{
		ID:               NetworkEthereum,
		Name:             "Ethereum",
		Symbol:           "ETH",
		RpcUrl:           "https://mainnet.infura.io/v3/" + InfuraKeyPlaceholder,
		ChainId:          1,
		BlockExplorerUrl: "https://etherscan.io",
		Color:            "#627EEA",
	},
	{
		ID:               NetworkBSC,
		Name:             "BNB Smart Chain",
		Symbol:           "BNB",
		RpcUrl:           "https://bsc-dataseed1.binance.org",
		ChainId:          56,
		BlockExplorerUrl: "https://bscscan.com",
		Color:            "#F3BA2F",
	},
	// testnets
	{
		ID:               NetworkGoerli,
		Name:             "Ethereum Goerli",
		Symbol:           "ETH",
		RpcUrl:           "https://goerli.infura.io/v3/" + InfuraKeyPlaceholder,
		ChainId:          5,
		BlockExplorerUrl: "https://goerli.etherscan.io",
		Color:            "#627EEA",
	},
	{
		ID:               NetworkBSCTestnet,
		Name:             "BNB Testnet",
		Symbol:           "tBNB",
		RpcUrl:           "https://data-seed-prebsc-1-s1.binance.org:8545",
		ChainId:          97,
		BlockExplorerUrl: "https://testnet.bscscan.com",
		Color:            "#F3BA2F",
	},
}
