package types

// WalletView 钱包的公开信息, 不含私钥和助记词
type WalletView struct {
	Address      string `json:"address"`
	ShortAddress string `json:"short_address"`
	HasMnemonic  bool   `json:"has_mnemonic"`
}

// WalletStateResp 会话状态快照, 各个钱包接口的统一返回
type WalletStateResp struct {
	Wallet  *WalletView `json:"wallet"`
	Network NetworkInfo `json:"network"`
	Balance string      `json:"balance"`
	// MaxSendable 扣除手续费预留后的最大可发送金额
	MaxSendable string `json:"max_sendable"`
	Loading     bool   `json:"loading"`
	// Error 最近一次操作的错误, 成功时为空
	Error *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo carries the error kind so clients can branch on it.
type ErrorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// WalletImportReq 导入钱包: 助记词或十六进制私钥
type WalletImportReq struct {
	Secret string `json:"secret"`
}

// WalletExportResp 导出私钥
type WalletExportResp struct {
	Address    string `json:"address"`
	PrivateKey string `json:"private_key"`
	Mnemonic   string `json:"mnemonic,omitempty"`
}

// WalletReceiveResp 收款信息
type WalletReceiveResp struct {
	Address      string `json:"address"`
	ShortAddress string `json:"short_address"`
	Network      string `json:"network"`
	ExplorerUrl  string `json:"explorer_url"`
	// PaymentUri ethereum:<address>@<chainId>
	PaymentUri string `json:"payment_uri"`
	// QrCode base64 编码的 PNG
	QrCode string `json:"qr_code"`
}
