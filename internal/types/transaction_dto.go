package types

// TransactionSendReq 原生代币转账请求
type TransactionSendReq struct {
	ToAddress string `json:"to_address"`
	Amount    string `json:"amount"` // 十进制原生单位, e.g. "0.5"
}

// TransactionResp defines the response for a submitted transaction.
type TransactionResp struct {
	TxHash      string `json:"tx_hash"`
	ExplorerUrl string `json:"explorer_url"`
	Chain       string `json:"chain"`
	Status      string `json:"status"`
}

// TransactionStatusReq 查询交易状态
type TransactionStatusReq struct {
	Hash string `form:"hash"`
}

// TransactionInfo 最近发送的交易
type TransactionInfo struct {
	TxHash      string `json:"tx_hash"`
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	Chain       string `json:"chain"`
	Status      string `json:"status"`
	Timestamp   int64  `json:"timestamp"`
	ExplorerUrl string `json:"explorer_url"`
}

type TransactionListResp struct {
	Transactions []TransactionInfo `json:"transactions"`
	Total        int               `json:"total"`
}
