package logic

import (
	"context"

	"evmwallet/internal/chain"
	"evmwallet/internal/svc"
	"evmwallet/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type TransactionLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewTransactionLogic(ctx context.Context, svcCtx *svc.ServiceContext) *TransactionLogic {
	return &TransactionLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// Send 原生代币转账. 先本地校验, 节点接受后才返回交易哈希
func (l *TransactionLogic) Send(req *types.TransactionSendReq) (*types.TransactionResp, error) {
	l.Infof("--- 开始处理 /transaction/send 请求, to: %s, amount: %s ---", req.ToAddress, req.Amount)

	hash, err := l.svcCtx.Session.SendTransaction(l.ctx, req.ToAddress, req.Amount)
	if err != nil {
		l.Errorf("转账失败: %v", err)
		return nil, err
	}

	// 以交易记录中的网络为准, 发送后会话可能已切换网络
	n := l.svcCtx.Session.State().Network
	if tx, ok := l.svcCtx.Session.Transaction(hash); ok {
		if sent, err := l.svcCtx.Registry.Lookup(tx.Network); err == nil {
			n = sent
		}
	}

	l.Infof("--- /transaction/send 请求处理完成, network: %s, TxHash: %s ---", n.ID, hash)
	return &types.TransactionResp{
		TxHash:      hash,
		ExplorerUrl: n.TxURL(hash),
		Chain:       n.ID,
		Status:      string(chain.StatusPending),
	}, nil
}

// Status 查询交易回执
func (l *TransactionLogic) Status(req *types.TransactionStatusReq) (*types.TransactionResp, error) {
	status, err := l.svcCtx.Session.TransactionStatus(l.ctx, req.Hash)
	if err != nil {
		l.Errorf("查询交易状态失败: %v", err)
		return nil, err
	}

	n := l.svcCtx.Session.State().Network
	return &types.TransactionResp{
		TxHash:      req.Hash,
		ExplorerUrl: n.TxURL(req.Hash),
		Chain:       n.ID,
		Status:      string(status),
	}, nil
}

// List 最近发送的交易, 新的在前
func (l *TransactionLogic) List() *types.TransactionListResp {
	txs := l.svcCtx.Session.Transactions()
	resp := &types.TransactionListResp{
		Transactions: make([]types.TransactionInfo, 0, len(txs)),
		Total:        len(txs),
	}
	for _, tx := range txs {
		info := types.TransactionInfo{
			TxHash:    tx.Hash,
			From:      tx.From,
			To:        tx.To,
			Value:     tx.Value,
			Chain:     tx.Network,
			Status:    string(tx.Status),
			Timestamp: tx.Timestamp.Unix(),
		}
		if n, err := l.svcCtx.Registry.Lookup(tx.Network); err == nil {
			info.ExplorerUrl = n.TxURL(tx.Hash)
		}
		resp.Transactions = append(resp.Transactions, info)
	}
	return resp
}
