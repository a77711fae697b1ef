package logic

import (
	"context"

	"evmwallet/internal/network"
	"evmwallet/internal/svc"
	"evmwallet/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type NetworkLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewNetworkLogic(ctx context.Context, svcCtx *svc.ServiceContext) *NetworkLogic {
	return &NetworkLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// List 按声明顺序列出支持的网络
func (l *NetworkLogic) List() *types.NetworkListResp {
	all := l.svcCtx.Registry.All()
	resp := &types.NetworkListResp{
		Networks: make([]types.NetworkInfo, 0, len(all)),
		Current:  l.svcCtx.Session.State().Network.ID,
	}
	for _, n := range all {
		resp.Networks = append(resp.Networks, ToNetworkInfo(n))
	}
	return resp
}

// Switch 切换网络并重新绑定钱包
func (l *NetworkLogic) Switch(req *types.NetworkSwitchReq) *types.WalletStateResp {
	l.Infof("--- 开始处理 /network/switch 请求, network: %s ---", req.NetworkId)
	if err := l.svcCtx.Session.SwitchNetwork(l.ctx, req.NetworkId); err != nil {
		l.Errorf("切换网络失败: %v", err)
	}
	return BuildStateResp(l.svcCtx.Session)
}

func ToNetworkInfo(n network.Network) types.NetworkInfo {
	return types.NetworkInfo{
		Id:               n.ID,
		Name:             n.Name,
		Symbol:           n.Symbol,
		ChainId:          n.ChainID,
		BlockExplorerUrl: n.BlockExplorerURL,
		Color:            n.Color,
		Decimals:         n.Decimals,
	}
}
