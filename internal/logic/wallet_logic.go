package logic

import (
	"context"
	"encoding/base64"
	"fmt"

	"evmwallet/internal/network"
	"evmwallet/internal/session"
	"evmwallet/internal/svc"
	"evmwallet/internal/types"
	"evmwallet/internal/xerr"

	"github.com/skip2/go-qrcode"
	"github.com/zeromicro/go-zero/core/logx"
)

// QrCodeSize 收款二维码边长, 像素
const QrCodeSize = 256

type WalletLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewWalletLogic(ctx context.Context, svcCtx *svc.ServiceContext) *WalletLogic {
	return &WalletLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// State 返回当前会话快照
func (l *WalletLogic) State() *types.WalletStateResp {
	return BuildStateResp(l.svcCtx.Session)
}

// Create 创建新钱包. 失败写入快照的 error 字段, 不作为 HTTP 错误返回
func (l *WalletLogic) Create() *types.WalletStateResp {
	l.Infof("--- 开始处理 /wallet/create 请求 ---")
	if err := l.svcCtx.Session.CreateWallet(l.ctx); err != nil {
		l.Errorf("创建钱包失败: %v", err)
	}
	return l.State()
}

// Import 通过助记词或私钥导入钱包
func (l *WalletLogic) Import(req *types.WalletImportReq) *types.WalletStateResp {
	l.Infof("--- 开始处理 /wallet/import 请求 ---")
	if err := l.svcCtx.Session.ImportWallet(l.ctx, req.Secret); err != nil {
		l.Errorf("导入钱包失败: %v", err)
	}
	return l.State()
}

// Delete 删除钱包并清除持久化数据
func (l *WalletLogic) Delete() *types.WalletStateResp {
	l.Infof("--- 开始处理 /wallet/delete 请求 ---")
	if err := l.svcCtx.Session.DeleteWallet(l.ctx); err != nil {
		l.Errorf("删除钱包失败: %v", err)
	}
	return l.State()
}

// RefreshBalance 刷新余额
func (l *WalletLogic) RefreshBalance() *types.WalletStateResp {
	if err := l.svcCtx.Session.RefreshBalance(l.ctx); err != nil {
		l.Errorf("刷新余额失败: %v", err)
	}
	return l.State()
}

// Export 导出私钥 (及助记词)
func (l *WalletLogic) Export() (*types.WalletExportResp, error) {
	id, err := l.svcCtx.Session.ExportIdentity()
	if err != nil {
		return nil, err
	}
	l.Infof("导出私钥: %s", id.Address)
	return &types.WalletExportResp{
		Address:    id.Address,
		PrivateKey: id.PrivateKey,
		Mnemonic:   id.Mnemonic,
	}, nil
}

// Receive 收款地址、浏览器链接和二维码
func (l *WalletLogic) Receive() (*types.WalletReceiveResp, error) {
	st := l.svcCtx.Session.State()
	if !st.HasWallet() {
		return nil, session.ErrNoWallet
	}

	address := st.Wallet.Address
	uri := PaymentUri(address, st.Network)
	png, err := qrcode.Encode(uri, qrcode.Medium, QrCodeSize)
	if err != nil {
		return nil, xerr.Wrap(xerr.KindUnknown, err, "encode qr code")
	}

	return &types.WalletReceiveResp{
		Address:      address,
		ShortAddress: session.FormatAddress(address),
		Network:      st.Network.ID,
		ExplorerUrl:  st.Network.AddressURL(address),
		PaymentUri:   uri,
		QrCode:       base64.StdEncoding.EncodeToString(png),
	}, nil
}

// PaymentUri builds an EIP-681 style payment target.
func PaymentUri(address string, n network.Network) string {
	return fmt.Sprintf("ethereum:%s@%d", address, n.ChainID)
}

// BuildStateResp 把会话快照转换为接口返回
func BuildStateResp(s *session.Session) *types.WalletStateResp {
	st := s.State()
	resp := &types.WalletStateResp{
		Network: ToNetworkInfo(st.Network),
		Balance: st.Balance,
		Loading: st.Loading,
		Error:   ToErrorInfo(st.Err),
	}
	if st.HasWallet() {
		resp.Wallet = &types.WalletView{
			Address:      st.Wallet.Address,
			ShortAddress: session.FormatAddress(st.Wallet.Address),
			HasMnemonic:  st.Wallet.HasMnemonic(),
		}
		resp.MaxSendable = s.MaxSendable()
	}
	return resp
}

func ToErrorInfo(err error) *types.ErrorInfo {
	if err == nil {
		return nil
	}
	return &types.ErrorInfo{
		Kind:    xerr.KindOf(err).String(),
		Message: err.Error(),
	}
}
