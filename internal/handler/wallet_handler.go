package handler

import (
	"net/http"

	"evmwallet/internal/logic"
	"evmwallet/internal/svc"
	"evmwallet/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"
)

// WalletStateHandler 当前钱包状态
func WalletStateHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logic.NewWalletLogic(r.Context(), svcCtx)
		httpx.OkJsonCtx(r.Context(), w, l.State())
	}
}

// WalletCreateHandler 创建 eth 钱包
func WalletCreateHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logic.NewWalletLogic(r.Context(), svcCtx)
		httpx.OkJsonCtx(r.Context(), w, l.Create())
	}
}

// WalletImportHandler 导入助记词或私钥
func WalletImportHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.WalletImportReq
		if err := httpx.Parse(r, &req); err != nil {
			logx.WithContext(r.Context()).Errorf("failed to parse request body: %v", err)
			httpx.ErrorCtx(r.Context(), w, parseError(err))
			return
		}

		l := logic.NewWalletLogic(r.Context(), svcCtx)
		httpx.OkJsonCtx(r.Context(), w, l.Import(&req))
	}
}

func WalletDeleteHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logic.NewWalletLogic(r.Context(), svcCtx)
		httpx.OkJsonCtx(r.Context(), w, l.Delete())
	}
}

// WalletExportHandler 查看私钥
func WalletExportHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logic.NewWalletLogic(r.Context(), svcCtx)
		resp, err := l.Export()
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}

// WalletReceiveHandler 收款地址和二维码
func WalletReceiveHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logic.NewWalletLogic(r.Context(), svcCtx)
		resp, err := l.Receive()
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}

func BalanceRefreshHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logic.NewWalletLogic(r.Context(), svcCtx)
		httpx.OkJsonCtx(r.Context(), w, l.RefreshBalance())
	}
}
