package handler

import (
	"net/http"

	"evmwallet/internal/logic"
	"evmwallet/internal/svc"
	"evmwallet/internal/types"

	"github.com/zeromicro/go-zero/rest/httpx"
)

func NetworkListHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logic.NewNetworkLogic(r.Context(), svcCtx)
		httpx.OkJsonCtx(r.Context(), w, l.List())
	}
}

// NetworkSwitchHandler 切换网络
func NetworkSwitchHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.NetworkSwitchReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, parseError(err))
			return
		}

		l := logic.NewNetworkLogic(r.Context(), svcCtx)
		httpx.OkJsonCtx(r.Context(), w, l.Switch(&req))
	}
}
