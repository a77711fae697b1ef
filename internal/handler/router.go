package handler

import (
	"net/http"
	"time"

	"evmwallet/internal/svc"

	"github.com/zeromicro/go-zero/rest"
	"github.com/zeromicro/go-zero/rest/httpx"
)

const (
	routePrefix = "/api/"
	// routeTimeout covers a bind, a submission and a balance refresh in one request.
	routeTimeout = 60000 * time.Millisecond
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	httpx.SetErrorHandlerCtx(ErrorHandler)

	server.AddRoutes(
		routes(serverCtx),
		rest.WithPrefix(routePrefix),
		rest.WithTimeout(routeTimeout),
	)
}

func routes(serverCtx *svc.ServiceContext) []rest.Route {
	return []rest.Route{
		// --- Wallet Routes ---
		{
			Method:  http.MethodGet,
			Path:    "/wallet",
			Handler: WalletStateHandler(serverCtx),
		},
		{
			Method:  http.MethodPost,
			Path:    "/wallet/create",
			Handler: WalletCreateHandler(serverCtx),
		},
		{
			Method:  http.MethodPost,
			Path:    "/wallet/import",
			Handler: WalletImportHandler(serverCtx),
		},
		{
			Method:  http.MethodPost,
			Path:    "/wallet/delete",
			Handler: WalletDeleteHandler(serverCtx),
		},
		{
			Method:  http.MethodGet,
			Path:    "/wallet/export",
			Handler: WalletExportHandler(serverCtx),
		},
		{
			Method:  http.MethodGet,
			Path:    "/wallet/receive",
			Handler: WalletReceiveHandler(serverCtx),
		},
		{
			Method:  http.MethodPost,
			Path:    "/balance/refresh",
			Handler: BalanceRefreshHandler(serverCtx),
		},
		// --- Network Routes ---
		{
			Method:  http.MethodGet,
			Path:    "/networks",
			Handler: NetworkListHandler(serverCtx),
		},
		{
			Method:  http.MethodPost,
			Path:    "/network/switch",
			Handler: NetworkSwitchHandler(serverCtx),
		},
		// --- Transaction Routes ---
		{
			Method:  http.MethodPost,
			Path:    "/transaction/send",
			Handler: TransactionSendHandler(serverCtx),
		},
		{
			Method:  http.MethodGet,
			Path:    "/transaction/status",
			Handler: TransactionStatusHandler(serverCtx),
		},
		{
			Method:  http.MethodGet,
			Path:    "/transactions",
			Handler: TransactionListHandler(serverCtx),
		},
	}
}
