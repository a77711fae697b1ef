package handler

import (
	"context"
	"net/http"

	"evmwallet/internal/logic"
	"evmwallet/internal/xerr"

	"github.com/zeromicro/go-zero/core/logx"
)

// StatusOf maps an error kind to an HTTP status.
func StatusOf(err error) int {
	switch xerr.KindOf(err) {
	case xerr.KindValidation, xerr.KindInvalidSecret:
		return http.StatusBadRequest
	case xerr.KindUnknownNetwork:
		return http.StatusNotFound
	case xerr.KindSubmission, xerr.KindConnector:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders errors as {"kind","message"}.
func ErrorHandler(ctx context.Context, err error) (int, any) {
	code := StatusOf(err)
	if code >= http.StatusInternalServerError {
		logx.WithContext(ctx).Errorf("request failed: %v", err)
	}
	return code, logic.ToErrorInfo(err)
}

// parseError tags request decoding failures so they map to 400.
func parseError(err error) error {
	return xerr.Wrap(xerr.KindValidation, err, "bad request")
}
