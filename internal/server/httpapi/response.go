package httpapi

import (
	"encoding/json"
	"errors"

	"github.com/dmitrijs2005/matrimo/internal/common"
	"github.com/dmitrijs2005/matrimo/internal/server/services"
	"github.com/dmitrijs2005/matrimo/internal/wire"
	"github.com/valyala/fasthttp"
)

func respondJSON(ctx *fasthttp.RequestCtx, status int, payload wire.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func respondSuccess(ctx *fasthttp.RequestCtx, data any) {
	env := wire.Envelope{Success: true}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			respondFailure(ctx, fasthttp.StatusInternalServerError, common.ErrorInternal.Error())
			return
		}
		env.Data = raw
	}
	respondJSON(ctx, fasthttp.StatusOK, env)
}

func respondFailure(ctx *fasthttp.RequestCtx, status int, msg string) {
	respondJSON(ctx, status, wire.Envelope{Success: false, Error: msg})
}

func respondError(ctx *fasthttp.RequestCtx, err error) {
	status, msg := mapError(err)
	respondFailure(ctx, status, msg)
}

// mapError picks the HTTP status for a service error. Messages of
// *services.Error are passed through; anything unexpected is a 500 with a
// fixed message.
func mapError(err error) (int, string) {
	msg := err.Error()
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		msg = svcErr.Message
	}

	switch {
	case errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrInvalidOTP),
		errors.Is(err, common.ErrOTPNotVerified):
		return fasthttp.StatusBadRequest, msg
	case errors.Is(err, common.ErrorAlreadyExists):
		return fasthttp.StatusConflict, msg
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrRefreshTokenExpired):
		return fasthttp.StatusUnauthorized, msg
	case errors.Is(err, common.ErrorNotFound):
		return fasthttp.StatusNotFound, msg
	default:
		return fasthttp.StatusInternalServerError, common.ErrorInternal.Error()
	}
}
