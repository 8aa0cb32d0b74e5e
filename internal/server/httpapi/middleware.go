package httpapi

import (
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/matrimo/internal/common"
	"github.com/dmitrijs2005/matrimo/internal/server/auth"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

const (
	userIDValue     = "user_id"
	requestIDValue  = "request_id"
	requestIDHeader = "X-Request-ID"
)

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := strings.TrimSpace(string(ctx.Request.Header.Peek(common.AuthorizationHeaderName)))
	return strings.TrimPrefix(header, common.BearerPrefix)
}

// bearerAuth rejects requests without a valid access token and stores the
// account id under userIDValue.
func (s *HTTPServer) bearerAuth(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		token := extractToken(ctx)
		if token == "" {
			respondFailure(ctx, fasthttp.StatusUnauthorized, "missing token")
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				respondFailure(ctx, fasthttp.StatusUnauthorized, common.ErrTokenExpired.Error())
				return
			}
			respondFailure(ctx, fasthttp.StatusUnauthorized, common.ErrInvalidToken.Error())
			return
		}

		ctx.SetUserValue(userIDValue, userID)
		next(ctx)
	}
}

// accessLog tags every request with an id and logs its outcome.
func (s *HTTPServer) accessLog(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()

		reqID := strings.TrimSpace(string(ctx.Request.Header.Peek(requestIDHeader)))
		if reqID == "" {
			reqID = uuid.NewString()
		}
		ctx.SetUserValue(requestIDValue, reqID)
		ctx.Response.Header.Set(requestIDHeader, reqID)

		next(ctx)

		args := []any{
			"request_id", reqID,
			"method", string(ctx.Method()),
			"path", string(ctx.Path()),
			"status", ctx.Response.StatusCode(),
			"duration", time.Since(start),
		}
		if ctx.Response.StatusCode() >= fasthttp.StatusInternalServerError {
			s.logger.Error(s.baseCtx, "request failed", args...)
			return
		}
		s.logger.Debug(s.baseCtx, "request handled", args...)
	}
}
