package middleware

import (
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskbox/api/transport"
	"github.com/fastygo/taskbox/domain"
	"github.com/fastygo/taskbox/pkg/httpcontext"
	"github.com/fastygo/taskbox/repository"
)

// DefaultTokenHeader carries the session token on gated requests.
const DefaultTokenHeader = "x-auth-token"

const sessionKey = "taskbox.session"

// TokenVerifier resolves a session from a signed token.
type TokenVerifier interface {
	Verify(token string) (*domain.Session, error)
}

// Auth gates a handler on a valid session token. revocations may be nil.
func Auth(header string, verifier TokenVerifier, revocations repository.RevocationRepository, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if header == "" {
		header = DefaultTokenHeader
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := string(ctx.Request.Header.Peek(header))
			if tokenString == "" {
				reject(ctx, domain.ErrUnauthenticated)
				return
			}

			session, err := verifier.Verify(tokenString)
			if err != nil {
				logger.Debug("invalid session token", zap.Error(err))
				reject(ctx, domain.ErrInvalidToken)
				return
			}

			if revocations != nil {
				revoked, err := revocations.IsRevoked(ctx, session.ID)
				if err != nil {
					logger.Error("revocation lookup failed", zap.Error(err))
					ctx.Response.Header.SetContentType("application/json")
					ctx.SetStatusCode(fasthttp.StatusInternalServerError)
					ctx.SetBody(transport.NewMessage(transport.ServerError).Bytes())
					return
				}
				if revoked {
					reject(ctx, domain.ErrInvalidToken)
					return
				}
			}

			ctx.SetUserValue(sessionKey, session)
			ctx.SetUserValue(httpcontext.UserValueAccountID, session.AccountID)
			next(ctx)
		}
	}
}

// SessionFrom returns the session attached by Auth.
func SessionFrom(ctx *fasthttp.RequestCtx) (*domain.Session, bool) {
	session, ok := ctx.UserValue(sessionKey).(*domain.Session)
	return session, ok && session != nil
}

// CallerID returns the authenticated account id, or "" outside of Auth.
func CallerID(ctx *fasthttp.RequestCtx) string {
	if session, ok := SessionFrom(ctx); ok {
		return session.AccountID
	}
	return ""
}

func reject(ctx *fasthttp.RequestCtx, err *domain.Error) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	ctx.SetBody(transport.NewMessage(err.Message).Bytes())
}
