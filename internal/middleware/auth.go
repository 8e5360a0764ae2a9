package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"
	"github.com/ethereum/go-ethereum/common"

	"github.com/mmynk/daotreasury/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// CallerKey is the context key for the authenticated wallet address.
	CallerKey contextKey = "caller"
	// RequestIDKey is the context key for the per-request id.
	RequestIDKey contextKey = "request_id"

	infoKey contextKey = "request_info"
)

// requestInfo lets interceptors further out see who the inner auth
// interceptor authenticated.
type requestInfo struct {
	caller common.Address
	authed bool
}

// WithCaller returns a context carrying the authenticated address.
func WithCaller(ctx context.Context, caller common.Address) context.Context {
	if info, ok := ctx.Value(infoKey).(*requestInfo); ok {
		info.caller = caller
		info.authed = true
	}
	return context.WithValue(ctx, CallerKey, caller)
}

// GetCaller extracts the authenticated wallet address from the context.
// ok is false for unauthenticated requests.
func GetCaller(ctx context.Context) (common.Address, bool) {
	caller, ok := ctx.Value(CallerKey).(common.Address)
	return caller, ok
}

// GetRequestID extracts the request id set by the logging interceptor.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth returns a middleware that validates JWT tokens and requires authentication.
// It extracts the token from the Authorization header, validates it, and adds
// the caller's address to the request context.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			tokenString, ok := bearerToken(authHeader)
			if !ok {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithCaller(ctx, claims.Caller()), req)
		}
	}
}

// OptionalAuth returns a middleware that validates JWT tokens if present, but allows
// requests without authentication. Used by the public read procedures so that
// logs still name the caller when a wallet is signed in.
func OptionalAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if tokenString, ok := bearerToken(req.Header().Get("Authorization")); ok {
				// Validate token (ignore errors - optional auth)
				if claims, err := jwtManager.Validate(tokenString); err == nil {
					ctx = WithCaller(ctx, claims.Caller())
				}
			}
			return next(ctx, req)
		}
	}
}

// ProcedureAuth applies OptionalAuth to the listed public procedures and
// RequireAuth to every other one, so a single handler can mix both.
func ProcedureAuth(jwtManager *auth.JWTManager, public ...string) connect.UnaryInterceptorFunc {
	open := make(map[string]bool, len(public))
	for _, p := range public {
		open[p] = true
	}
	required := RequireAuth(jwtManager)
	optional := OptionalAuth(jwtManager)

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		requiredNext := required(next)
		optionalNext := optional(next)
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if open[req.Spec().Procedure] {
				return optionalNext(ctx, req)
			}
			return requiredNext(ctx, req)
		}
	}
}
