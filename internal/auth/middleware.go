package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/bloghub/bloghub/internal/account"
	"github.com/bloghub/bloghub/internal/httputil"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const accountContextKey ContextKey = "account"

// AccountResolver re-resolves the token's subject, catching accounts deleted
// between token issuance and use.
type AccountResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error)
}

// Middleware handles authentication for protected routes
type Middleware struct {
	tokens   TokenService
	accounts AccountResolver
}

func NewMiddleware(tokens TokenService, accounts AccountResolver) *Middleware {
	return &Middleware{tokens: tokens, accounts: accounts}
}

// RequireAuth validates the bearer token and attaches the sanitized account
// info to the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.RespondError(w, "missing authentication token", httputil.CodeMissingToken, http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.RespondError(w, "invalid authorization header format", httputil.CodeInvalidAuthHeader, http.StatusUnauthorized)
			return
		}
		token := parts[1]

		claims, err := m.tokens.VerifyToken(token)
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				httputil.RespondError(w, "token has expired", httputil.CodeTokenExpired, http.StatusUnauthorized)
				return
			}
			httputil.RespondError(w, "invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		accountID, err := uuid.Parse(claims.AccountID)
		if err != nil {
			httputil.RespondError(w, "invalid account ID in token", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		// A valid signature is not enough: the account may have been deleted
		// after the token was issued.
		acc, err := m.accounts.GetByID(r.Context(), accountID)
		if err != nil {
			if errors.Is(err, account.ErrNotFound) {
				httputil.RespondError(w, "account no longer exists", httputil.CodeAccountNotFound, http.StatusUnauthorized)
				return
			}
			httputil.RespondError(w, "an error occurred", httputil.CodeInternalError, http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), accountContextKey, acc.Info())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AccountFromContext extracts the authenticated account info from the request context
func AccountFromContext(ctx context.Context) (*account.Info, bool) {
	info, ok := ctx.Value(accountContextKey).(*account.Info)
	return info, ok
}
