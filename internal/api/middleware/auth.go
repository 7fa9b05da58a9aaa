package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/numberparty/numberparty/internal/api/apierr"
	"github.com/numberparty/numberparty/internal/model"
)

type contextKey string

const connContextKey contextKey = "conn"

// AdminKeyConfig holds the credential room creation is gated on. When Hash
// is set (bcrypt) it wins and the plaintext key is ignored.
type AdminKeyConfig struct {
	Key  string
	Hash string
}

// Verify checks a presented admin key against the configured credential
func (c AdminKeyConfig) Verify(presented string) bool {
	if c.Hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(c.Hash), []byte(presented)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(c.Key), []byte(presented)) == 1
}

// AdminKey creates middleware requiring a valid X-Admin-Key header
func AdminKey(cfg AdminKeyConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Verify(r.Header.Get("X-Admin-Key")) {
				apierr.WriteError(w, model.ErrInvalidAdminKey)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ConnToken creates middleware requiring a bearer token. The token is a
// connection ref minted by the server at create/join time; handlers pass it
// down and the engine checks it against the room's bindings.
func ConnToken() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			ctx := context.WithValue(r.Context(), connContextKey, model.ConnRef(token))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken pulls the bearer token from the Authorization header, with a
// query-parameter fallback for EventSource clients that cannot set headers
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// GetConn returns the connection ref from the request context
func GetConn(ctx context.Context) model.ConnRef {
	conn, _ := ctx.Value(connContextKey).(model.ConnRef)
	return conn
}

// MustGetConn returns the connection ref or panics
func MustGetConn(ctx context.Context) model.ConnRef {
	conn := GetConn(ctx)
	if conn == "" {
		panic("no connection ref in context - auth middleware not applied?")
	}
	return conn
}
