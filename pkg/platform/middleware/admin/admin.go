package admin

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	request "vigil/pkg/platform/middleware/request"
)

// Context key for storing the viewing operator identifier.
type contextKeyOperatorID struct{}

// ContextKeyOperatorID is exported for use in handlers and tests.
var ContextKeyOperatorID = contextKeyOperatorID{}

// GetOperatorID retrieves the viewing operator identifier from the context.
// Returns empty string if not set or if this is not an authenticated request.
func GetOperatorID(ctx context.Context) string {
	if operatorID, ok := ctx.Value(ContextKeyOperatorID).(string); ok {
		return operatorID
	}
	return ""
}

// WithOperatorID stores an operator identifier in the context. Exported for tests.
func WithOperatorID(ctx context.Context, operatorID string) context.Context {
	return context.WithValue(ctx, ContextKeyOperatorID, operatorID)
}

// Config holds the two accepted credential forms.
type Config struct {
	// SharedToken is compared against the X-Admin-Token header.
	// Operator identity then comes from X-Admin-Actor-ID.
	SharedToken string
	// JWTSigningKey verifies Authorization: Bearer tokens. The "sub"
	// claim becomes the operator identity.
	JWTSigningKey string
}

// RequireOperator authenticates the viewing operator. Either credential form
// is accepted; requests with neither are rejected with 401.
func RequireOperator(cfg Config, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if operatorID, ok := operatorFromBearer(r, cfg.JWTSigningKey); ok {
				next.ServeHTTP(w, r.WithContext(WithOperatorID(ctx, operatorID)))
				return
			}

			token := r.Header.Get("X-Admin-Token")
			// Use constant-time comparison to prevent timing attacks
			if cfg.SharedToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(cfg.SharedToken)) == 1 {
				if actorID := r.Header.Get("X-Admin-Actor-ID"); actorID != "" {
					ctx = WithOperatorID(ctx, actorID)
				}
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			logger.WarnContext(ctx, "operator authentication failed",
				"request_id", request.GetRequestID(ctx),
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"operator credentials required"}`))
		})
	}
}

// operatorFromBearer parses the Authorization header as an HMAC-signed JWT
// and returns the subject claim.
func operatorFromBearer(r *http.Request, signingKey string) (string, bool) {
	if signingKey == "" {
		return "", false
	}
	header := r.Header.Get("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return "", false
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(signingKey), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return "", false
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}
