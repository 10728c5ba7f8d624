package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles in ascending privilege order.
const (
	RoleViewer   = "viewer"
	RoleOperator = "operator"
	RoleAdmin    = "admin"
)

var roleRank = map[string]int{
	RoleViewer:   0,
	RoleOperator: 1,
	RoleAdmin:    2,
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	_, ok := roleRank[role]
	return ok
}

// Claims holds JWT claims including role.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT.
func GenerateToken(secret, issuer, subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseToken validates a JWT and returns Claims. An empty issuer skips the
// issuer check.
func ParseToken(secret, issuer, tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	claims := &Claims{}
	_, err := jwt.NewParser(opts...).ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

type ctxKey string

const ctxClaims ctxKey = "claims"

// AuthMiddleware authenticates JWT tokens in the Authorization: Bearer
// header. With an empty secret every request passes unauthenticated.
func AuthMiddleware(secret, issuer string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				errorJSON(w, http.StatusUnauthorized, "missing Authorization header")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				errorJSON(w, http.StatusUnauthorized, "invalid Authorization header format")
				return
			}
			claims, err := ParseToken(secret, issuer, parts[1])
			if err != nil {
				errorJSON(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), ctxClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func getClaims(r *http.Request) (*Claims, error) {
	v := r.Context().Value(ctxClaims)
	if v == nil {
		return nil, errors.New("no claims in context")
	}
	c, ok := v.(*Claims)
	if !ok {
		return nil, errors.New("bad claims type")
	}
	return c, nil
}

// RequireRole ensures the caller has at least minRole. It is a no-op when
// auth is disabled.
func RequireRole(secret, minRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := getClaims(r)
			if err != nil {
				errorJSON(w, http.StatusUnauthorized, "unauthenticated")
				return
			}
			if roleRank[claims.Role] < roleRank[minRole] {
				errorJSON(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
