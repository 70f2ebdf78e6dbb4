// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves the caller's identity. When a JWT secret is configured,
// identity comes only from a signed "Authorization: Bearer" token (HS256,
// claims uid and role). Without a secret, the X-User-ID and X-User-Role
// headers are trusted only when TrustHeaders is set (development mode);
// otherwise every request is anonymous.
//
// Identity is stored in the Gin context under "userID" and "role". There is
// no anonymous fallback user: routes that need a user sit behind
// RequireUser, which answers 401 when no identity was resolved.
package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
)

const (
	ctxKeyUserID = "userID"
	ctxKeyRole   = "role"

	// HeaderUserID and HeaderUserRole carry identity in development mode.
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	// RoleAdmin may manage the blacklist and review applications.
	RoleAdmin = "admin"
	// RoleUser is assigned when a token or header carries no role.
	RoleUser = "user"
)

// Claims is the JWT payload accepted by Identity.
type Claims struct {
	UID  string `json:"uid"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// IdentityOptions configures Identity.
type IdentityOptions struct {
	// Secret enables bearer-token mode when non-empty.
	Secret []byte
	// TrustHeaders accepts X-User-ID / X-User-Role when Secret is empty.
	TrustHeaders bool
}

// SignToken issues an HS256 token for uid and role valid for ttl.
func SignToken(secret []byte, uid, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UID:  uid,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken validates tok against secret and returns its claims.
func ParseToken(secret []byte, tok string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tok, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, errors.New("invalid token")
	}
	if strings.TrimSpace(c.UID) == "" {
		return nil, errors.New("token has no uid")
	}
	return c, nil
}

// Identity resolves the caller and stores userID/role in the context. A
// present but invalid bearer token is rejected with 401; a missing one just
// leaves the request anonymous.
func Identity(opts IdentityOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(opts.Secret) > 0 {
			h := c.GetHeader("Authorization")
			if h == "" {
				c.Next()
				return
			}
			tok, found := strings.CutPrefix(h, "Bearer ")
			if !found {
				abortAuth(c, http.StatusUnauthorized, "unauthorized", "malformed Authorization header")
				return
			}
			claims, err := ParseToken(opts.Secret, strings.TrimSpace(tok))
			if err != nil {
				abortAuth(c, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
				return
			}
			setIdentity(c, claims.UID, claims.Role)
			c.Next()
			return
		}

		if !opts.TrustHeaders {
			c.Next()
			return
		}
		if uid := strings.TrimSpace(c.GetHeader(HeaderUserID)); uid != "" {
			setIdentity(c, uid, strings.TrimSpace(c.GetHeader(HeaderUserRole)))
		}
		c.Next()
	}
}

// RequireUser aborts with 401 unless Identity resolved a user.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == "" {
			abortAuth(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		c.Next()
	}
}

// RequireRole aborts with 401 for anonymous callers and 403 for callers
// whose role differs from role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == "" {
			abortAuth(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		if Role(c) != role {
			abortAuth(c, http.StatusForbidden, "forbidden", "insufficient role")
			return
		}
		c.Next()
	}
}

// UserID returns the resolved user ID, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	v, _ := c.Get(ctxKeyUserID)
	return asString(v)
}

// Role returns the resolved role, or "" for anonymous requests.
func Role(c *gin.Context) string {
	v, _ := c.Get(ctxKeyRole)
	return asString(v)
}

func setIdentity(c *gin.Context, uid, role string) {
	if role == "" {
		role = RoleUser
	}
	c.Set(ctxKeyUserID, uid)
	c.Set(ctxKeyRole, strings.ToLower(role))
}

// abortAuth writes the standard error envelope.
func abortAuth(c *gin.Context, status int, code, msg string) {
	rid, _ := c.Get(requestIDKey)
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": asString(rid),
		"code":       code,
		"message":    msg,
	})
}
