package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/wrio-webgold/webgold/internal/config"
)

const identityKey = "identity"

var (
	ErrMissingToken = errors.New("session token is missing")
	ErrInvalidToken = errors.New("session token is invalid")
)

// Identity is the authenticated WRIO user of a request
type Identity struct {
	WrioID string `json:"wrioID"`
	Name   string `json:"name"`
	Admin  bool   `json:"admin"`
}

// SessionClaims is the payload of the login service session token
type SessionClaims struct {
	WrioID string `json:"wrioID"`
	Name   string `json:"name"`
	Admin  bool   `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// IssueSessionToken signs a session token. The login service owns issuance in
// production; this is used by tooling and tests.
func IssueSessionToken(secret string, identity Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		WrioID: identity.WrioID,
		Name:   identity.Name,
		Admin:  identity.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.WrioID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseSessionToken validates the token signature and expiry and returns its identity
func ParseSessionToken(tokenString, secret string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		},
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Identity{}, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.WrioID == "" {
		return Identity{}, ErrInvalidToken
	}

	return Identity{WrioID: claims.WrioID, Name: claims.Name, Admin: claims.Admin}, nil
}

func sessionToken(c *gin.Context, cookieName string) (string, error) {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie, nil
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", ErrMissingToken
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(strings.TrimSpace(parts[0]), "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrInvalidToken
	}
	return strings.TrimSpace(parts[1]), nil
}

// Auth resolves the request identity from the session cookie or a bearer token.
// Listed admin WRIO IDs are granted the admin flag.
func Auth(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := sessionToken(c, cfg.CookieName)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		identity, err := ParseSessionToken(tokenString, cfg.JWTSecret)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired session")
			return
		}
		if cfg.IsAdmin(identity.WrioID) {
			identity.Admin = true
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireAdmin rejects identities without the admin flag
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}
		if !identity.Admin {
			abortWithError(c, http.StatusForbidden, "FORBIDDEN", "Admin access required")
			return
		}
		c.Next()
	}
}

// GetIdentity returns the identity set by Auth
func GetIdentity(c *gin.Context) (Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return Identity{}, false
	}
	identity, ok := v.(Identity)
	return identity, ok
}
