package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"securechat/internal/engine"
)

const (
	ContextUserIDKey   = "userID"
	ContextUsernameKey = "username"
)

// TokenIssuer mints and validates session tokens for authenticated clients.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Mint signs a session token bound to the given identity.
func (t *TokenIssuer) Mint(userID, username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"uid":   userID,
		"uname": username,
		"exp":   now.Add(t.ttl).Unix(),
		"iat":   now.Unix(),
		"iss":   "securechat",
		"sub":   "session",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Validate parses the token and returns its user id and username.
func (t *TokenIssuer) Validate(tokenStr string) (string, string, error) {
	if tokenStr == "" {
		return "", "", errors.New("token is empty")
	}

	token, err := jwt.Parse(tokenStr, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return "", "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("invalid claims")
	}

	uid, ok1 := claims["uid"].(string)
	uname, ok2 := claims["uname"].(string)
	if !ok1 || !ok2 {
		return "", "", errors.New("bad claims")
	}
	return uid, uname, nil
}

// SessionMiddleware validates the Authorization bearer token and checks that
// it still matches the live engine session. Tokens for users who logged out
// or were replaced stop working immediately.
func SessionMiddleware(issuer *TokenIssuer, eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		userID, username, err := issuer.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		sess, ok := eng.CurrentSession()
		if !ok || sess.Identity.ID != userID {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no active session for token"})
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextUsernameKey, username)
		c.Next()
	}
}
