package mw

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"consult-booking-backend/internal/apperr"
)

// ContextAdminKey holds the authenticated admin email in the gin context.
const ContextAdminKey = "admin_email"

const adminRole = "admin"

// AdminClaims are the claims of an admin session token.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueAdminToken signs a session token for email valid for ttl.
func IssueAdminToken(secret []byte, email string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	expires := now.Add(ttl)
	claims := AdminClaims{
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign admin token: %w", err)
	}
	return signed, expires, nil
}

// ParseAdminToken validates raw and returns its claims.
func ParseAdminToken(secret []byte, raw string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Role != adminRole {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// RequireAdmin rejects requests without a valid admin bearer token.
func RequireAdmin(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortWith(c, apperr.New(apperr.KindUnauthorized, "missing bearer token"))
			return
		}

		claims, err := ParseAdminToken(secret, raw)
		if err != nil {
			abortWith(c, apperr.New(apperr.KindUnauthorized, "invalid or expired token"))
			return
		}

		c.Set(ContextAdminKey, claims.Subject)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// abortWith writes err in the API's error shape and stops the chain.
func abortWith(c *gin.Context, err *apperr.Error) {
	c.AbortWithStatusJSON(err.HTTPStatus(), gin.H{
		"error": err.Message,
		"kind":  err.Kind.String(),
	})
}
