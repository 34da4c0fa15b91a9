package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextKeySubject is the gin context key holding the token subject.
const ContextKeySubject = "subject"

// BearerAuth validates HS256 bearer tokens signed with secret. When issuer is
// non-empty the token's iss claim must match it.
func BearerAuth(secret, issuer string) gin.HandlerFunc {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status": "fail",
				"reason": "missing or invalid authorization header",
			})
			return
		}

		claims := &jwt.RegisteredClaims{}
		_, err := parser.ParseWithClaims(strings.TrimPrefix(authHeader, "Bearer "), claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status": "fail",
				"reason": "invalid or expired token",
			})
			return
		}

		c.Set(ContextKeySubject, claims.Subject)
		c.Next()
	}
}
