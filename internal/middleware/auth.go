package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// LedgerClaims are the verified claims the core trusts from the external
// identity provider: the acting user (subject) and the koperasi tenant.
type LedgerClaims struct {
	KoperasiID string `json:"koperasi_id"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the bearer token and places the actor id and
// koperasi id into the request context. Identity itself is established
// elsewhere; this layer only consumes it.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			logger.Warn("Authorization header missing or malformed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims := &LedgerClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			}
			logger.Warn("Token validation failed", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		if claims.Subject == "" || claims.KoperasiID == "" {
			logger.Error("Token missing subject or koperasi_id claim")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), actorKey, claims.Subject)
		ctx = context.WithValue(ctx, koperasiIDKey, claims.KoperasiID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):], true
	}
	return "", false
}

// GetActorFromContext retrieves the authenticated actor id.
func GetActorFromContext(c *gin.Context) (string, bool) {
	actor, ok := c.Request.Context().Value(actorKey).(string)
	return actor, ok && actor != ""
}

// GetKoperasiIDFromContext retrieves the tenant id supplied by the auth layer.
func GetKoperasiIDFromContext(c *gin.Context) (string, bool) {
	koperasiID, ok := c.Request.Context().Value(koperasiIDKey).(string)
	return koperasiID, ok && koperasiID != ""
}
