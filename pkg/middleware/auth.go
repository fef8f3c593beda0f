package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	WalletAddressKey = "wallet_address"
	IsAdminKey       = "is_admin"
)

type TokenParser interface {
	Parse(token string) (string, error)
}

type AdminChecker interface {
	IsAdmin(ctx context.Context, address string) (bool, error)
}

// AuthMiddleware accepts "Authorization: Bearer <jwt>" and stores the wallet
// address under WalletAddressKey. EventSource clients cannot set headers, so
// an access_token query parameter is accepted too.
func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString == "" {
			tokenString = c.Query("access_token")
		}
		if tokenString == "" {
			abort(c, http.StatusUnauthorized, "missing bearer token")
			return
		}

		address, err := tokens.Parse(tokenString)
		if err != nil {
			logrus.WithError(err).Info("rejected token")
			abort(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		c.Set(WalletAddressKey, address)
		c.Next()
	}
}

// AdminOnly must run after AuthMiddleware.
func AdminOnly(admins AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := admins.IsAdmin(c.Request.Context(), c.GetString(WalletAddressKey))
		if err != nil {
			logrus.WithError(err).Error("admin check failed")
			abort(c, http.StatusBadGateway, "cannot verify admin")
			return
		}
		if !ok {
			abort(c, http.StatusForbidden, "admin access required")
			return
		}
		c.Set(IsAdminKey, true)
		c.Next()
	}
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}
