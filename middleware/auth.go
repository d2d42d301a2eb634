package middleware

import (
	"net/http"
	"strings"

	"trimly/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware validates the bearer token and requires its hash to
// still be present in the auth cache, so a logout revokes the token
// immediately even though the JWT itself has not expired. On success the
// user and device IDs are placed in the request context.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		userID, deviceID, err := utils.ExtractIDsFromToken(tokenString)
		if err != nil || userID == "" || deviceID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		cacheKey := utils.AuthCachePrefix + userID + ":" + deviceID
		cachedHash, err := utils.GetAuthCacheClient().Get(ctx, cacheKey).Result()
		if err != nil || cachedHash != utils.HashToken(tokenString) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired or revoked"})
			return
		}

		c.Set("userID", userID)
		c.Set("deviceID", deviceID)
		c.Next()
	}
}
