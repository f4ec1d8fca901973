package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rhythm_room/internal/service"
)

// AuthMiddleware 是一個 Gin 中間件，驗證請求的 Bearer token。
// token 是建號時發放的不透明字串，直接對使用者表查詢，不做任何解析。
func AuthMiddleware(userService *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 從請求頭中獲取 Authorization 字段
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		// 檢查 Authorization 頭的格式
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && strings.EqualFold(parts[0], "Bearer")) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			c.Abort()
			return
		}

		// 以 token 解析玩家身份
		user, err := userService.GetUserByToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		// 將玩家資訊設置到上下文中
		c.Set("user", user)
		c.Next()
	}
}
