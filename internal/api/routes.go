package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rhythm_room/internal/api/handlers"
	"rhythm_room/internal/middleware"
	"rhythm_room/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services) {
	// 初始化 handlers
	userHandler := handlers.NewUserHandler(services.User)
	roomHandler := handlers.NewRoomHandler(services.Room)

	// API 路由群組
	api := r.Group("/api")

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "找不到該路徑",
		})
	})

	// 公開路由
	{
		// 建號時發放 token，不需要認證
		api.POST("/user/create", userHandler.Create)

		// 列表與結果輪詢只讀，原始協定不帶認證
		api.POST("/room/list", roomHandler.ListRooms)
		api.POST("/room/result", roomHandler.RoomResult)

		// 基本的健康檢查
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})
	}

	// 需要驗證的路由
	authorized := api.Group("/")
	authorized.Use(middleware.AuthMiddleware(services.User))
	{
		// 玩家相關
		authorized.GET("/user/me", userHandler.Me)
		authorized.POST("/user/update", userHandler.Update)

		// 房間相關
		authorized.POST("/room/create", roomHandler.CreateRoom) // 創建房間
		authorized.POST("/room/join", roomHandler.JoinRoom)     // 加入房間
		authorized.POST("/room/wait", roomHandler.WaitRoom)     // 輪詢房間狀態
		authorized.POST("/room/start", roomHandler.StartLive)   // 房主開始演奏
		authorized.POST("/room/end", roomHandler.EndLive)       // 提交成績
		authorized.POST("/room/leave", roomHandler.LeaveRoom)   // 離開房間
	}
}
