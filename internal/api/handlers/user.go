package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rhythm_room/internal/models"
	"rhythm_room/internal/service"
)

// UserHandler 處理與玩家帳號相關的請求
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler 創建一個新的 UserHandler 實例
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create 處理建立新玩家的請求，回傳發放的 token
func (h *UserHandler) Create(c *gin.Context) {
	var input struct {
		UserName     string `json:"user_name" binding:"required"`
		LeaderCardID int    `json:"leader_card_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.userService.CreateUser(input.UserName, input.LeaderCardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "創建使用者失敗"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_token": token})
}

// Me 回傳呼叫者自己的資訊（不含 token）
func (h *UserHandler) Me(c *gin.Context) {
	user := c.MustGet("user").(*models.User)
	c.JSON(http.StatusOK, gin.H{
		"id":             user.ID,
		"name":           user.Name,
		"leader_card_id": user.LeaderCardID,
	})
}

// Update 修改呼叫者的名稱與頭像
func (h *UserHandler) Update(c *gin.Context) {
	var input struct {
		UserName     string `json:"user_name" binding:"required"`
		LeaderCardID int    `json:"leader_card_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := c.MustGet("user").(*models.User)
	if err := h.userService.UpdateUser(user, input.UserName, input.LeaderCardID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "更新使用者失敗"})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}
