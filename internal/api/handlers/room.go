package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rhythm_room/internal/models"
	"rhythm_room/internal/service"
	"rhythm_room/pkg/apperrors"
)

// RoomHandler 處理與合奏房間相關的請求
type RoomHandler struct {
	roomService *service.RoomService
}

// NewRoomHandler 創建一個新的 RoomHandler 實例
func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// CreateRoom 處理創建新房間的請求，創建者以房主身份入座
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var input struct {
		LiveID           int                   `json:"live_id" binding:"required"`
		SelectDifficulty models.LiveDifficulty `json:"select_difficulty" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !input.SelectDifficulty.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的難易度"})
		return
	}

	user := c.MustGet("user").(*models.User)
	roomID, err := h.roomService.CreateRoom(user, input.LiveID, input.SelectDifficulty)
	if err != nil {
		respondError(c, err, "創建房間失敗")
		return
	}

	c.JSON(http.StatusOK, gin.H{"room_id": roomID})
}

// ListRooms 處理房間列表請求，live_id 為 0 時回傳所有樂曲的房間
func (h *RoomHandler) ListRooms(c *gin.Context) {
	var input struct {
		LiveID int `json:"live_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rooms, err := h.roomService.ListRooms(input.LiveID)
	if err != nil {
		respondError(c, err, "取得房間列表失敗")
		return
	}

	c.JSON(http.StatusOK, gin.H{"room_info_list": rooms})
}

// JoinRoom 處理加入房間的請求。
// 入場結果以 join_room_result 的值表達，HTTP 層面一律 200。
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	var input struct {
		RoomID           uint                  `json:"room_id" binding:"required"`
		SelectDifficulty models.LiveDifficulty `json:"select_difficulty" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !input.SelectDifficulty.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的難易度"})
		return
	}

	user := c.MustGet("user").(*models.User)
	result := h.roomService.JoinRoom(user, input.RoomID, input.SelectDifficulty)

	c.JSON(http.StatusOK, gin.H{"join_room_result": result})
}

// WaitRoom 處理房間狀態輪詢，回傳狀態與成員列表
func (h *RoomHandler) WaitRoom(c *gin.Context) {
	var input struct {
		RoomID uint `json:"room_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := c.MustGet("user").(*models.User)
	status, users, err := h.roomService.WaitRoom(user, input.RoomID)
	if err != nil {
		respondError(c, err, "取得房間狀態失敗")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         status,
		"room_user_list": users,
	})
}

// StartLive 處理房主開始演奏的請求
func (h *RoomHandler) StartLive(c *gin.Context) {
	var input struct {
		RoomID uint `json:"room_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := c.MustGet("user").(*models.User)
	if err := h.roomService.StartLive(user, input.RoomID); err != nil {
		respondError(c, err, "開始演奏失敗")
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

// EndLive 處理演奏結束後的成績提交，重複提交時覆寫
func (h *RoomHandler) EndLive(c *gin.Context) {
	var input struct {
		RoomID         uint  `json:"room_id" binding:"required"`
		JudgeCountList []int `json:"judge_count_list" binding:"required"`
		Score          int   `json:"score"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := c.MustGet("user").(*models.User)
	if err := h.roomService.EndLive(user, input.RoomID, input.JudgeCountList, input.Score); err != nil {
		respondError(c, err, "提交成績失敗")
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

// RoomResult 處理成績輪詢。全員提交前回傳空列表，客戶端持續輪詢。
func (h *RoomHandler) RoomResult(c *gin.Context) {
	var input struct {
		RoomID uint `json:"room_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	users, err := h.roomService.RoomResult(input.RoomID)
	if err != nil {
		respondError(c, err, "取得成績失敗")
		return
	}

	c.JSON(http.StatusOK, gin.H{"result_user_list": users})
}

// LeaveRoom 處理離開房間的請求
func (h *RoomHandler) LeaveRoom(c *gin.Context) {
	var input struct {
		RoomID uint `json:"room_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := c.MustGet("user").(*models.User)
	if err := h.roomService.LeaveRoom(user, input.RoomID); err != nil {
		respondError(c, err, "離開房間失敗")
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

// respondError 把服務層的錯誤分類對應到 HTTP 狀態碼
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperrors.IsForbidden(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case apperrors.IsDisbanded(err), apperrors.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
