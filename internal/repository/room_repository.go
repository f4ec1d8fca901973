package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rhythm_room/internal/models"
	"rhythm_room/internal/storage"
	"rhythm_room/pkg/apperrors"
)

// RoomSummary 是房間列表查詢的一列結果
type RoomSummary struct {
	RoomID          uint
	LiveID          int
	JoinedUserCount int
	MaxUserCount    int
}

// MemberEntry 是座位與玩家資訊 join 之後的一列結果
type MemberEntry struct {
	UserID           uint
	Name             string
	LeaderCardID     int
	SelectDifficulty models.LiveDifficulty
	IsHost           bool
}

// RoomRepository 負責房間的所有狀態變更。
// 每個會改變狀態的方法都是單一交易，交易內先以 FOR UPDATE 鎖住房間列，
// 同一房間的並發操作因此被序列化，容量檢查與入座不會交錯。
type RoomRepository interface {
	CreateWithHost(liveID int, host *models.User, difficulty models.LiveDifficulty) (uint, error)
	ListWaiting(liveID int) ([]RoomSummary, error)
	Join(roomID uint, user *models.User, difficulty models.LiveDifficulty) (models.JoinRoomResult, error)
	WaitStatus(roomID uint) (models.WaitRoomStatus, []MemberEntry, error)
	StartLive(roomID, userID uint) error
	SubmitResult(roomID, userID uint, judgeCounts string, score int) error
	Results(roomID uint) ([]models.RoomResult, bool, error)
	Leave(roomID, userID uint) error
}

type roomRepository struct {
	db *storage.PostgresDB
}

func NewRoomRepository(db *storage.PostgresDB) RoomRepository {
	return &roomRepository{db: db}
}

// CreateWithHost 建立一個 Waiting 狀態的房間，並讓建立者以房主身份入座
func (r *roomRepository) CreateWithHost(liveID int, host *models.User, difficulty models.LiveDifficulty) (uint, error) {
	var roomID uint
	err := r.db.Transaction(func(tx *gorm.DB) error {
		seated, err := countSeats(tx, host.ID)
		if err != nil {
			return err
		}
		if seated > 0 {
			return apperrors.ErrAlreadySeated
		}

		room := models.Room{
			LiveID:       liveID,
			MaxUserCount: models.DefaultMaxUserCount,
			Status:       models.StatusWaiting,
		}
		if err := tx.Create(&room).Error; err != nil {
			return err
		}

		member := models.RoomMember{
			RoomID:           room.ID,
			UserID:           host.ID,
			SelectDifficulty: difficulty,
			IsHost:           true,
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		roomID = room.ID
		return nil
	})
	return roomID, err
}

// ListWaiting 回傳等待中且尚有空位的房間。
// live_id 為 0 時視為萬用字元，不過濾樂曲。
// 以 room_id 排序，確保同一次呼叫內順序穩定。
func (r *roomRepository) ListWaiting(liveID int) ([]RoomSummary, error) {
	q := r.db.Table("rooms").
		Select("rooms.id AS room_id, rooms.live_id, rooms.max_user_count, COUNT(room_members.user_id) AS joined_user_count").
		Joins("JOIN room_members ON room_members.room_id = rooms.id").
		Where("rooms.status = ?", models.StatusWaiting).
		Where("rooms.deleted_at IS NULL").
		Group("rooms.id").
		Having("COUNT(room_members.user_id) < rooms.max_user_count").
		Order("rooms.id")
	if liveID != 0 {
		q = q.Where("rooms.live_id = ?", liveID)
	}

	var rows []RoomSummary
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Join 嘗試讓使用者入座。容量檢查與入座在同一交易內完成，
// 只剩一個座位時的並發入場恰好一人成功，其餘得到 RoomFull。
// 結果以 JoinRoomResult 回傳，error 僅代表資料庫層面的失敗。
func (r *roomRepository) Join(roomID uint, user *models.User, difficulty models.LiveDifficulty) (models.JoinRoomResult, error) {
	result := models.JoinOtherError
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// 被清除的房間與解散的房間對客戶端而言沒有差別
				result = models.JoinDisbanded
				return nil
			}
			return err
		}
		if room.Status == models.StatusDissolution {
			result = models.JoinDisbanded
			return nil
		}

		seated, err := countSeats(tx, user.ID)
		if err != nil {
			return err
		}
		if seated > 0 {
			result = models.JoinOtherError
			return nil
		}

		var occupancy int64
		if err := tx.Model(&models.RoomMember{}).Where("room_id = ?", room.ID).Count(&occupancy).Error; err != nil {
			return err
		}
		if int(occupancy) >= room.MaxUserCount {
			result = models.JoinRoomFull
			return nil
		}

		member := models.RoomMember{
			RoomID:           room.ID,
			UserID:           user.ID,
			SelectDifficulty: difficulty,
			IsHost:           false,
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		result = models.JoinOk
		return nil
	})
	return result, err
}

// WaitStatus 回傳房間目前的狀態與依入場順序排列的成員列表。
// 房間不存在時視為已解散，被驅逐的成員輪詢時因此看到 Dissolution。
func (r *roomRepository) WaitStatus(roomID uint) (models.WaitRoomStatus, []MemberEntry, error) {
	status := models.StatusDissolution
	var entries []MemberEntry
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.First(&room, roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		status = room.Status

		return tx.Table("room_members").
			Select("room_members.user_id, users.name, users.leader_card_id, room_members.select_difficulty, room_members.is_host").
			Joins("JOIN users ON users.id = room_members.user_id").
			Where("room_members.room_id = ?", roomID).
			Order("room_members.created_at, room_members.user_id").
			Scan(&entries).Error
	})
	if err != nil {
		return models.StatusDissolution, nil, err
	}
	return status, entries, nil
}

// StartLive 把房間從 Waiting 轉為 LiveStart，只有房主可以觸發。
// 已經是 LiveStart 時不報錯也不改變任何狀態（冪等）。
func (r *roomRepository) StartLive(roomID, userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrRoomNotFound
			}
			return err
		}
		if room.Status == models.StatusDissolution {
			return apperrors.ErrRoomDisbanded
		}

		var member models.RoomMember
		if err := tx.Where("room_id = ? AND user_id = ?", roomID, userID).First(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrMemberNotFound
			}
			return err
		}
		if !member.IsHost {
			return apperrors.ErrNotHost
		}

		if room.Status == models.StatusLiveStart {
			return nil
		}
		return tx.Model(&models.Room{}).Where("id = ?", roomID).
			Update("status", models.StatusLiveStart).Error
	})
}

// SubmitResult 寫入一位成員的成績，同一成員重複提交時覆寫
func (r *roomRepository) SubmitResult(roomID, userID uint, judgeCounts string, score int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrRoomNotFound
			}
			return err
		}
		if room.Status == models.StatusDissolution {
			return apperrors.ErrRoomDisbanded
		}

		var seated int64
		if err := tx.Model(&models.RoomMember{}).
			Where("room_id = ? AND user_id = ?", roomID, userID).
			Count(&seated).Error; err != nil {
			return err
		}
		if seated == 0 {
			return apperrors.ErrMemberNotFound
		}

		res := models.RoomResult{
			RoomID:      roomID,
			UserID:      userID,
			JudgeCounts: judgeCounts,
			Score:       score,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "room_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"judge_counts", "score", "updated_at"}),
		}).Create(&res).Error
	})
}

// Results 評估成績法定人數：只有目前在座的每位成員都已提交時才回傳成績，
// 否則回傳未達成（絕不回傳部分列表）。分母是呼叫當下的成員集合，
// 未提交就離場的成員不再被等待。
func (r *roomRepository) Results(roomID uint) ([]models.RoomResult, bool, error) {
	var results []models.RoomResult
	complete := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var memberIDs []uint
		if err := tx.Model(&models.RoomMember{}).
			Where("room_id = ?", roomID).
			Pluck("user_id", &memberIDs).Error; err != nil {
			return err
		}
		if len(memberIDs) == 0 {
			return nil
		}

		var rows []models.RoomResult
		if err := tx.Where("room_id = ?", roomID).
			Order("user_id").
			Find(&rows).Error; err != nil {
			return err
		}

		submitted := make(map[uint]bool, len(rows))
		for _, row := range rows {
			submitted[row.UserID] = true
		}
		for _, id := range memberIDs {
			if !submitted[id] {
				return nil
			}
		}

		results = rows
		complete = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return results, complete, nil
}

// Leave 讓使用者離開房間。房主離開時房間立即解散（不轉讓房主），
// 剩餘成員被驅逐、成績一併刪除；一般成員離開後若無人留下也解散。
func (r *roomRepository) Leave(roomID, userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrRoomNotFound
			}
			return err
		}

		var member models.RoomMember
		if err := tx.Where("room_id = ? AND user_id = ?", roomID, userID).First(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrMemberNotFound
			}
			return err
		}

		if err := tx.Where("room_id = ? AND user_id = ?", roomID, userID).
			Delete(&models.RoomMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ? AND user_id = ?", roomID, userID).
			Delete(&models.RoomResult{}).Error; err != nil {
			return err
		}

		dissolve := member.IsHost
		if !dissolve {
			var remaining int64
			if err := tx.Model(&models.RoomMember{}).Where("room_id = ?", roomID).Count(&remaining).Error; err != nil {
				return err
			}
			dissolve = remaining == 0
		}
		if !dissolve {
			return nil
		}

		if err := tx.Where("room_id = ?", roomID).Delete(&models.RoomMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&models.RoomResult{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Room{}).Where("id = ?", roomID).
			Update("status", models.StatusDissolution).Error
	})
}

// countSeats 計算使用者目前佔用的座位數，入座約束為同時至多一個
func countSeats(tx *gorm.DB, userID uint) (int64, error) {
	var n int64
	err := tx.Model(&models.RoomMember{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}
