package service

import (
	"github.com/rs/zerolog/log"

	"rhythm_room/internal/models"
	"rhythm_room/internal/repository"
)

// RoomInfo 是房間列表中的一個可入場房間
type RoomInfo struct {
	RoomID          uint `json:"room_id"`
	LiveID          int  `json:"live_id"`
	JoinedUserCount int  `json:"joined_user_count"`
	MaxUserCount    int  `json:"max_user_count"`
}

// RoomUser 是等待畫面上的一位成員
type RoomUser struct {
	UserID           uint                  `json:"user_id"`
	Name             string                `json:"name"`
	LeaderCardID     int                   `json:"leader_card_id"`
	SelectDifficulty models.LiveDifficulty `json:"select_difficulty"`
	IsMe             bool                  `json:"is_me"`
	IsHost           bool                  `json:"is_host"`
}

// ResultUser 是一位成員的演奏成績
type ResultUser struct {
	UserID         uint  `json:"user_id"`
	JudgeCountList []int `json:"judge_count_list"`
	Score          int   `json:"score"`
}

type RoomService struct {
	roomRepo repository.RoomRepository
}

func NewRoomService(roomRepo repository.RoomRepository) *RoomService {
	return &RoomService{roomRepo: roomRepo}
}

// CreateRoom 建立新房間，建立者即為房主
func (s *RoomService) CreateRoom(user *models.User, liveID int, difficulty models.LiveDifficulty) (uint, error) {
	roomID, err := s.roomRepo.CreateWithHost(liveID, user, difficulty)
	if err != nil {
		return 0, err
	}
	log.Info().Str("module", "service.room").
		Uint("room_id", roomID).Uint("host_id", user.ID).Int("live_id", liveID).
		Msg("room created")
	return roomID, nil
}

// ListRooms 回傳可入場的房間列表，liveID 為 0 時不過濾樂曲
func (s *RoomService) ListRooms(liveID int) ([]RoomInfo, error) {
	rows, err := s.roomRepo.ListWaiting(liveID)
	if err != nil {
		return nil, err
	}
	infos := make([]RoomInfo, 0, len(rows))
	for _, row := range rows {
		infos = append(infos, RoomInfo{
			RoomID:          row.RoomID,
			LiveID:          row.LiveID,
			JoinedUserCount: row.JoinedUserCount,
			MaxUserCount:    row.MaxUserCount,
		})
	}
	return infos, nil
}

// JoinRoom 嘗試入場。結果一律以 JoinRoomResult 回傳，
// 資料庫層面的失敗折算成 OtherError，呼叫端依值分支而非攔截錯誤。
func (s *RoomService) JoinRoom(user *models.User, roomID uint, difficulty models.LiveDifficulty) models.JoinRoomResult {
	result, err := s.roomRepo.Join(roomID, user, difficulty)
	if err != nil {
		log.Error().Str("module", "service.room").Err(err).
			Uint("room_id", roomID).Uint("user_id", user.ID).
			Msg("join failed")
		return models.JoinOtherError
	}
	return result
}

// WaitRoom 回傳房間狀態與成員列表，供客戶端輪詢
func (s *RoomService) WaitRoom(user *models.User, roomID uint) (models.WaitRoomStatus, []RoomUser, error) {
	status, entries, err := s.roomRepo.WaitStatus(roomID)
	if err != nil {
		return models.StatusDissolution, nil, err
	}
	users := make([]RoomUser, 0, len(entries))
	for _, e := range entries {
		users = append(users, RoomUser{
			UserID:           e.UserID,
			Name:             e.Name,
			LeaderCardID:     e.LeaderCardID,
			SelectDifficulty: e.SelectDifficulty,
			IsMe:             e.UserID == user.ID,
			IsHost:           e.IsHost,
		})
	}
	return status, users, nil
}

// StartLive 由房主把房間轉為演奏中
func (s *RoomService) StartLive(user *models.User, roomID uint) error {
	if err := s.roomRepo.StartLive(roomID, user.ID); err != nil {
		return err
	}
	log.Info().Str("module", "service.room").Uint("room_id", roomID).Msg("live started")
	return nil
}

// EndLive 提交呼叫者在該房間的成績，重複提交時覆寫
func (s *RoomService) EndLive(user *models.User, roomID uint, judgeCountList []int, score int) error {
	return s.roomRepo.SubmitResult(roomID, user.ID, models.JoinJudgeCounts(judgeCountList), score)
}

// RoomResult 回傳全員的成績。在座成員尚未全部提交時回傳空列表，
// 絕不回傳部分結果。
func (s *RoomService) RoomResult(roomID uint) ([]ResultUser, error) {
	rows, complete, err := s.roomRepo.Results(roomID)
	if err != nil {
		return nil, err
	}
	if !complete {
		return []ResultUser{}, nil
	}
	users := make([]ResultUser, 0, len(rows))
	for _, row := range rows {
		counts, err := models.SplitJudgeCounts(row.JudgeCounts)
		if err != nil {
			return nil, err
		}
		users = append(users, ResultUser{
			UserID:         row.UserID,
			JudgeCountList: counts,
			Score:          row.Score,
		})
	}
	return users, nil
}

// LeaveRoom 離開房間，必要時觸發解散
func (s *RoomService) LeaveRoom(user *models.User, roomID uint) error {
	if err := s.roomRepo.Leave(roomID, user.ID); err != nil {
		return err
	}
	log.Info().Str("module", "service.room").
		Uint("room_id", roomID).Uint("user_id", user.ID).
		Msg("user left room")
	return nil
}
