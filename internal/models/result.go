package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RoomResult 表示一位成員在一個房間內的演奏成績，
// 每個 (room_id, user_id) 至多一筆，重複提交時覆寫
type RoomResult struct {
	RoomID      uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"primaryKey"`
	JudgeCounts string `gorm:"not null"` // 由好到壞的各判定數，逗號分隔
	Score       int    `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// JoinJudgeCounts 把判定數列表編碼為逗號分隔字串以便存入資料庫
func JoinJudgeCounts(counts []int) string {
	parts := make([]string, len(counts))
	for i, n := range counts {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// SplitJudgeCounts 把資料庫中的逗號分隔字串還原為判定數列表
func SplitJudgeCounts(s string) ([]int, error) {
	if s == "" {
		return []int{}, nil
	}
	parts := strings.Split(s, ",")
	counts := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid judge counts %q: %w", s, err)
		}
		counts[i] = n
	}
	return counts, nil
}
