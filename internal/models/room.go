package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultMaxUserCount 房間的預設最大人數
const DefaultMaxUserCount = 4

// Room 表示一個合奏房間
type Room struct {
	gorm.Model
	LiveID       int            `gorm:"index;not null"` // 樂曲 ID
	MaxUserCount int            `gorm:"not null"`       // 建立時固定，之後不再變動
	Status       WaitRoomStatus `gorm:"not null"`
}

// RoomMember 表示房間內的一個座位，每位玩家同時只能佔一個座位
type RoomMember struct {
	RoomID           uint           `gorm:"primaryKey"`
	UserID           uint           `gorm:"primaryKey;uniqueIndex"` // 一位玩家同時只能在一個房間
	SelectDifficulty LiveDifficulty `gorm:"not null"`
	IsHost           bool           `gorm:"not null"` // 未解散的房間中恰好一位成員為 true
	CreatedAt        time.Time      // 入場順序依此排序
}

// WaitRoomStatus 定義房間狀態的類型（協定上以整數編碼）
type WaitRoomStatus int

const (
	StatusWaiting     WaitRoomStatus = 1 // 等待中
	StatusLiveStart   WaitRoomStatus = 2 // 演奏開始
	StatusDissolution WaitRoomStatus = 3 // 已解散
)

// LiveDifficulty 定義樂曲難易度的類型（協定上以整數編碼）
type LiveDifficulty int

const (
	DifficultyNormal LiveDifficulty = 1 // 普通
	DifficultyHard   LiveDifficulty = 2 // 困難
)

// Valid 檢查難易度是否為合法值
func (d LiveDifficulty) Valid() bool {
	return d == DifficultyNormal || d == DifficultyHard
}

// JoinRoomResult 定義入場結果的類型（協定上以整數編碼）
type JoinRoomResult int

const (
	JoinOk         JoinRoomResult = 1 // 入場成功
	JoinRoomFull   JoinRoomResult = 2 // 已滿員
	JoinDisbanded  JoinRoomResult = 3 // 房間已解散
	JoinOtherError JoinRoomResult = 4 // 其他錯誤
)
