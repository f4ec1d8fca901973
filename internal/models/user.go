package models

import (
	"gorm.io/gorm"
)

// User 表示遊戲中的玩家帳號
type User struct {
	gorm.Model         // 內嵌 gorm.Model，提供 ID、CreatedAt、UpdatedAt 和 DeletedAt 字段
	Name         string `gorm:"not null" json:"name"`              // 玩家名稱
	Token        string `gorm:"uniqueIndex;not null" json:"-"`     // 不透明的認證 token，建號時發放，json 序列化時會被忽略
	LeaderCardID int    `gorm:"not null" json:"leader_card_id"`    // 頭像卡片 ID
}
