package service

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"rhythm_room/internal/models"
	"rhythm_room/internal/storage"
	"rhythm_room/pkg/config"
)

// Sweeper 定期清掃被放棄的房間。
// 核心協定沒有逾時概念，沒呼叫 leave 就斷線的客戶端會留下殭屍房間，
// 清掃以外部排程的身份補上這個缺口，不屬於房間狀態機本身。
type Sweeper struct {
	db   *storage.PostgresDB
	cfg  config.SweeperConfig
	cron *cron.Cron
}

func NewSweeper(db *storage.PostgresDB, cfg config.SweeperConfig) *Sweeper {
	return &Sweeper{
		db:   db,
		cfg:  cfg,
		cron: cron.New(),
	}
}

// Start 依設定的排程啟動清掃
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Schedule, s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	log.Info().Str("module", "service.sweeper").
		Str("schedule", s.cfg.Schedule).
		Msg("room sweeper started")
	return nil
}

// Stop 停止排程，已在執行中的清掃會跑完
func (s *Sweeper) Stop() {
	s.cron.Stop()
}

// Sweep 執行一輪清掃：
// 先把長時間未更新的房間解散並驅逐成員，再刪除超過保存期限的解散房間。
func (s *Sweeper) Sweep() {
	now := time.Now()

	// 第一階段：超過 StaleAfter 未更新的房間視為被放棄，直接解散
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var staleIDs []uint
		if err := tx.Model(&models.Room{}).
			Where("status <> ? AND updated_at <= ?", models.StatusDissolution, now.Add(-s.cfg.StaleAfter)).
			Pluck("id", &staleIDs).Error; err != nil {
			return err
		}
		if len(staleIDs) == 0 {
			return nil
		}

		if err := tx.Where("room_id IN ?", staleIDs).Delete(&models.RoomMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id IN ?", staleIDs).Delete(&models.RoomResult{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Room{}).Where("id IN ?", staleIDs).
			Update("status", models.StatusDissolution).Error; err != nil {
			return err
		}

		log.Info().Str("module", "service.sweeper").
			Int("rooms_dissolved", len(staleIDs)).
			Msg("stale rooms dissolved")
		return nil
	})
	if err != nil {
		log.Error().Str("module", "service.sweeper").Err(err).Msg("stale sweep failed")
	}

	// 第二階段：解散後超過 PurgeAfter 的房間列不再需要保留
	result := s.db.Where("status = ? AND updated_at <= ?", models.StatusDissolution, now.Add(-s.cfg.PurgeAfter)).
		Delete(&models.Room{})
	if result.Error != nil {
		log.Error().Str("module", "service.sweeper").Err(result.Error).Msg("purge sweep failed")
	} else if result.RowsAffected > 0 {
		log.Info().Str("module", "service.sweeper").
			Int64("rooms_purged", result.RowsAffected).
			Msg("dissolved rooms purged")
	}
}
