package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Sweeper SweeperConfig
}

type ServerConfig struct {
	Address string
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     int
}

// SweeperConfig 控制廢棄房間的定期清掃
type SweeperConfig struct {
	Schedule   string        // cron 表達式
	StaleAfter time.Duration // 超過此時間未更新的房間視為被放棄
	PurgeAfter time.Duration // 解散後保留多久才實際刪除
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./pkg/config")

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("sweeper.schedule", "@every 10m")
	viper.SetDefault("sweeper.staleafter", "24h")
	viper.SetDefault("sweeper.purgeafter", "48h")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
