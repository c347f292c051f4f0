package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	ServerPort string

	// Game parameters. Business defaults, overridable per deployment.
	RoomIdleTimeout  time.Duration
	AutoAdvanceDelay time.Duration
	BasePoints       int
	BuzzBonus        int
	MinCapacity      int
	MaxCapacity      int
	MinPlayers       int

	// Inbound websocket command rate per connection.
	WSMessageRate  float64
	WSMessageBurst int
}

func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "gameroom")
	v.SetDefault("JWT_SECRET", "super-secret-key-change-me")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("ROOM_IDLE_TIMEOUT", "60s")
	v.SetDefault("AUTO_ADVANCE_DELAY", "3s")
	v.SetDefault("BASE_POINTS", 100)
	v.SetDefault("BUZZ_BONUS", 50)
	v.SetDefault("MIN_CAPACITY", 2)
	v.SetDefault("MAX_CAPACITY", 8)
	v.SetDefault("MIN_PLAYERS", 2)
	v.SetDefault("WS_MESSAGE_RATE", 10.0)
	v.SetDefault("WS_MESSAGE_BURST", 20)

	return &Config{
		DBHost:           v.GetString("DB_HOST"),
		DBPort:           v.GetString("DB_PORT"),
		DBUser:           v.GetString("DB_USER"),
		DBPassword:       v.GetString("DB_PASSWORD"),
		DBName:           v.GetString("DB_NAME"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		ServerPort:       v.GetString("SERVER_PORT"),
		RoomIdleTimeout:  v.GetDuration("ROOM_IDLE_TIMEOUT"),
		AutoAdvanceDelay: v.GetDuration("AUTO_ADVANCE_DELAY"),
		BasePoints:       v.GetInt("BASE_POINTS"),
		BuzzBonus:        v.GetInt("BUZZ_BONUS"),
		MinCapacity:      v.GetInt("MIN_CAPACITY"),
		MaxCapacity:      v.GetInt("MAX_CAPACITY"),
		MinPlayers:       v.GetInt("MIN_PLAYERS"),
		WSMessageRate:    v.GetFloat64("WS_MESSAGE_RATE"),
		WSMessageBurst:   v.GetInt("WS_MESSAGE_BURST"),
	}
}
