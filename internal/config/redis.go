package config

import (
	"os"
	"sync"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

var (
	redisConfig *RedisConfig
	redisOnce   sync.Once
)

func LoadRedisConfig() *RedisConfig {
	redisOnce.Do(func() {
		redisConfig = &RedisConfig{
			Addr:     getEnvDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		}
	})
	return redisConfig
}
