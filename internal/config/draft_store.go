package config

import (
	"sync"
	"time"
)

const (
	DraftStoreMemory   = "memory"
	DraftStoreRedis    = "redis"
	DraftStorePostgres = "postgres"
)

type DraftStoreConfig struct {
	Driver string
	TTL    time.Duration
}

var (
	draftStoreConfig *DraftStoreConfig
	draftStoreOnce   sync.Once
)

func LoadDraftStoreConfig() *DraftStoreConfig {
	draftStoreOnce.Do(func() {
		draftStoreConfig = &DraftStoreConfig{
			Driver: getEnvDefault("DRAFT_STORE", DraftStoreMemory),
			TTL:    getEnvDuration("DRAFT_TTL", 24*time.Hour),
		}
	})
	return draftStoreConfig
}
