package config

import "sync"

type UploadConfig struct {
	// MaxBytes caps a single request body. Per-document limits live in the model.
	MaxBytes int
}

var (
	uploadConfig *UploadConfig
	uploadOnce   sync.Once
)

func LoadUploadConfig() *UploadConfig {
	uploadOnce.Do(func() {
		uploadConfig = &UploadConfig{
			MaxBytes: getEnvInt("UPLOAD_MAX_BYTES", 4*1024*1024),
		}
	})
	return uploadConfig
}
