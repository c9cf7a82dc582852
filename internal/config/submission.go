package config

import (
	"log"
	"os"
	"sync"
	"time"
)

const (
	SubmissionModeMultipart = "multipart"
	SubmissionModeJSON      = "json"
)

// SubmissionConfig points at the external endpoint that receives completed applications.
type SubmissionConfig struct {
	BaseURL string
	Path    string
	Mode    string
	Timeout time.Duration
}

var (
	submissionConfig *SubmissionConfig
	submissionOnce   sync.Once
)

func LoadSubmissionConfig() *SubmissionConfig {
	submissionOnce.Do(func() {
		baseURL := os.Getenv("SUBMISSION_URL")
		if baseURL == "" {
			log.Println("Warning: SUBMISSION_URL not set, submissions will fail")
		}
		mode := getEnvDefault("SUBMISSION_MODE", SubmissionModeMultipart)
		if mode != SubmissionModeMultipart && mode != SubmissionModeJSON {
			log.Printf("Warning: unknown SUBMISSION_MODE %q, defaulting to %s", mode, SubmissionModeMultipart)
			mode = SubmissionModeMultipart
		}
		submissionConfig = &SubmissionConfig{
			BaseURL: baseURL,
			Path:    getEnvDefault("SUBMISSION_PATH", "/submit"),
			Mode:    mode,
			Timeout: getEnvDuration("SUBMISSION_TIMEOUT", 30*time.Second),
		}
	})
	return submissionConfig
}
