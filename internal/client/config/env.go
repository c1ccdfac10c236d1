package config

import "os"

const (
	EnvServerURL = "DOCANCHOR_SERVER_URL"
	EnvUserID    = "DOCANCHOR_USER_ID"
	EnvLogLevel  = "DOCANCHOR_LOG_LEVEL"
)

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvServerURL); ok && v != "" {
		cfg.ServerBaseURL = v
	}
	if v, ok := os.LookupEnv(EnvUserID); ok && v != "" {
		cfg.UserID = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
}
