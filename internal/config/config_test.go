package config

import (
	"testing"
	"time"
)

func TestNewConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "GEMINI_MODEL", "STORAGE_BACKEND", "MAX_UPLOAD_MB", "LLM_MAX_RETRIES", "SESSION_IDLE_TTL_MINUTES", "MAX_SESSIONS"} {
		t.Setenv(key, "")
	}

	cfg := NewConfig()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.GeminiModel != "gemini-2.0-flash" {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}
	if cfg.StorageBackend != "memory" {
		t.Errorf("StorageBackend = %q, want memory", cfg.StorageBackend)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Errorf("MaxUploadBytes = %d, want %d", cfg.MaxUploadBytes, 10<<20)
	}
	if cfg.LLMMaxRetries != 0 {
		t.Errorf("LLMMaxRetries = %d, want 0", cfg.LLMMaxRetries)
	}
	if cfg.SessionIdleTTL != time.Hour || cfg.MaxSessions != 1000 {
		t.Errorf("session bounds = %v, %d", cfg.SessionIdleTTL, cfg.MaxSessions)
	}
}

func TestNewConfigOverrides(t *testing.T) {
	t.Setenv("GEMINI_MODEL", "gemini-1.5-pro")
	t.Setenv("ANALYSIS_TIMEOUT", "45")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("LLM_RATE_LIMIT", "0.5")
	t.Setenv("READ_TIMEOUT", "not-a-number")

	cfg := NewConfig()

	if cfg.GeminiModel != "gemini-1.5-pro" {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}
	if cfg.AnalysisTimeout != 45*time.Second {
		t.Errorf("AnalysisTimeout = %v", cfg.AnalysisTimeout)
	}
	if !cfg.MinioUseSSL {
		t.Error("MinioUseSSL should be true")
	}
	if cfg.LLMRateLimit != 0.5 {
		t.Errorf("LLMRateLimit = %v", cfg.LLMRateLimit)
	}
	if cfg.ReadTimeout != 30*time.Second {
		t.Errorf("ReadTimeout should fall back to default, got %v", cfg.ReadTimeout)
	}
}
