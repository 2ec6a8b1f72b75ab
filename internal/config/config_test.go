package config

import (
	"os"
	"testing"
)

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 0},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabaseAddrs(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_MinConfidenceAboveOne(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 8080},
		Database:  DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Retrieval: RetrievalConfig{MinConfidence: 1.5},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for min_confidence > 1")
	}
}

func TestValidate_TemperatureOutOfRange(t *testing.T) {
	cfg := Config{
		HTTP:       HTTPConfig{Port: 8080},
		Database:   DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Generation: GenerationConfig{Temperature: 3},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for temperature > 2")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("ReadTimeoutSec = %d, want 10", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("Embedding.Model = %q", cfg.Embedding.Model)
	}
	if cfg.Embedding.Dimensions != 1536 {
		t.Errorf("Embedding.Dimensions = %d, want 1536", cfg.Embedding.Dimensions)
	}
	if cfg.Retrieval.MinConfidence != 0.5 {
		t.Errorf("Retrieval.MinConfidence = %g, want 0.5", cfg.Retrieval.MinConfidence)
	}
	if cfg.Retrieval.SearchTimeoutSec != 5 {
		t.Errorf("Retrieval.SearchTimeoutSec = %d, want 5", cfg.Retrieval.SearchTimeoutSec)
	}
	if cfg.Index.Name != "incidents_idx" {
		t.Errorf("Index.Name = %q", cfg.Index.Name)
	}
	if cfg.Storage.KeyPrefix != "triagebot:" {
		t.Errorf("Storage.KeyPrefix = %q", cfg.Storage.KeyPrefix)
	}
	if cfg.LinkCheck.Concurrency != 10 {
		t.Errorf("LinkCheck.Concurrency = %d, want 10", cfg.LinkCheck.Concurrency)
	}
	if cfg.LinkCheck.BatchPauseMS != 100 {
		t.Errorf("LinkCheck.BatchPauseMS = %d, want 100", cfg.LinkCheck.BatchPauseMS)
	}
}

func TestApplyDefaults_DoesNotOverride(t *testing.T) {
	cfg := Config{
		Retrieval: RetrievalConfig{MinConfidence: 0.7},
		Storage:   StorageConfig{KeyPrefix: "custom:"},
	}
	cfg.ApplyDefaults()

	if cfg.Retrieval.MinConfidence != 0.7 {
		t.Errorf("MinConfidence = %g, want 0.7", cfg.Retrieval.MinConfidence)
	}
	if cfg.Storage.KeyPrefix != "custom:" {
		t.Errorf("KeyPrefix = %q, want custom:", cfg.Storage.KeyPrefix)
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("TEST_CFG_VAR", "secret")
	defer os.Unsetenv("TEST_CFG_VAR")

	tests := []struct {
		in   string
		want string
	}{
		{"key: ${TEST_CFG_VAR}", "key: secret"},
		{"key: ${MISSING_VAR:-fallback}", "key: fallback"},
		{"key: ${MISSING_VAR}", "key: "},
		{"key: plain", "key: plain"},
	}

	for _, tc := range tests {
		got := string(expandEnvVars([]byte(tc.in)))
		if got != tc.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGetEnv(t *testing.T) {
	os.Unsetenv("ENV")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}

	os.Setenv("ENV", "prod")
	defer os.Unsetenv("ENV")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}
