package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
		Embedding:  EmbeddingConfig{Model: "text-embedding-3-small"},
		Extraction: ExtractionConfig{Model: "gpt-4o-mini"},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabaseAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_MissingEmbeddingModel(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Model = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing embedding model")
	}
}

func TestValidate_MissingExtractionModel(t *testing.T) {
	cfg := validConfig()
	cfg.Extraction.Model = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing extraction model")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Embedding.Provider != "openai" {
		t.Errorf("expected embedding provider 'openai', got %q", cfg.Embedding.Provider)
	}
	if cfg.Extraction.Provider != "openai" {
		t.Errorf("expected extraction provider 'openai', got %q", cfg.Extraction.Provider)
	}
	if cfg.Ranking.TextSimilarity != 0.60 {
		t.Errorf("expected TextSimilarity=0.60, got %v", cfg.Ranking.TextSimilarity)
	}
	if cfg.Ranking.AttributeOverlap != 0.25 {
		t.Errorf("expected AttributeOverlap=0.25, got %v", cfg.Ranking.AttributeOverlap)
	}
	if cfg.Ranking.PreferenceWeight != 0.10 {
		t.Errorf("expected PreferenceWeight=0.10, got %v", cfg.Ranking.PreferenceWeight)
	}
	if cfg.Ranking.PositiveProfile != 0.15 {
		t.Errorf("expected PositiveProfile=0.15, got %v", cfg.Ranking.PositiveProfile)
	}
	if cfg.Ranking.NegativePenalty != 0.20 {
		t.Errorf("expected NegativePenalty=0.20, got %v", cfg.Ranking.NegativePenalty)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database: DatabaseConfig{ReadinessTimeout: 15},
		Ranking:  RankingConfig{TextSimilarity: 0.5, AttributeOverlap: 0.3, PreferenceWeight: 0.2, PositiveProfile: 0.1, NegativePenalty: 0.4},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Database.ReadinessTimeout != 15 {
		t.Errorf("expected ReadinessTimeout=15, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Ranking.TextSimilarity != 0.5 {
		t.Errorf("expected TextSimilarity=0.5, got %v", cfg.Ranking.TextSimilarity)
	}
	if cfg.Ranking.NegativePenalty != 0.4 {
		t.Errorf("expected NegativePenalty=0.4, got %v", cfg.Ranking.NegativePenalty)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("PRETHRIFT_TEST_KEY", "sk-abc")

	in := []byte("api_key: ${PRETHRIFT_TEST_KEY}\nmodel: ${PRETHRIFT_TEST_MODEL:-gpt-4o-mini}\n")
	out := string(expandEnvVars(in))

	want := "api_key: sk-abc\nmodel: gpt-4o-mini\n"
	if out != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", out, want)
	}
}
