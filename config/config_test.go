package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.LLM.Model != "yandexgpt" || cfg.LLM.LiteModel != "yandexgpt-lite" {
		t.Errorf("models = %q / %q", cfg.LLM.Model, cfg.LLM.LiteModel)
	}
	if cfg.LLM.Timeout() != 90*time.Second {
		t.Errorf("timeout = %v", cfg.LLM.Timeout())
	}
	if cfg.Planner.TermPolicy != "round_robin" {
		t.Errorf("term policy = %q", cfg.Planner.TermPolicy)
	}
	if cfg.Planner.EnrichConcurrency != 4 {
		t.Errorf("enrich concurrency = %d", cfg.Planner.EnrichConcurrency)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CURRICULA_SERVER_PORT", "9090")
	t.Setenv("CURRICULA_PLANNER_TERM_POLICY", "capacity")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Planner.TermPolicy != "capacity" {
		t.Errorf("term policy = %q, want capacity", cfg.Planner.TermPolicy)
	}
}
