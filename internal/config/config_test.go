package config

import "testing"

// TestDefaultBalance verifies the shipped balance values
func TestDefaultBalance(t *testing.T) {
	b := DefaultBalance()

	if b.Shards.BonusPerShard != 0.03 {
		t.Errorf("Expected 3%% per shard, got %v", b.Shards.BonusPerShard)
	}
	if b.Shards.MaxPerActivation != 5 {
		t.Errorf("Expected max 5 per activation, got %d", b.Shards.MaxPerActivation)
	}
	if b.Shards.SoulStanceBonus != 0 || b.Shards.PowerStanceBonus != 0 {
		t.Error("Stance bonus layer should ship zeroed")
	}
	if b.Windows.DefenseModerateBoundary >= b.Windows.DefenseDuration {
		t.Error("Moderate boundary must fall inside the defense window")
	}
	if b.Windows.CastTelegraph >= b.Windows.CastDuration {
		t.Error("Telegraph must fall inside the cast bar")
	}
	if b.AI.LostTargetDistance <= b.AI.SightRange {
		t.Error("Lost-target distance should exceed sight range for hysteresis")
	}
}

// TestFromEnvOverrides verifies env variables take precedence over defaults
func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("TICK_RATE", "60")
	t.Setenv("PORT", "8080")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("SHARD_BONUS_PER_SHARD", "0.05")
	t.Setenv("EVENT_LOG_PATH", "")
	t.Setenv("STATS_PATH", "/tmp/stats.yaml")

	cfg := Load()

	if cfg.Sim.TickRate != 60 {
		t.Errorf("Expected tick rate 60, got %d", cfg.Sim.TickRate)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Server.Port)
	}
	if len(cfg.Server.CORSOrigins) != 2 {
		t.Errorf("Expected 2 CORS origins, got %v", cfg.Server.CORSOrigins)
	}
	if cfg.Balance.Shards.BonusPerShard != 0.05 {
		t.Errorf("Expected bonus override 0.05, got %v", cfg.Balance.Shards.BonusPerShard)
	}
	if cfg.EventLog.Path != "" {
		t.Errorf("Empty EVENT_LOG_PATH should disable the file, got %q", cfg.EventLog.Path)
	}
	if cfg.Stats.Path != "/tmp/stats.yaml" {
		t.Errorf("Expected stats path override, got %q", cfg.Stats.Path)
	}
}

// TestInvalidEnvIgnored verifies malformed values fall back to defaults
func TestInvalidEnvIgnored(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"non-numeric tick rate", "TICK_RATE", "fast"},
		{"negative tick rate", "TICK_RATE", "-5"},
		{"non-numeric port", "PORT", "http"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			cfg := Load()
			if cfg.Sim.TickRate != DefaultSim().TickRate {
				t.Errorf("Tick rate should stay default, got %d", cfg.Sim.TickRate)
			}
			if cfg.Server.Port != DefaultServer().Port {
				t.Errorf("Port should stay default, got %d", cfg.Server.Port)
			}
		})
	}
}
