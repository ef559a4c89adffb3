package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func required() map[string]string {
	return map[string]string{
		"JWT_SECRET":          "jwt-secret",
		"IDENTIFIER_HASH_KEY": "id-secret",
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(required()))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Port != "8080" || cfg.StoreDriver != StoreMemory || cfg.Notifier.Driver != NotifierLog {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Auth.AccessTTL != 15*time.Minute || cfg.Auth.RefreshTTL != 7*24*time.Hour {
		t.Fatalf("unexpected token TTLs: %s %s", cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	}
	if cfg.Auth.OTPTTL != 5*time.Minute || cfg.Auth.OTPMaxAttempts != 3 {
		t.Fatalf("unexpected OTP settings: %s %d", cfg.Auth.OTPTTL, cfg.Auth.OTPMaxAttempts)
	}
	if !cfg.Auth.RetainPlaintextCIN {
		t.Fatalf("expected plaintext CIN retention on by default")
	}
	if cfg.RateLimit.Requests != 100 || cfg.RateLimit.Window != 15*time.Minute {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development env by default")
	}
}

func TestLoadFrom_RequiresSecrets(t *testing.T) {
	if _, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{"JWT_SECRET": "x"})); err == nil {
		t.Fatalf("expected error without IDENTIFIER_HASH_KEY")
	}
	if _, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{"IDENTIFIER_HASH_KEY": "x"})); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	env := required()
	env["STORE_DRIVER"] = "mongo"
	env["NOTIFIER_DRIVER"] = "kafka"
	env["KAFKA_BROKERS"] = "k1:9092,k2:9092"
	env["RETAIN_PLAINTEXT_CIN"] = "false"
	env["OTP_TTL"] = "2m"

	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(env))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.StoreDriver != StoreMongo || len(cfg.Notifier.KafkaBrokers) != 2 {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.Auth.RetainPlaintextCIN || cfg.Auth.OTPTTL != 2*time.Minute {
		t.Fatalf("unexpected auth overrides: %+v", cfg.Auth)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"store":        {"STORE_DRIVER": "postgres"},
		"notifier":     {"NOTIFIER_DRIVER": "pigeon"},
		"kafka":        {"NOTIFIER_DRIVER": "kafka"},
		"attempts":     {"OTP_MAX_ATTEMPTS": "0"},
		"seed no pass": {"SEED_ADMIN_EMAIL": "admin@madinti.ma"},
	}
	for name, extra := range cases {
		env := required()
		for k, v := range extra {
			env[k] = v
		}
		if _, err := LoadFrom(context.Background(), envconfig.MapLookuper(env)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
