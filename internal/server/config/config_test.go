package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()

	if c.EndpointAddr != ":8080" {
		t.Fatalf("unexpected default addr: %q", c.EndpointAddr)
	}
	if c.AccessTokenValidityDuration != 24*time.Hour {
		t.Fatalf("unexpected default token validity: %v", c.AccessTokenValidityDuration)
	}
	if c.LogBackend != "slog" {
		t.Fatalf("unexpected default log backend: %q", c.LogBackend)
	}
}

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("ENDPOINT_ADDR", ":9999")
	t.Setenv("ENCRYPTION_SECRET", "env-secret")
	t.Setenv("ACCESS_TOKEN_VALIDITY", "30m")

	c := &Config{}
	c.LoadDefaults()
	parseEnv(c)

	if c.EndpointAddr != ":9999" {
		t.Fatalf("expected :9999, got %q", c.EndpointAddr)
	}
	if c.EncryptionSecret != "env-secret" {
		t.Fatalf("expected env-secret, got %q", c.EncryptionSecret)
	}
	if c.AccessTokenValidityDuration != 30*time.Minute {
		t.Fatalf("expected 30m, got %v", c.AccessTokenValidityDuration)
	}
	// untouched values keep their defaults
	if c.DatabaseDSN == "" {
		t.Fatal("default DSN lost")
	}
}

func TestParseFlags_Overrides(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server", "-a", ":7070", "-t", "15", "-k", "flag-secret"}

	c := &Config{}
	c.LoadDefaults()
	parseFlags(c)

	if c.EndpointAddr != ":7070" {
		t.Fatalf("expected :7070, got %q", c.EndpointAddr)
	}
	if c.AccessTokenValidityDuration != 15*time.Minute {
		t.Fatalf("expected 15m, got %v", c.AccessTokenValidityDuration)
	}
	if c.EncryptionSecret != "flag-secret" {
		t.Fatalf("expected flag-secret, got %q", c.EncryptionSecret)
	}
}

func TestParseJson_Overrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	data := `{"endpoint_addr": ":6060", "access_token_validity_duration": "45m", "log_backend": "zerolog"}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server", "-c", path}

	c := &Config{}
	c.LoadDefaults()
	parseJson(c)

	if c.EndpointAddr != ":6060" {
		t.Fatalf("expected :6060, got %q", c.EndpointAddr)
	}
	if c.AccessTokenValidityDuration != 45*time.Minute {
		t.Fatalf("expected 45m, got %v", c.AccessTokenValidityDuration)
	}
	if c.LogBackend != "zerolog" {
		t.Fatalf("expected zerolog, got %q", c.LogBackend)
	}
}

func TestParseJson_NoFlag(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server"}

	c := &Config{}
	c.LoadDefaults()
	parseJson(c) // must not panic or change anything

	if c.EndpointAddr != ":8080" {
		t.Fatalf("config changed without a JSON file: %q", c.EndpointAddr)
	}
}
