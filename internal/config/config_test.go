package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("GOOGLE_PLACES_API_KEY", "env-key")
	t.Setenv("PORT", "8080")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIKey != "env-key" {
		t.Errorf("expected API key from environment, got %q", cfg.APIKey)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	if _, err := Load(""); err == nil {
		t.Fatal("expected an error for a non-numeric PORT")
	}
}

func TestLoadFromFileWithEnvExpansion(t *testing.T) {
	t.Setenv("TEST_PLACES_KEY", "file-key")
	t.Setenv("GOOGLE_PLACES_API_KEY", "")
	t.Setenv("PORT", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "api_key: ${TEST_PLACES_KEY}\ntransport: http\nport: 9090\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIKey != "file-key" {
		t.Errorf("expected expanded API key, got %q", cfg.APIKey)
	}
	if cfg.Transport != TransportHTTP || cfg.Port != 9090 || cfg.LogLevel != "debug" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestValidateMissingKey(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error when no API key is configured")
	}
}

func TestValidateUnknownTransport(t *testing.T) {
	cfg := Default()
	cfg.APIKey = "k"
	cfg.Transport = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an unknown transport")
	}
}

func TestListenPortDefaults(t *testing.T) {
	cases := []struct {
		transport Transport
		port      int
		want      int
	}{
		{TransportWebSocket, 0, DefaultWebSocketPort},
		{TransportHTTP, 0, DefaultHTTPPort},
		{TransportHTTP, 4242, 4242},
	}
	for _, tc := range cases {
		cfg := Default()
		cfg.Transport = tc.transport
		cfg.Port = tc.port
		if got := cfg.ListenPort(); got != tc.want {
			t.Errorf("transport %s port %d: expected %d, got %d", tc.transport, tc.port, tc.want, got)
		}
	}
}

func TestStaticKey(t *testing.T) {
	var ks KeySource = StaticKey("abc")
	if ks.APIKey() != "abc" {
		t.Errorf("expected abc, got %q", ks.APIKey())
	}
}

func TestKeyWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "key")
	if err := os.WriteFile(path, []byte("first-key\n"), 0600); err != nil {
		t.Fatalf("writing key file: %v", err)
	}

	kw, err := NewKeyWatcher(path)
	if err != nil {
		t.Fatalf("NewKeyWatcher failed: %v", err)
	}
	defer kw.Close()

	if got := kw.APIKey(); got != "first-key" {
		t.Fatalf("expected first-key, got %q", got)
	}

	if err := os.WriteFile(path, []byte("second-key\n"), 0600); err != nil {
		t.Fatalf("rewriting key file: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if kw.APIKey() == "second-key" {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("key was not reloaded, still %q", kw.APIKey())
}

func TestKeyWatcherRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("  \n"), 0600); err != nil {
		t.Fatalf("writing key file: %v", err)
	}
	if _, err := NewKeyWatcher(path); err == nil {
		t.Fatal("expected an error for an empty key file")
	}
}
