package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"

	"github.com/goliatone/go-userform/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Load(viper.New(), "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(config.Defaults(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "userform.yaml")
	body := "store: local\ndb_path: /tmp/users.db\ntimeout: 3s\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("USERFORM_LOG_FORMAT", "json")
	t.Setenv("USERFORM_SERVE_ADDR", ":9090")

	cfg, err := config.Load(viper.New(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store != config.StoreLocal || cfg.DBPath != "/tmp/users.db" {
		t.Fatalf("unexpected store settings %+v", cfg)
	}
	if cfg.Timeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %s", cfg.Timeout)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected log settings %+v", cfg.Log)
	}
	if cfg.Serve.Addr != ":9090" {
		t.Fatalf("expected env override, got %q", cfg.Serve.Addr)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := config.Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit file")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		ok     bool
	}{
		{"defaults", func(*config.Config) {}, true},
		{"unknown store", func(c *config.Config) { c.Store = "s3" }, false},
		{"remote without url", func(c *config.Config) { c.APIURL = "" }, false},
		{"local without url", func(c *config.Config) { c.Store = config.StoreLocal; c.APIURL = "" }, true},
		{"demo without db", func(c *config.Config) { c.Store = config.StoreDemo; c.DBPath = "" }, false},
		{"zero timeout", func(c *config.Config) { c.Timeout = 0 }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Defaults()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
