package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.Cache != CacheFile || cfg.ShareStore != StoreMemory {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.ShareTTL != 720*time.Hour || cfg.MaxLogoBytes != 2<<20 {
		t.Errorf("ttl/logo = %v/%d", cfg.ShareTTL, cfg.MaxLogoBytes)
	}
}

func TestLoadConfigEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BRANDQR_ADDR", ":9999")
	t.Setenv("BRANDQR_CACHE", "none")
	t.Setenv("BRANDQR_SHARE_TTL", "2h")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.Cache != CacheNone || cfg.ShareTTL != 2*time.Hour {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfigDotenv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("BRANDQR_SHARE_STORE=file\nBRANDQR_SHARE_DIR="+dir+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BRANDQR_SHARE_STORE", "")
	os.Unsetenv("BRANDQR_SHARE_STORE")
	t.Setenv("BRANDQR_SHARE_DIR", "")
	os.Unsetenv("BRANDQR_SHARE_DIR")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ShareStore != StoreFile || cfg.ShareDir != dir {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	base := testConfig()
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"ok", func(c *Config) {}, false},
		{"unknown cache", func(c *Config) { c.Cache = "memcached" }, true},
		{"redis without url", func(c *Config) { c.Cache = CacheRedis }, true},
		{"redis", func(c *Config) { c.Cache = CacheRedis; c.RedisURL = "redis://localhost:6379/0" }, false},
		{"unknown store", func(c *Config) { c.ShareStore = "s3" }, true},
		{"mongo without uri", func(c *Config) { c.ShareStore = StoreMongo }, true},
		{"cache store without cache", func(c *Config) { c.ShareStore = StoreCache }, true},
		{"zero ttl", func(c *Config) { c.ShareTTL = 0 }, true},
		{"zero logo", func(c *Config) { c.MaxLogoBytes = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
