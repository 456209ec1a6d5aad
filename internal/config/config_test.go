package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const fullYAML = `
server:
  port: 9090
  base_url: https://penlog.example.com

db:
  driver: mysql
  host: 10.0.0.5
  port: 3307
  user: penlog
  password: secret
  database: penlog_prod

photos:
  dir: /var/lib/penlog/photos
  max_size_bytes: 8388608

demo:
  interval_ms: 500
  budget: 10
  max_pens: 12

notify:
  platform: slack
  slack_token: xoxb-test
  channel_id: C123
  digest_cron: "0 7 * * *"
`

func TestParse_Full(t *testing.T) {
	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.BaseURL != "https://penlog.example.com" {
		t.Errorf("Server.BaseURL = %q", cfg.Server.BaseURL)
	}
	if cfg.DB.Driver != "mysql" || cfg.DB.Host != "10.0.0.5" || cfg.DB.Port != 3307 {
		t.Errorf("DB = %+v", cfg.DB)
	}
	if cfg.Photos.MaxSizeBytes != 8388608 {
		t.Errorf("Photos.MaxSizeBytes = %d", cfg.Photos.MaxSizeBytes)
	}
	if cfg.Demo.Budget != 10 || cfg.Demo.MaxPens != 12 {
		t.Errorf("Demo = %+v", cfg.Demo)
	}
	if cfg.Notify.Platform != "slack" || cfg.Notify.DigestCron != "0 7 * * *" {
		t.Errorf("Notify = %+v", cfg.Notify)
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("default Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.BaseURL != "http://localhost:8080" {
		t.Errorf("default Server.BaseURL = %q", cfg.Server.BaseURL)
	}
	if cfg.DB.Driver != "sqlite" || cfg.DB.Path != "penlog.db" {
		t.Errorf("default DB = %+v", cfg.DB)
	}
	if cfg.Photos.MaxSizeBytes != 16<<20 {
		t.Errorf("default Photos.MaxSizeBytes = %d, want 16 MiB", cfg.Photos.MaxSizeBytes)
	}
	if cfg.Demo.IntervalMs != 2000 || cfg.Demo.Budget != 20 || cfg.Demo.MaxPens != 30 {
		t.Errorf("default Demo = %+v", cfg.Demo)
	}
	if cfg.DemoInterval() != 2*time.Second {
		t.Errorf("DemoInterval() = %s, want 2s", cfg.DemoInterval())
	}
}

func TestParse_BadDriver(t *testing.T) {
	_, err := Parse([]byte("db:\n  driver: mongo\n"))
	if err == nil {
		t.Fatal("Parse() with bad driver succeeded, want error")
	}
	if !strings.Contains(err.Error(), "db.driver") {
		t.Errorf("error = %v, want mention of db.driver", err)
	}
}

func TestParse_MysqlRequiresUser(t *testing.T) {
	_, err := Parse([]byte("db:\n  driver: mysql\n"))
	if err == nil {
		t.Fatal("Parse() mysql without user succeeded, want error")
	}
	if !strings.Contains(err.Error(), "db.user") {
		t.Errorf("error = %v, want mention of db.user", err)
	}
}

func TestParse_NotifyValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad platform", "notify:\n  platform: irc\n", "notify.platform"},
		{"slack needs token", "notify:\n  platform: slack\n  channel_id: C1\n", "slack_token"},
		{"discord needs token", "notify:\n  platform: discord\n  channel_id: C1\n", "discord_token"},
		{"channel required", "notify:\n  platform: slack\n  slack_token: x\n", "channel_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "penlog.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7000\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000", cfg.Server.Port)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() of missing file succeeded, want error")
	}
}
