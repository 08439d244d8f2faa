package cli

import (
	"os"
	"path/filepath"
	"testing"

	"resumepanel/internal/config"
)

func loadDefaults(t *testing.T) *config.Config {
	t.Helper()
	t.Chdir(t.TempDir())
	cfg, err := config.LoadConfigFrom("")
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	return cfg
}

func TestNewRegistry(t *testing.T) {
	profiles := `default: data_platform
profiles:
  data_platform:
    skills: 30
    experience: 25
    education: 10
    soft_skills: 10
    stability: 10
    attitude: 10
    potential: 5
`
	tests := []struct {
		name        string
		file        string
		profile     string
		wantDefault string
		wantErr     bool
	}{
		{name: "config default", profile: "senior", wantDefault: "senior"},
		{name: "file default wins", file: profiles, profile: "junior", wantDefault: "data_platform"},
		{name: "unknown config default", profile: "nonexistent", wantErr: true},
		{name: "invalid file", file: "profiles: [", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadDefaults(t)
			cfg.Analysis.DefaultProfile = tt.profile
			if tt.file != "" {
				path := filepath.Join(t.TempDir(), "profiles.yaml")
				if err := os.WriteFile(path, []byte(tt.file), 0600); err != nil {
					t.Fatal(err)
				}
				cfg.Analysis.ProfilesFile = path
			}

			registry, err := newRegistry(cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error, default=%q", registry.DefaultName())
				}
				return
			}
			if err != nil {
				t.Fatalf("newRegistry: %v", err)
			}
			if got := registry.DefaultName(); got != tt.wantDefault {
				t.Errorf("DefaultName() = %q, want %q", got, tt.wantDefault)
			}
		})
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		flag    string
		want    string
		wantErr bool
	}{
		{flag: "", want: "markdown"},
		{flag: "md", want: "markdown"},
		{flag: "JSON", want: "json"},
		{flag: "txt", want: "text"},
		{flag: "xml", wantErr: true},
	}

	cfg := loadDefaults(t)
	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			var f analysisFlags
			f.output.OutputFormat = tt.flag
			err := f.resolveFormat(cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveFormat(%q) error = %v, wantErr %v", tt.flag, err, tt.wantErr)
			}
			if !tt.wantErr && f.output.OutputFormat != tt.want {
				t.Errorf("format = %q, want %q", f.output.OutputFormat, tt.want)
			}
		})
	}
}

func TestApplyServeOverrides(t *testing.T) {
	t.Cleanup(func() { serveOverrides = struct{ host, port, certFile, keyFile string }{} })

	cfg := loadDefaults(t)
	serveOverrides.host = "127.0.0.1"
	serveOverrides.port = "9090"
	if err := applyServeOverrides(cfg); err != nil {
		t.Fatalf("applyServeOverrides: %v", err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != "9090" {
		t.Errorf("server = %s:%s", cfg.Server.Host, cfg.Server.Port)
	}

	serveOverrides.port = "70000"
	if err := applyServeOverrides(cfg); err == nil {
		t.Error("expected out-of-range port to be rejected")
	}

	serveOverrides.port = ""
	serveOverrides.certFile = "server.pem"
	if err := applyServeOverrides(cfg); err == nil {
		t.Error("expected a certificate without a key to be rejected")
	}
}
