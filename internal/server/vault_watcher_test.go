package server

import (
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"resumepanel/internal/config"
)

// mockVaultClient serves secrets from memory; tests bump Version to
// simulate a rotation.
type mockVaultClient struct {
	mu      sync.Mutex
	secrets map[string]*config.VaultSecret
	err     error
}

func (m *mockVaultClient) GetSecretV2(path string) (*config.VaultSecret, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if secret, exists := m.secrets[path]; exists {
		return secret, nil
	}
	return nil, fmt.Errorf("secret not found at path: %s", path)
}

func (m *mockVaultClient) set(path string, secret *config.VaultSecret) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secrets[path] = secret
}

func TestVaultKeyWatcherPoll(t *testing.T) {
	const path = "secret/data/resumepanel/api"
	client := &mockVaultClient{secrets: map[string]*config.VaultSecret{
		path: {Data: map[string]any{"keys": "k1, k2"}, Version: 2},
	}}

	var applied [][]string
	vw := NewVaultKeyWatcher(client, path, time.Minute, func(keys []string) {
		applied = append(applied, keys)
	}, nil)

	changed, err := vw.Poll()
	if err != nil {
		t.Fatalf("Poll failed: %v", err)
	}
	if !changed {
		t.Fatal("expected first poll to apply keys")
	}
	if len(applied) != 1 || !slices.Equal(applied[0], []string{"k1", "k2"}) {
		t.Errorf("applied = %v, want [[k1 k2]]", applied)
	}

	changed, err = vw.Poll()
	if err != nil {
		t.Fatalf("Poll failed: %v", err)
	}
	if changed {
		t.Error("same version should not be applied twice")
	}

	client.set(path, &config.VaultSecret{Data: map[string]any{"keys": []any{"k3"}}, Version: 3})
	if changed, _ := vw.Poll(); !changed {
		t.Error("new version should be applied")
	}
	if got := applied[len(applied)-1]; !slices.Equal(got, []string{"k3"}) {
		t.Errorf("last applied = %v, want [k3]", got)
	}

	status := vw.Status()
	if status["last_version"] != int64(3) || status["key_count"] != 1 {
		t.Errorf("unexpected status: %v", status)
	}
}

func TestVaultKeyWatcherRejectsBadSecrets(t *testing.T) {
	tests := []struct {
		name   string
		secret *config.VaultSecret
		err    error
	}{
		{"missing field", &config.VaultSecret{Data: map[string]any{}, Version: 1}, nil},
		{"empty list", &config.VaultSecret{Data: map[string]any{"keys": " , "}, Version: 1}, nil},
		{"wrong type", &config.VaultSecret{Data: map[string]any{"keys": 42}, Version: 1}, nil},
		{"read error", nil, fmt.Errorf("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockVaultClient{secrets: map[string]*config.VaultSecret{}, err: tt.err}
			if tt.secret != nil {
				client.set("p", tt.secret)
			}
			called := false
			vw := NewVaultKeyWatcher(client, "p", time.Minute, func([]string) { called = true }, nil)

			changed, err := vw.Poll()
			if err == nil {
				t.Fatal("expected error")
			}
			if changed || called {
				t.Error("keys must not be applied on error")
			}
			if _, ok := vw.Status()["last_error"]; !ok {
				t.Error("status should carry the last error")
			}
		})
	}
}

func TestVaultKeyWatcherStartStop(t *testing.T) {
	client := &mockVaultClient{secrets: map[string]*config.VaultSecret{}}
	vw := NewVaultKeyWatcher(client, "p", time.Hour, func([]string) {}, nil)

	if err := vw.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := vw.Start(); err == nil {
		t.Error("second Start should fail")
	}
	if err := vw.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := vw.Stop(); err != nil {
		t.Errorf("second Stop should be a no-op, got %v", err)
	}
}
