package server

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"resumepanel/internal/config"
	"resumepanel/internal/errors"
)

// VaultSecretReader is the part of the Vault client the watcher needs.
type VaultSecretReader interface {
	GetSecretV2(path string) (*config.VaultSecret, error)
}

// VaultKeyWatcher polls the KVv2 secret holding the server API keys and
// hands every new version to onChange. Keys are read from the "keys"
// field as a comma-separated string or a list.
type VaultKeyWatcher struct {
	mu sync.RWMutex

	client       VaultSecretReader
	secretPath   string
	pollInterval time.Duration
	onChange     func(keys []string)
	logger       *errors.Logger

	stopChan    chan struct{}
	running     bool
	lastVersion int64
	lastCount   int
	lastError   string
}

// NewVaultKeyWatcher creates a watcher. onChange is called from the poll
// goroutine.
func NewVaultKeyWatcher(client VaultSecretReader, secretPath string, pollInterval time.Duration, onChange func(keys []string), logger *errors.Logger) *VaultKeyWatcher {
	if logger == nil {
		logger = errors.Discard()
	}
	return &VaultKeyWatcher{
		client:       client,
		secretPath:   secretPath,
		pollInterval: pollInterval,
		onChange:     onChange,
		logger:       logger,
	}
}

// Start begins polling Vault for secret changes
func (vw *VaultKeyWatcher) Start() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	if vw.running {
		return fmt.Errorf("vault key watcher is already running")
	}
	vw.stopChan = make(chan struct{})
	vw.running = true
	go vw.pollLoop(vw.stopChan)
	vw.logger.Info("Vault key watcher started", "secret_path", vw.secretPath, "poll_interval", vw.pollInterval)
	return nil
}

// Stop stops the watcher. It is safe to call more than once.
func (vw *VaultKeyWatcher) Stop() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	if !vw.running {
		return nil
	}
	close(vw.stopChan)
	vw.running = false
	vw.logger.Info("Vault key watcher stopped")
	return nil
}

func (vw *VaultKeyWatcher) pollLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(vw.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if _, err := vw.Poll(); err != nil {
				vw.logger.LogError(err, "Failed to refresh API keys from Vault", "secret_path", vw.secretPath)
			}
		case <-stop:
			return
		}
	}
}

// Poll reads the secret once and calls onChange when its version is newer
// than the last one applied. It reports whether keys were applied.
func (vw *VaultKeyWatcher) Poll() (bool, error) {
	secret, err := vw.client.GetSecretV2(vw.secretPath)
	if err != nil {
		vw.setError(err)
		return false, fmt.Errorf("failed to read secret: %w", err)
	}

	vw.mu.RLock()
	seen := vw.lastVersion
	vw.mu.RUnlock()
	if secret.Version <= seen {
		return false, nil
	}

	keys, err := keysFromSecret(secret)
	if err != nil {
		vw.setError(err)
		return false, err
	}

	vw.mu.Lock()
	vw.lastVersion = secret.Version
	vw.lastCount = len(keys)
	vw.lastError = ""
	vw.mu.Unlock()

	vw.logger.Info("API keys refreshed from Vault", "version", secret.Version, "count", len(keys))
	vw.onChange(keys)
	return true, nil
}

func keysFromSecret(secret *config.VaultSecret) ([]string, error) {
	raw, ok := secret.Data["keys"]
	if !ok {
		return nil, fmt.Errorf("field 'keys' not found in vault secret")
	}
	var keys []string
	switch v := raw.(type) {
	case string:
		keys = config.SplitAndTrim(v)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				keys = append(keys, strings.TrimSpace(s))
			}
		}
	default:
		return nil, fmt.Errorf("field 'keys' has unexpected type %T", raw)
	}
	// An empty list would silently disable authentication.
	if len(keys) == 0 {
		return nil, fmt.Errorf("vault secret holds no API keys")
	}
	return keys, nil
}

func (vw *VaultKeyWatcher) setError(err error) {
	vw.mu.Lock()
	vw.lastError = err.Error()
	vw.mu.Unlock()
}

// Status returns the current status of the watcher for /stats.
func (vw *VaultKeyWatcher) Status() map[string]any {
	vw.mu.RLock()
	defer vw.mu.RUnlock()
	status := map[string]any{
		"running":       vw.running,
		"poll_interval": vw.pollInterval.String(),
		"secret_path":   vw.secretPath,
		"last_version":  vw.lastVersion,
		"key_count":     vw.lastCount,
	}
	if vw.lastError != "" {
		status["last_error"] = vw.lastError
	}
	return status
}
