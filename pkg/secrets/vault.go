// Package secrets reads deployment secrets from HashiCorp Vault.
package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// VaultConfig locates a single KV secret
type VaultConfig struct {
	Addr      string
	Token     string
	Namespace string
	Mount     string
	Path      string
	KVVersion int
	Timeout   time.Duration
}

// Vault reads one KV secret over the Vault HTTP API
type Vault struct {
	cfg        VaultConfig
	httpClient *http.Client
}

// NewVault validates cfg and fills in the KV v2 defaults
func NewVault(cfg VaultConfig) (*Vault, error) {
	if cfg.Addr == "" || cfg.Token == "" || cfg.Path == "" {
		return nil, errors.New("vault configuration incomplete (VAULT_ADDR, VAULT_TOKEN, VAULT_PATH)")
	}
	if cfg.Mount == "" {
		cfg.Mount = "secret"
	}
	if cfg.KVVersion != 1 {
		cfg.KVVersion = 2
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Vault{cfg: cfg, httpClient: &http.Client{Timeout: cfg.Timeout}}, nil
}

// Read returns the key/value pairs stored at the configured path
func (v *Vault) Read(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.url(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Vault-Token", v.cfg.Token)
	if v.cfg.Namespace != "" {
		req.Header.Set("X-Vault-Namespace", v.cfg.Namespace)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vault request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("vault fetch failed: %s %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("invalid vault response: %w", err)
	}

	data := payload.Data
	if v.cfg.KVVersion == 2 {
		inner, ok := data["data"].(map[string]any)
		if !ok {
			return nil, errors.New("vault response missing data for KV v2")
		}
		data = inner
	}
	if data == nil {
		return nil, errors.New("vault response missing data")
	}

	out := make(map[string]string, len(data))
	for key, value := range data {
		out[key] = stringify(value)
	}
	return out, nil
}

func (v *Vault) url() string {
	addr := strings.TrimRight(v.cfg.Addr, "/")
	mount := strings.Trim(v.cfg.Mount, "/")
	path := strings.TrimLeft(v.cfg.Path, "/")
	if v.cfg.KVVersion == 1 {
		return fmt.Sprintf("%s/v1/%s/%s", addr, mount, path)
	}
	return fmt.Sprintf("%s/v1/%s/data/%s", addr, mount, path)
}

func stringify(value any) string {
	switch val := value.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(encoded)
	}
}
