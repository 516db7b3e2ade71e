package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Тесты internal/config.
//
// Покрытие:
//  - загрузка по явному пути / CONFIG_PATH / local.yaml / только ENV;
//  - дефолты и overlay ENV поверх YAML;
//  - валидация base_url/лимитов;
//  - битый YAML.

// writeFile — утилита записи временного файла конфигурации.
func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(data), 0o600))
	return p
}

// chdir — смена текущего рабочего каталога с авто-возвратом.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

const sampleYAML = `
env: "prod"
api:
  base_url: "https://blog.example.com/api"
  timeout: "3s"
ui:
  page_limit: 25
  debounce: "150ms"
metrics:
  host: "127.0.0.1"
  port: "9091"
`

const minimalYAML = `
env: "stage"
`

const brokenYAML = `
env: [unclosed
`

func TestMetricsConfig_Addr(t *testing.T) {
	t.Parallel()
	cfg := MetricsConfig{Host: "127.0.0.1", Port: "9091"}
	require.Equal(t, "127.0.0.1:9091", cfg.Addr())
}

func TestLoad_WithExplicitPath_OK(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", sampleYAML)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "https://blog.example.com/api", cfg.API.BaseURL)
	require.Equal(t, 3*time.Second, cfg.API.Timeout)
	require.Equal(t, 25, cfg.UI.PageLimit)
	require.Equal(t, 150*time.Millisecond, cfg.UI.Debounce)
	require.Equal(t, "127.0.0.1:9091", cfg.Metrics.Addr())
}

func TestLoad_WithExplicitPath_BrokenYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "broken.yaml", brokenYAML)

	_, err := Load(cfgPath)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_WithCONFIG_PATH_OK(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "from_env_path.yaml", minimalYAML)
	t.Setenv("CONFIG_PATH", cfgPath)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "stage", cfg.Env)
	// Дефолты из тегов cleanenv.
	require.Equal(t, "http://localhost:3001", cfg.API.BaseURL)
	require.Equal(t, 10, cfg.UI.PageLimit)
	require.Equal(t, 300*time.Millisecond, cfg.UI.Debounce)
}

func TestLoad_WithLocalYAML_OK(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, ".", "local.yaml", sampleYAML)
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, 25, cfg.UI.PageLimit)
}

func TestLoad_EnvOnly_OK(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir) // в каталоге нет local.yaml
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("ENV", "dev")
	t.Setenv("API_BASE_URL", "http://10.0.0.5:3001")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "http://10.0.0.5:3001", cfg.API.BaseURL)
}

func TestLoad_EnvOverlaysYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", sampleYAML)
	t.Setenv("API_BASE_URL", "http://override:3001")

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	require.Equal(t, "http://override:3001", cfg.API.BaseURL)
	// Остальное — из YAML.
	require.Equal(t, 25, cfg.UI.PageLimit)
}

func TestLoad_Validation(t *testing.T) {
	tcs := []struct {
		name string
		yaml string
		want string
	}{
		{"relative_base_url", "api:\n  base_url: \"localhost:3001\"\n", "api.base_url"},
		// Нули перекрываются env-default, поэтому проверяем отрицательные значения.
		{"negative_timeout", "api:\n  timeout: \"-1s\"\n", "api.timeout"},
		{"negative_page_limit", "ui:\n  page_limit: -1\n", "ui.page_limit"},
		{"negative_debounce", "ui:\n  debounce: \"-5ms\"\n", "ui.debounce"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			cfgPath := writeFile(t, dir, "config.yaml", tc.yaml)

			_, err := Load(cfgPath)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}
