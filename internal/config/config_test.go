package config_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-htmlstream/internal/config"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(config.WithConfigPaths(filepath.Join(t.TempDir(), "missing.yaml")))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultConfig(), *cfg)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  addr: ":9000"
  drip: 250ms
  gzip: true
client:
  retries: 5
`)

	cfg, err := config.Load(config.WithConfigPaths(path))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.Server.Drip)
	assert.True(t, cfg.Server.Gzip)
	assert.Equal(t, 5, cfg.Client.Retries)
	// 未出现在文件中的 key 保持默认值
	assert.Equal(t, config.DefaultConfig().Server.Timeout, cfg.Server.Timeout)
	assert.Equal(t, config.DefaultConfig().Store.DSN, cfg.Store.DSN)
}

func TestLoad_JSONFile(t *testing.T) {
	path := writeFile(t, "config.json", `{"store": {"dsn": ":memory:"}, "server": {"timeout": "3s"}}`)

	cfg, err := config.Load(config.WithConfigPaths(path))
	require.NoError(t, err)

	assert.Equal(t, ":memory:", cfg.Store.DSN)
	assert.Equal(t, 3*time.Second, cfg.Server.Timeout)
}

func TestLoad_FirstFileWins(t *testing.T) {
	first := writeFile(t, "a.yaml", "server:\n  addr: \":1\"\n")
	second := writeFile(t, "b.yaml", "server:\n  addr: \":2\"\n")

	cfg, err := config.Load(config.WithConfigPaths(filepath.Join(t.TempDir(), "none.yaml"), first, second))
	require.NoError(t, err)

	assert.Equal(t, ":1", cfg.Server.Addr)
}

func TestLoad_Expansion(t *testing.T) {
	t.Setenv("GUESTBOOK_DSN", "/tmp/guestbook.db")
	path := writeFile(t, "config.yaml", `
store:
  dsn: "${GUESTBOOK_DSN}"
client:
  url: "${HTMLSTREAM_TEST_UNSET:-http://example.com}"
`)

	cfg, err := config.Load(config.WithConfigPaths(path))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/guestbook.db", cfg.Store.DSN)
	assert.Equal(t, "http://example.com", cfg.Client.URL)

	raw, err := config.Load(config.WithConfigPaths(path), config.WithoutExpansion())
	require.NoError(t, err)
	assert.Equal(t, "${GUESTBOOK_DSN}", raw.Store.DSN)
}

func TestLoad_ExpansionRequired(t *testing.T) {
	path := writeFile(t, "config.yaml", "store:\n  dsn: \"${HTMLSTREAM_TEST_UNSET:?dsn is required}\"\n")

	_, err := config.Load(config.WithConfigPaths(path))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dsn is required")
}

func TestLoad_InvalidFile(t *testing.T) {
	path := writeFile(t, "config.yaml", "server: [unclosed\n")

	_, err := config.Load(config.WithConfigPaths(path))
	assert.Error(t, err)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("HTMLSTREAM_SERVER_ADDR", ":7000")
	t.Setenv("HTMLSTREAM_SERVER_GZIP", "true")
	t.Setenv("HTMLSTREAM_CLIENT_TIMEOUT", "2s")
	path := writeFile(t, "config.yaml", "server:\n  addr: \":9000\"\n")

	cfg, err := config.Load(config.WithConfigPaths(path), config.WithEnvPrefix(config.EnvPrefix))
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.True(t, cfg.Server.Gzip)
	assert.Equal(t, 2*time.Second, cfg.Client.Timeout)
}

func TestLoad_Flags(t *testing.T) {
	t.Setenv("HTMLSTREAM_SERVER_ADDR", ":7000")
	path := writeFile(t, "config.yaml", "server:\n  addr: \":9000\"\n  idletime: 5s\n")

	var got *config.Config
	cmd := &cli.Command{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: config.FlagConfig},
			&cli.StringFlag{Name: "server-addr"},
			&cli.DurationFlag{Name: "server-drip"},
			&cli.IntFlag{Name: "client-retries", Value: 3},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			var err error
			got, err = config.LoadCmd(cmd)
			return err
		},
	}

	err := cmd.Run(context.Background(), []string{"test", "--config", path, "--server-addr", ":8000", "--server-drip", "1s"})
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, ":8000", got.Server.Addr)
	assert.Equal(t, time.Second, got.Server.Drip)
	assert.Equal(t, 5*time.Second, got.Server.Idletime)
	// 未显式设置的 flag 不覆盖默认值
	assert.Equal(t, 3, got.Client.Retries)
}

func TestLoad_ExplicitConfigMissing(t *testing.T) {
	cmd := &cli.Command{
		Name:  "test",
		Flags: []cli.Flag{&cli.StringFlag{Name: config.FlagConfig}},
		Action: func(_ context.Context, cmd *cli.Command) error {
			_, err := config.LoadCmd(cmd)
			return err
		},
	}

	err := cmd.Run(context.Background(), []string{"test", "--config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestNames(t *testing.T) {
	assert.Equal(t, "server-addr", config.FlagName("server.addr"))
	assert.Equal(t, "HTMLSTREAM_STORE_DSN", config.EnvName(config.EnvPrefix, "store.dsn"))
}

func TestDefaultPaths(t *testing.T) {
	paths := config.DefaultPaths()

	require.Len(t, paths, 5)
	assert.Equal(t, ".htmlstream.yaml", paths[0])
	assert.Equal(t, "config/config.yaml", paths[len(paths)-1])
}

func TestExampleYAML_RoundTrip(t *testing.T) {
	data, err := config.ExampleYAML()
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "# 配置示例文件")
	assert.Contains(t, text, "timeout: 15s # HTTP 读写超时")
	assert.Contains(t, text, "# 留言板存储")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := config.Load(config.WithConfigPaths(path))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), *cfg)
}

func TestWriteExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, config.WriteExample(path, false))
	assert.FileExists(t, path)

	err := config.WriteExample(path, false)
	require.ErrorIs(t, err, fs.ErrExist)

	require.NoError(t, config.WriteExample(path, true))
}

func TestMarshal(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.Drip = 100 * time.Millisecond

	data, err := config.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "drip: 100ms")
	assert.NotContains(t, string(data), "配置示例文件")
}
