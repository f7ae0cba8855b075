package configcmd

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := &cli.Command{
		Name:     "htmlstream",
		Writer:   &out,
		Commands: []*cli.Command{newCommand()},
	}
	err := app.Run(context.Background(), append([]string{"htmlstream", "config"}, args...))

	return out.String(), err
}

func TestInitThenShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, err := run(t, "init", path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = run(t, "init", path)
	require.ErrorIs(t, err, fs.ErrExist)

	_, err = run(t, "init", "--force", path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":9999\"\n"), 0o600))
	out, err := run(t, "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, ":9999")
	assert.Contains(t, out, "# 服务端配置")
}
