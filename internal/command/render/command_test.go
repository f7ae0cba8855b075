package render

import (
	"bytes"
	"context"
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
	err := app.Run(context.Background(), append([]string{"htmlstream", "render"}, args...))

	return out.String(), err
}

func TestRender_About(t *testing.T) {
	out, err := run(t)
	require.NoError(t, err)

	assert.Contains(t, out, "<!doctype html>")
	assert.Contains(t, out, "<h1>About htmlstream</h1>")
	assert.Contains(t, out, "</html>\n")
}

func TestRender_IndexToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")

	_, err := run(t, "--store-dsn", filepath.Join(dir, "guestbook.db"), "-o", path, "index")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<h1>Guestbook</h1>")
	assert.Contains(t, string(data), "0 entries")
}

func TestRender_UnknownPage(t *testing.T) {
	_, err := run(t, "missing")
	assert.ErrorIs(t, err, ErrUnknownPage)
}
