package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-htmlstream/internal/config"
)

// ErrUnhealthy 服务器健康检查未通过。
var ErrUnhealthy = errors.New("server unhealthy")

func action(_ context.Context, cmd *cli.Command) error {
	return cli.ShowSubcommandHelp(cmd)
}

func load(cmd *cli.Command) (*config.Config, *http.Client, error) {
	cfg, err := config.LoadCmd(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	return cfg, &http.Client{Timeout: cfg.Client.Timeout}, nil
}

func healthAction(ctx context.Context, cmd *cli.Command) error {
	cfg, client, err := load(cmd)
	if err != nil {
		return err
	}

	target, err := resolve(cfg.Client.URL, "/health")
	if err != nil {
		return err
	}

	attempts := max(cfg.Client.Retries, 0) + 1
	for attempt := 1; ; attempt++ {
		err = checkHealth(ctx, client, target)
		if err == nil {
			_, err = fmt.Fprintln(cmd.Root().Writer, "ok")
			return err
		}
		if attempt >= attempts {
			return err
		}

		slog.Warn("Health check failed, retrying", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
		}
	}
}

func checkHealth(ctx context.Context, client *http.Client, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s", ErrUnhealthy, resp.Status)
	}

	return nil
}

func getAction(ctx context.Context, cmd *cli.Command) error {
	cfg, client, err := load(cmd)
	if err != nil {
		return err
	}

	path := cmd.Args().First()
	if path == "" {
		path = "/"
	}
	target, err := resolve(cfg.Client.URL, path)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", target, err)
	}
	defer resp.Body.Close()

	slog.Debug("Response", "url", target, "status", resp.StatusCode)

	if _, err := io.Copy(cmd.Root().Writer, resp.Body); err != nil {
		return fmt.Errorf("read %s: %w", target, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("get %s: %s", target, resp.Status)
	}

	return nil
}

// resolve 将 path 拼接到服务器地址上，base 缺少 scheme 时补全为 http。
func resolve(base, path string) (string, error) {
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid server url %q: %w", base, err)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	return u.ResolveReference(ref).String(), nil
}
