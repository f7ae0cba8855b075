// Package render 提供离线渲染页面的命令。
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/natefinch/atomic"
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-htmlstream/internal/command"
	"github.com/lwmacct/251207-go-pkg-htmlstream/internal/config"
	"github.com/lwmacct/251207-go-pkg-htmlstream/internal/guestbook"
	"github.com/lwmacct/251207-go-pkg-htmlstream/internal/site"
	"github.com/lwmacct/251207-go-pkg-htmlstream/pkg/htmlstream"
)

// ErrUnknownPage 未知的页面名称。
var ErrUnknownPage = errors.New("unknown page")

// Command 渲染命令
var Command = newCommand()

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "将页面渲染到标准输出或文件",
		ArgsUsage: "[about|index]",
		Action:    action,
		Flags: []cli.Flag{
			command.ConfigFlag(),
			&cli.StringFlag{
				Name:  "store-dsn",
				Value: command.Defaults.Store.DSN,
				Usage: "SQLite 数据源，渲染 index 时使用",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "输出文件，原子写入；默认写到标准输出",
			},
		},
	}
}

func action(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadCmd(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	page := cmd.Args().First()
	if page == "" {
		page = "about"
	}

	var (
		seq   *htmlstream.Sequence
		store *guestbook.Store
	)
	switch page {
	case "about":
		seq, err = site.New(nil).About()
	case "index":
		store, err = guestbook.Open(ctx, cfg.Store.DSN)
		if err != nil {
			return fmt.Errorf("open guestbook: %w", err)
		}
		defer store.Close()
		seq, err = site.New(store).Index(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPage, page)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	r := htmlstream.NewReader(ctx, seq)
	defer r.Close()

	if path := cmd.String("output"); path != "" {
		if err := atomic.WriteFile(path, r); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		slog.Info("Page rendered", "page", page, "path", path)

		return nil
	}

	_, err = io.Copy(cmd.Root().Writer, r)

	return err
}
