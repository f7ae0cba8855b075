// Package server 提供 HTTP 服务器命令。
package server

import (
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-htmlstream/internal/command"
)

// Command 服务器命令
var Command = newCommand()

func newCommand() *cli.Command {
	return &cli.Command{
		Name:   "server",
		Usage:  "启动流式留言板 HTTP 服务器",
		Action: action,
		Flags: []cli.Flag{
			command.ConfigFlag(),
			&cli.StringFlag{
				Name:    "server-addr",
				Aliases: []string{"a"},
				Value:   command.Defaults.Server.Addr,
				Usage:   "服务器监听地址",
			},
			&cli.DurationFlag{
				Name:  "server-timeout",
				Value: command.Defaults.Server.Timeout,
				Usage: "HTTP 读写超时",
			},
			&cli.DurationFlag{
				Name:  "server-idletime",
				Value: command.Defaults.Server.Idletime,
				Usage: "HTTP 空闲超时",
			},
			&cli.BoolFlag{
				Name:  "server-gzip",
				Value: command.Defaults.Server.Gzip,
				Usage: "启用 gzip 压缩（仍按片段刷新）",
			},
			&cli.DurationFlag{
				Name:  "server-drip",
				Value: command.Defaults.Server.Drip,
				Usage: "逐条输出留言的间隔，用于观察流式效果",
			},
			&cli.StringFlag{
				Name:  "store-dsn",
				Value: command.Defaults.Store.DSN,
				Usage: "SQLite 数据源",
			},
		},
	}
}
