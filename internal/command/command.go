// Package command 提供 htmlstream 各子命令的公共部分。
package command

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-htmlstream/internal/config"
)

// Defaults 为默认配置的单一来源。
var Defaults = config.DefaultConfig()

// ConfigFlag 指定配置文件路径，各子命令共用。
func ConfigFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    config.FlagConfig,
		Aliases: []string{"c"},
		Usage:   "配置文件路径，默认按搜索路径查找",
		Sources: cli.EnvVars(config.EnvPrefix + "CONFIG"),
	}
}

// DebugFlag 启用调试日志。
func DebugFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "debug",
		Usage:   "输出调试日志",
		Sources: cli.EnvVars(config.EnvPrefix + "DEBUG"),
	}
}

// SetupLogger 根据 --debug 设置默认 slog 日志器，日志写入 stderr。
func SetupLogger(cmd *cli.Command) {
	level := slog.LevelInfo
	if cmd.Bool("debug") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
