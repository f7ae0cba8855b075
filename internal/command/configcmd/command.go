// Package configcmd 提供配置文件相关的命令。
package configcmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-htmlstream/internal/command"
	"github.com/lwmacct/251207-go-pkg-htmlstream/internal/config"
)

// Command 配置命令
var Command = newCommand()

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "配置文件管理",
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "生成带注释的示例配置文件",
				ArgsUsage: "[path]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "覆盖已存在的文件",
					},
				},
				Action: initAction,
			},
			{
				Name:   "show",
				Usage:  "输出合并后的最终配置",
				Flags:  []cli.Flag{command.ConfigFlag()},
				Action: showAction,
			},
		},
	}
}

func initAction(_ context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		path = "config.yaml"
	}

	if err := config.WriteExample(path, cmd.Bool("force")); err != nil {
		return err
	}
	slog.Info("Config file written", "path", path)

	return nil
}

func showAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadCmd(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	data, err := config.Marshal(*cfg)
	if err != nil {
		return err
	}
	_, err = cmd.Root().Writer.Write(data)

	return err
}
