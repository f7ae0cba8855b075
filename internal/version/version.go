// Package version 提供构建版本信息与 version 子命令。
package version

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/urfave/cli/v3"
)

// AppRawName 应用名称，用于默认配置路径与命令名。
const AppRawName = "htmlstream"

// Version 构建时通过 -ldflags "-X .../internal/version.Version=v1.2.3" 注入。
var Version = ""

// GetVersion 返回版本号，未注入时回退到模块构建信息。
func GetVersion() string {
	if Version != "" {
		return Version
	}

	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "(devel)"
	}

	return info.Main.Version
}

// Revision 返回构建时的 VCS 修订号，未知时为空。
func Revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}

	return ""
}

// Command version 子命令。
var Command = &cli.Command{
	Name:  "version",
	Usage: "显示版本信息",
	Action: func(_ context.Context, cmd *cli.Command) error {
		out := cmd.Root().Writer
		if rev := Revision(); rev != "" {
			_, err := fmt.Fprintf(out, "%s %s (%s)\n", AppRawName, GetVersion(), rev)
			return err
		}
		_, err := fmt.Fprintf(out, "%s %s\n", AppRawName, GetVersion())

		return err
	},
}
