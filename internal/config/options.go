package config

import "github.com/urfave/cli/v3"

// EnvPrefix 环境变量前缀。
const EnvPrefix = "HTMLSTREAM_"

// FlagConfig 指定配置文件路径的 CLI flag 名称。
const FlagConfig = "config"

// options 配置加载选项。
type options struct {
	cmd         *cli.Command
	configPaths []string
	envPrefix   string
	expand      bool
}

// Option 配置加载选项函数。
type Option func(*options)

// WithCommand 绑定 CLI 命令，读取显式设置的 flags 以覆盖配置（最高优先级）。
//
// 若命令设置了 --config，则只读取该文件，文件不存在视为错误。
func WithCommand(cmd *cli.Command) Option {
	return func(o *options) {
		o.cmd = cmd
	}
}

// WithConfigPaths 设置配置文件搜索路径，按顺序查找，命中首个文件即停止。
func WithConfigPaths(paths ...string) Option {
	return func(o *options) {
		o.configPaths = paths
	}
}

// WithEnvPrefix 启用环境变量覆盖。
//
// 示例 (前缀为 "HTMLSTREAM_")：
//   - HTMLSTREAM_SERVER_ADDR → server.addr
//   - HTMLSTREAM_STORE_DSN → store.dsn
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// WithoutExpansion 禁用配置文件中的 ${VAR} 展开。
func WithoutExpansion() Option {
	return func(o *options) {
		o.expand = false
	}
}
