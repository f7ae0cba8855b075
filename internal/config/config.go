// Package config 提供应用配置管理。
//
// 配置加载优先级 (从低到高)：
//  1. 默认值 - DefaultConfig() 函数中定义
//  2. 配置文件 - 通过 WithConfigPaths 选项或 --config flag 设置
//  3. 环境变量 - 通过 WithEnvPrefix 选项启用
//  4. CLI flags - 通过 WithCommand 选项设置
package config

import (
	"time"
)

// Config 应用配置。
type Config struct {
	Server ServerConfig `json:"server" desc:"服务端配置"`
	Client ClientConfig `json:"client" desc:"客户端配置"`
	Store  StoreConfig  `json:"store" desc:"留言板存储"`
}

// ServerConfig 服务端配置。
type ServerConfig struct {
	Addr     string        `json:"addr" desc:"服务器监听地址"`
	Timeout  time.Duration `json:"timeout" desc:"HTTP 读写超时"`
	Idletime time.Duration `json:"idletime" desc:"HTTP 空闲超时"`
	Gzip     bool          `json:"gzip" desc:"启用 gzip 压缩"`
	Drip     time.Duration `json:"drip" desc:"逐条输出留言的间隔，0 表示不等待"`
}

// ClientConfig 客户端配置。
type ClientConfig struct {
	URL     string        `json:"url" desc:"服务器地址"`
	Timeout time.Duration `json:"timeout" desc:"请求超时时间"`
	Retries int           `json:"retries" desc:"重试次数"`
}

// StoreConfig 存储配置。
type StoreConfig struct {
	DSN string `json:"dsn" desc:"SQLite 数据源，可以是文件路径或 :memory:"`
}

// DefaultConfig 返回默认配置。
// 注意：internal/command/command.go 中的 Defaults 变量引用此函数以实现单一配置来源。
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:     ":40117",
			Timeout:  15 * time.Second,
			Idletime: 60 * time.Second,
		},
		Client: ClientConfig{
			URL:     "http://localhost:40117",
			Timeout: 30 * time.Second,
			Retries: 3,
		},
		Store: StoreConfig{
			DSN: "data/guestbook.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		},
	}
}
