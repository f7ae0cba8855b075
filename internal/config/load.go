package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/urfave/cli/v3"
	yamlv3 "go.yaml.in/yaml/v3"

	"github.com/lwmacct/251207-go-pkg-htmlstream/internal/version"
)

var durationType = reflect.TypeFor[time.Duration]()

// DefaultPaths 返回默认配置文件的搜索顺序，先命中的文件生效。
//
// 优先级 (从高到低)：
//  1. ./.htmlstream.yaml - 当前目录应用配置
//  2. ~/.htmlstream.yaml - 用户主目录配置
//  3. /etc/htmlstream/config.yaml - 系统级配置
//  4. config.yaml - 当前目录通用配置
//  5. config/config.yaml - 子目录通用配置
func DefaultPaths() []string {
	name := version.AppRawName
	paths := []string{"." + name + ".yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "."+name+".yaml"))
	}

	return append(paths, "/etc/"+name+"/config.yaml", "config.yaml", "config/config.yaml")
}

// Load 读取配置并按优先级合并。
//
// 配置 key 由 json tag 定义，YAML 与 JSON 共享同一套 key；
// 对应的 CLI flag 为 key 中的 "." 替换为 "-"，例如 server.addr → --server-addr。
func Load(opts ...Option) (*Config, error) {
	o := &options{expand: true}
	for _, opt := range opts {
		opt(o)
	}
	if len(o.configPaths) == 0 {
		o.configPaths = DefaultPaths()
	}

	defaults := DefaultConfig()
	data := toMap(reflect.ValueOf(defaults))

	paths, explicit := o.configPaths, false
	if o.cmd != nil && o.cmd.IsSet(FlagConfig) {
		paths, explicit = []string{o.cmd.String(FlagConfig)}, true
	}

	loaded := false
	for _, path := range paths {
		content, err := os.ReadFile(path) //nolint:gosec // path is from trusted config
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}

		if o.expand {
			expanded, err := expand(string(content), os.LookupEnv)
			if err != nil {
				return nil, fmt.Errorf("expand config file %s: %w", path, err)
			}
			content = []byte(expanded)
		}

		fileMap, err := parseConfigBytes(path, content)
		if err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
		mergeMaps(data, fileMap)

		slog.Debug("Loaded config from file", "path", path)
		loaded = true

		break
	}

	if !loaded {
		if explicit {
			return nil, fmt.Errorf("config file %s: %w", paths[0], fs.ErrNotExist)
		}
		slog.Debug("No config file found, using defaults")
	}

	keys := leafKeys(reflect.TypeOf(defaults), "")

	if o.envPrefix != "" {
		for _, key := range keys {
			if val := os.Getenv(EnvName(o.envPrefix, key)); val != "" {
				setByPath(data, key, val)
			}
		}
	}

	if o.cmd != nil {
		for _, key := range keys {
			if flag := FlagName(key); o.cmd.IsSet(flag) {
				setByPath(data, key, o.cmd.Value(flag))
			}
		}
	}

	var cfg Config
	if err := decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return &cfg, nil
}

// LoadCmd 按 CLI 场景加载配置：默认路径、HTMLSTREAM_ 环境变量与命令 flags。
func LoadCmd(cmd *cli.Command, opts ...Option) (*Config, error) {
	return Load(append([]Option{WithCommand(cmd), WithEnvPrefix(EnvPrefix)}, opts...)...)
}

// FlagName 返回配置 key 对应的 CLI flag 名称。
func FlagName(key string) string {
	return strings.ReplaceAll(key, ".", "-")
}

// EnvName 返回配置 key 对应的环境变量名称。
//
// 示例：EnvName("HTMLSTREAM_", "server.addr") → HTMLSTREAM_SERVER_ADDR
func EnvName(prefix, key string) string {
	return prefix + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

func tagName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	return name
}

func isSection(typ reflect.Type) bool {
	return typ.Kind() == reflect.Struct && typ != durationType
}

// leafKeys 递归收集叶子 key，例如 server.addr。
func leafKeys(typ reflect.Type, prefix string) []string {
	var keys []string
	for i := range typ.NumField() {
		field := typ.Field(i)
		key := tagName(field)
		if key == "" {
			continue
		}
		if prefix != "" {
			key = prefix + "." + key
		}

		if isSection(field.Type) {
			keys = append(keys, leafKeys(field.Type, key)...)
			continue
		}
		keys = append(keys, key)
	}

	return keys
}

func toMap(val reflect.Value) map[string]any {
	out := make(map[string]any)
	typ := val.Type()
	for i := range typ.NumField() {
		field := typ.Field(i)
		key := tagName(field)
		if key == "" || !field.IsExported() {
			continue
		}

		if isSection(field.Type) {
			out[key] = toMap(val.Field(i))
			continue
		}
		out[key] = val.Field(i).Interface()
	}

	return out
}

func parseConfigBytes(path string, content []byte) (map[string]any, error) {
	var raw map[string]any
	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(content, &raw)
	} else {
		err = yamlv3.Unmarshal(content, &raw)
	}
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return map[string]any{}, nil
	}

	return raw, nil
}

func mergeMaps(dst, src map[string]any) {
	for key, value := range src {
		if valueMap, ok := value.(map[string]any); ok {
			if dstMap, ok := dst[key].(map[string]any); ok {
				mergeMaps(dstMap, valueMap)
				continue
			}
		}

		dst[key] = value
	}
}

func setByPath(dst map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := dst
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

func decode(data map[string]any, out *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "json",
	})
	if err != nil {
		return err
	}

	return decoder.Decode(data)
}
