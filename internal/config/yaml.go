package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/natefinch/atomic"
	yamlv3 "go.yaml.in/yaml/v3"
)

const exampleHeader = "配置示例文件, 复制此文件为 config.yaml 并根据需要修改"

// Marshal 将配置编码为带注释的 YAML，注释取自 desc 标签。
func Marshal(cfg Config) ([]byte, error) {
	root, err := yamlNode(reflect.ValueOf(cfg))
	if err != nil {
		return nil, err
	}

	return encodeNode(root)
}

// ExampleYAML 返回默认配置的 YAML 示例。
func ExampleYAML() ([]byte, error) {
	root, err := yamlNode(reflect.ValueOf(DefaultConfig()))
	if err != nil {
		return nil, err
	}
	root.HeadComment = exampleHeader

	return encodeNode(root)
}

// WriteExample 将 [ExampleYAML] 原子地写入 path。
//
// 文件已存在且 force 为 false 时返回 fs.ErrExist。
func WriteExample(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("write %s: %w", path, fs.ErrExist)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", path, err)
		}
	}

	data, err := ExampleYAML()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create config dir %s: %w", dir, err)
		}
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

func encodeNode(root *yamlv3.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yamlv3.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func yamlNode(val reflect.Value) (*yamlv3.Node, error) {
	node := &yamlv3.Node{Kind: yamlv3.MappingNode}
	typ := val.Type()
	for i := range typ.NumField() {
		field := typ.Field(i)
		key := tagName(field)
		if key == "" || !field.IsExported() {
			continue
		}

		keyNode := &yamlv3.Node{}
		keyNode.SetString(key)
		desc := field.Tag.Get("desc")

		var valNode *yamlv3.Node
		if isSection(field.Type) {
			child, err := yamlNode(val.Field(i))
			if err != nil {
				return nil, err
			}
			valNode = child
			keyNode.HeadComment = desc
		} else {
			scalar, err := scalarNode(val.Field(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("encode %s: %w", key, err)
			}
			valNode = scalar
			valNode.LineComment = desc
		}

		node.Content = append(node.Content, keyNode, valNode)
	}

	return node, nil
}

func scalarNode(v any) (*yamlv3.Node, error) {
	node := &yamlv3.Node{}
	switch v := v.(type) {
	case time.Duration:
		node.SetString(v.String())
	case string:
		node.SetString(v)
	default:
		if err := node.Encode(v); err != nil {
			return nil, err
		}
	}

	return node, nil
}
