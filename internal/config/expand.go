package config

import (
	"fmt"
	"strings"
)

// expand 展开配置文件中的 ${NAME} 形式环境变量引用。
//
// 支持的形式：
//   - ${NAME} - 变量值，未设置时为空
//   - ${NAME:-word} - 变量为空或未设置时使用 word
//   - ${NAME-word} - 变量未设置时使用 word
//   - ${NAME:+word} - 变量非空时使用 word，否则为空
//   - ${NAME:?msg} - 变量为空或未设置时返回错误
//
// word 本身可以继续嵌套 ${...}。无法识别的表达式原样保留。
func expand(text string, lookup func(string) (string, bool)) (string, error) {
	var b strings.Builder
	for {
		start := strings.Index(text, "${")
		if start < 0 {
			break
		}
		end := closingBrace(text, start+2)
		if end < 0 {
			break
		}

		b.WriteString(text[:start])
		val, err := expandExpr(text[start+2:end], lookup)
		if err != nil {
			return "", err
		}
		b.WriteString(val)
		text = text[end+1:]
	}
	b.WriteString(text)

	return b.String(), nil
}

func closingBrace(text string, from int) int {
	depth := 1
	for i := from; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

func expandExpr(expr string, lookup func(string) (string, bool)) (string, error) {
	n := 0
	for n < len(expr) && isNameChar(expr[n], n == 0) {
		n++
	}
	if n == 0 {
		return "${" + expr + "}", nil
	}

	name, op := expr[:n], expr[n:]
	val, set := lookup(name)

	switch {
	case op == "":
		return val, nil
	case strings.HasPrefix(op, ":-"):
		if val == "" {
			return expand(op[2:], lookup)
		}
		return val, nil
	case strings.HasPrefix(op, ":+"):
		if val != "" {
			return expand(op[2:], lookup)
		}
		return "", nil
	case strings.HasPrefix(op, ":?"):
		if val == "" {
			msg := op[2:]
			if msg == "" {
				msg = "parameter null or not set"
			}
			return "", fmt.Errorf("%s: %s", name, msg)
		}
		return val, nil
	case op[0] == '-':
		if !set {
			return expand(op[1:], lookup)
		}
		return val, nil
	default:
		return "${" + expr + "}", nil
	}
}

func isNameChar(ch byte, first bool) bool {
	if ch == '_' || (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') {
		return true
	}

	return !first && ch >= '0' && ch <= '9'
}
