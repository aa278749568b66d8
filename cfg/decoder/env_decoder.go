package decoder

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/hatlonely/rdbadmin/cfg/storage"
	"github.com/pkg/errors"
)

// EnvDecoder KEY=VALUE 格式解码器
// 只处理带 Prefix 的变量，去掉前缀后按 "_" 拆成层级 key 并转成小写，
// 例如 RDBADMIN_DATABASE_PASSWORD 对应 database.password
type EnvDecoder struct {
	Prefix string
}

func NewEnvDecoder(prefix string) *EnvDecoder {
	return &EnvDecoder{Prefix: prefix}
}

func (e *EnvDecoder) Decode(data []byte) (storage.Storage, error) {
	result := make(map[string]any)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, errors.Errorf("invalid format at line %d: missing '=' separator", lineNum)
		}
		key = strings.TrimSpace(key)
		if !strings.HasPrefix(key, e.Prefix) {
			continue
		}
		key = strings.TrimPrefix(key, e.Prefix)
		if key == "" {
			continue
		}

		e.set(result, strings.Split(strings.ToLower(key), "_"), unquote(strings.TrimSpace(value)))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to scan env data")
	}

	return storage.NewMapStorage(result), nil
}

// DecodeEnviron 解码 os.Environ() 形式的变量列表
func (e *EnvDecoder) DecodeEnviron(environ []string) (storage.Storage, error) {
	return e.Decode([]byte(strings.Join(environ, "\n")))
}

func (e *EnvDecoder) set(m map[string]any, path []string, value string) {
	for i, part := range path {
		if part == "" {
			continue
		}
		if i == len(path)-1 {
			m[part] = value
			return
		}
		child, ok := m[part].(map[string]any)
		if !ok {
			child = make(map[string]any)
			m[part] = child
		}
		m = child
	}
}

func unquote(value string) string {
	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') || (value[0] == '\'' && value[len(value)-1] == '\'') {
			return value[1 : len(value)-1]
		}
	}
	return value
}
