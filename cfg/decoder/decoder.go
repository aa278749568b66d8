package decoder

import (
	"path/filepath"
	"strings"

	"github.com/hatlonely/rdbadmin/cfg/storage"
	"github.com/pkg/errors"
)

// Decoder 把原始配置数据解码为存储对象
type Decoder interface {
	Decode(data []byte) (storage.Storage, error)
}

// NewDecoderForFile 根据文件扩展名选择解码器
func NewDecoderForFile(filename string) (Decoder, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return NewYamlDecoder(), nil
	case ".json":
		return NewJsonDecoder(), nil
	case ".toml":
		return NewTomlDecoder(), nil
	case ".ini":
		return NewIniDecoder(), nil
	case ".env":
		return NewEnvDecoder(""), nil
	}
	return nil, errors.Errorf("unsupported config file extension %q", filepath.Ext(filename))
}
