package decoder

import (
	"github.com/BurntSushi/toml"
	"github.com/hatlonely/rdbadmin/cfg/storage"
	"github.com/pkg/errors"
)

// TomlDecoder TOML 格式解码器
type TomlDecoder struct{}

func NewTomlDecoder() *TomlDecoder {
	return &TomlDecoder{}
}

func (t *TomlDecoder) Decode(data []byte) (storage.Storage, error) {
	var result map[string]any
	if err := toml.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrap(err, "failed to decode TOML")
	}
	return storage.NewMapStorage(result), nil
}
