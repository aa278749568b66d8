package decoder

import (
	"bytes"
	"encoding/json"

	"github.com/hatlonely/rdbadmin/cfg/storage"
	"github.com/pkg/errors"
)

// JsonDecoder JSON 格式解码器
type JsonDecoder struct{}

func NewJsonDecoder() *JsonDecoder {
	return &JsonDecoder{}
}

func (j *JsonDecoder) Decode(data []byte) (storage.Storage, error) {
	var result map[string]any
	if len(bytes.TrimSpace(data)) == 0 {
		return storage.NewMapStorage(result), nil
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrap(err, "failed to decode JSON")
	}
	return storage.NewMapStorage(result), nil
}
