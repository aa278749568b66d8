package decoder

import (
	"github.com/hatlonely/rdbadmin/cfg/storage"
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

// IniDecoder INI 格式解码器
// section 映射为一级 key，值统一为字符串，由 storage 负责类型转换
// 重复的 key 合并为列表
type IniDecoder struct{}

func NewIniDecoder() *IniDecoder {
	return &IniDecoder{}
}

func (i *IniDecoder) Decode(data []byte) (storage.Storage, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		AllowShadows:             true,
		SpaceBeforeInlineComment: true,
	}, data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode INI")
	}

	result := make(map[string]any)
	for _, section := range file.Sections() {
		target := result
		if section.Name() != ini.DefaultSection {
			target = make(map[string]any)
			result[section.Name()] = target
		}
		for _, key := range section.Keys() {
			values := key.ValueWithShadows()
			if len(values) > 1 {
				items := make([]any, len(values))
				for idx, v := range values {
					items[idx] = v
				}
				target[key.Name()] = items
				continue
			}
			target[key.Name()] = key.String()
		}
	}

	return storage.NewMapStorage(result), nil
}
