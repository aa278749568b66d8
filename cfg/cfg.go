package cfg

import (
	"os"

	"github.com/hatlonely/rdbadmin/cfg/decoder"
	"github.com/hatlonely/rdbadmin/cfg/storage"
	"github.com/hatlonely/rdbadmin/cfg/validator"
	"github.com/pkg/errors"
)

// LoadOptions 配置加载选项
//
// 配置优先级（从低到高）：def 默认值 < 文件 < 环境变量
type LoadOptions struct {
	// File 配置文件路径，为空时只使用默认值和环境变量
	// 格式由扩展名决定：.yaml/.yml .json .toml .ini .env
	File string
	// EnvPrefix 环境变量前缀，如 "RDBADMIN_"；为空时不读取环境变量
	EnvPrefix string
	// Environ 环境变量列表，为 nil 时使用 os.Environ()
	Environ []string
}

// Load 加载配置到 object，object 必须是结构体指针
// 加载完成后按 validate tag 校验
func Load(options *LoadOptions, object any) error {
	if options == nil {
		options = &LoadOptions{}
	}

	data, err := loadFile(options.File)
	if err != nil {
		return err
	}

	if options.EnvPrefix != "" {
		environ := options.Environ
		if environ == nil {
			environ = os.Environ()
		}
		envStorage, err := decoder.NewEnvDecoder(options.EnvPrefix).DecodeEnviron(environ)
		if err != nil {
			return errors.WithMessage(err, "failed to decode environment")
		}
		if env, ok := envStorage.(*storage.MapStorage).Data().(map[string]any); ok {
			data = storage.Merge(data, env)
		}
	}

	if err := storage.NewMapStorage(data).ConvertTo(object); err != nil {
		return errors.WithMessage(err, "failed to bind config")
	}

	if err := validator.ValidateStruct(object); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	return nil
}

// SetDefaults 只按 def tag 填充默认值
func SetDefaults(object any) error {
	return storage.SetDefaults(object)
}

func loadFile(filename string) (map[string]any, error) {
	if filename == "" {
		return map[string]any{}, nil
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", filename)
	}

	d, err := decoder.NewDecoderForFile(filename)
	if err != nil {
		return nil, err
	}

	s, err := d.Decode(content)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to decode config file %s", filename)
	}

	data, _ := s.(*storage.MapStorage).Data().(map[string]any)
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}
