package log

import (
	"github.com/hatlonely/rdbadmin/log/logger"
)

var defaultLogger logger.Logger

func init() {
	l, err := logger.NewSLogWithOptions(&logger.SLogOptions{
		Level:  "info",
		Format: "text",
	})
	if err != nil {
		panic("failed to initialize default logger: " + err.Error())
	}
	defaultLogger = l
}

// Default 返回输出到 stderr 的 text/info 日志器
func Default() logger.Logger {
	return defaultLogger
}

// NewLoggerWithOptions 按配置创建日志器，options 为 nil 时返回默认日志器
func NewLoggerWithOptions(options *logger.SLogOptions) (logger.Logger, error) {
	if options == nil {
		return Default(), nil
	}
	return logger.NewSLogWithOptions(options)
}

// OrDefault 组件未注入日志器时使用默认日志器
func OrDefault(l logger.Logger) logger.Logger {
	if l == nil {
		return Default()
	}
	return l
}
