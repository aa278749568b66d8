package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/hatlonely/rdbadmin/log/writer"
	"github.com/hatlonely/rdbadmin/refx"
	"github.com/pkg/errors"
)

// SLogOptions 日志初始化选项
type SLogOptions struct {
	// 日志级别：debug, info, warn, error
	Level string `cfg:"level" def:"info" validate:"omitempty,oneof=debug info warn warning error"`

	// 输出格式：text, json
	Format string `cfg:"format" def:"text" validate:"omitempty,oneof=text json"`

	// 输出目标，为空时输出到 stderr
	Output *refx.TypeOptions `cfg:"output"`

	// 时间格式，为空时使用 RFC3339
	TimeFormat string `cfg:"timeFormat"`

	// 是否显示调用者信息
	AddSource bool `cfg:"addSource"`

	// 附加到每条日志的字段
	Fields map[string]any `cfg:"fields"`
}

type SLog struct {
	slogger *slog.Logger
	closer  io.Closer
}

func NewSLogWithOptions(options *SLogOptions) (*SLog, error) {
	if options == nil {
		return nil, errors.New("options cannot be nil")
	}

	var w writer.Writer
	var err error
	if options.Output != nil && options.Output.Type != "" {
		w, err = writer.NewWriterWithOptions(options.Output)
		if err != nil {
			return nil, errors.WithMessage(err, "failed to create writer")
		}
	} else {
		w, err = writer.NewConsoleWriterWithOptions(nil)
		if err != nil {
			return nil, errors.WithMessage(err, "failed to create console writer")
		}
	}

	l, err := NewSLogWithWriter(w, options)
	if err != nil {
		_ = w.Close()
		return nil, err
	}
	l.closer = w
	return l, nil
}

// NewSLogWithWriter 输出到指定的 io.Writer，测试时用来捕获日志
func NewSLogWithWriter(w io.Writer, options *SLogOptions) (*SLog, error) {
	if options == nil {
		options = &SLogOptions{}
	}

	level, err := parseLevel(options.Level)
	if err != nil {
		return nil, errors.WithMessage(err, "invalid log level")
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     level,
		AddSource: options.AddSource,
	}
	if options.TimeFormat != "" && options.TimeFormat != time.RFC3339 {
		format := options.TimeFormat
		handlerOpts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String(a.Key, a.Value.Time().Format(format))
			}
			return a
		}
	}

	var handler slog.Handler
	switch strings.ToLower(options.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, handlerOpts)
	case "text", "":
		handler = slog.NewTextHandler(w, handlerOpts)
	default:
		return nil, errors.Errorf("unsupported format: %s", options.Format)
	}

	slogger := slog.New(handler)
	if len(options.Fields) > 0 {
		args := make([]any, 0, len(options.Fields)*2)
		for k, v := range options.Fields {
			args = append(args, k, v)
		}
		slogger = slogger.With(args...)
	}

	return &SLog{slogger: slogger}, nil
}

// NewDiscard 丢弃所有日志
func NewDiscard() *SLog {
	return &SLog{slogger: slog.New(slog.DiscardHandler)}
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, errors.Errorf("unknown level: %s", level)
}

// Close 关闭底层输出器
func (l *SLog) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *SLog) Debug(msg string, args ...any) {
	l.slogger.Debug(msg, args...)
}

func (l *SLog) Info(msg string, args ...any) {
	l.slogger.Info(msg, args...)
}

func (l *SLog) Warn(msg string, args ...any) {
	l.slogger.Warn(msg, args...)
}

func (l *SLog) Error(msg string, args ...any) {
	l.slogger.Error(msg, args...)
}

func (l *SLog) DebugContext(ctx context.Context, msg string, args ...any) {
	l.slogger.DebugContext(ctx, msg, args...)
}

func (l *SLog) InfoContext(ctx context.Context, msg string, args ...any) {
	l.slogger.InfoContext(ctx, msg, args...)
}

func (l *SLog) WarnContext(ctx context.Context, msg string, args ...any) {
	l.slogger.WarnContext(ctx, msg, args...)
}

func (l *SLog) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.slogger.ErrorContext(ctx, msg, args...)
}

func (l *SLog) With(args ...any) Logger {
	return &SLog{slogger: l.slogger.With(args...)}
}

func (l *SLog) WithGroup(name string) Logger {
	return &SLog{slogger: l.slogger.WithGroup(name)}
}
