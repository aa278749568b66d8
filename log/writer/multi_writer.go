package writer

import (
	"github.com/hatlonely/rdbadmin/refx"
	"github.com/pkg/errors"
)

// MultiWriterOptions 多输出配置
type MultiWriterOptions struct {
	Writers []refx.TypeOptions `cfg:"writers" validate:"min=1"`
}

// MultiWriter 依次写入所有输出器
type MultiWriter struct {
	writers []Writer
}

func NewMultiWriterWithOptions(options *MultiWriterOptions) (*MultiWriter, error) {
	if options == nil || len(options.Writers) == 0 {
		return nil, errors.New("at least one writer is required")
	}

	writers := make([]Writer, 0, len(options.Writers))
	for i := range options.Writers {
		w, err := NewWriterWithOptions(&options.Writers[i])
		if err != nil {
			for _, created := range writers {
				_ = created.Close()
			}
			return nil, errors.WithMessagef(err, "failed to create writer %d", i)
		}
		writers = append(writers, w)
	}

	return NewMultiWriter(writers...), nil
}

func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

func (m *MultiWriter) Write(p []byte) (int, error) {
	for i, w := range m.writers {
		if _, err := w.Write(p); err != nil {
			return 0, errors.Wrapf(err, "writer %d failed", i)
		}
	}
	return len(p), nil
}

func (m *MultiWriter) Close() error {
	var lastErr error
	for i, w := range m.writers {
		if err := w.Close(); err != nil {
			lastErr = errors.Wrapf(err, "failed to close writer %d", i)
		}
	}
	return lastErr
}
