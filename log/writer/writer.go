package writer

import (
	"io"

	"github.com/hatlonely/rdbadmin/refx"
)

// Namespace 输出器在 refx 中注册的命名空间
const Namespace = "github.com/hatlonely/rdbadmin/log/writer"

func init() {
	refx.MustRegister(Namespace, "ConsoleWriter", NewConsoleWriterWithOptions)
	refx.MustRegister(Namespace, "FileWriter", NewFileWriterWithOptions)
	refx.MustRegister(Namespace, "MultiWriter", NewMultiWriterWithOptions)
}

// Writer 日志输出器接口
type Writer interface {
	io.Writer
	io.Closer
}

// NewWriterWithOptions 通过 refx 创建输出器，Namespace 为空时使用本包
func NewWriterWithOptions(options *refx.TypeOptions) (Writer, error) {
	if options.Namespace == "" {
		o := *options
		o.Namespace = Namespace
		options = &o
	}
	return refx.NewT[Writer](options)
}
