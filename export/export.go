// Package export 把 ResultSet 写成 csv 或 xlsx 文件
package export

import (
	"path/filepath"

	"github.com/hatlonely/rdbadmin/rdb"
	"github.com/hatlonely/rdbadmin/refx"
)

// Namespace 导出器在 refx 中注册的命名空间
const Namespace = "github.com/hatlonely/rdbadmin/export"

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

func init() {
	refx.MustRegister(Namespace, FormatCSV, NewCSVExporterWithOptions)
	refx.MustRegister(Namespace, FormatXLSX, NewXLSXExporterWithOptions)
}

// Exporter 第一行是表头，之后每行对应一条记录
type Exporter interface {
	Export(rs *rdb.ResultSet, path string) error
}

// NewExporterWithOptions Type 为导出格式，Namespace 为空时使用本包
func NewExporterWithOptions(options *refx.TypeOptions) (Exporter, error) {
	if options == nil {
		return nil, rdb.ExportError("exporter options is nil")
	}
	if options.Namespace == "" {
		o := *options
		o.Namespace = Namespace
		options = &o
	}
	e, err := refx.NewT[Exporter](options)
	if err != nil {
		return nil, rdb.WrapExport(err, "unsupported format %q", options.Type)
	}
	return e, nil
}

// Export 使用默认配置导出
func Export(rs *rdb.ResultSet, format, path string) error {
	e, err := NewExporterWithOptions(&refx.TypeOptions{Type: format})
	if err != nil {
		return err
	}
	return e.Export(rs, path)
}

// DefaultExtension 格式对应的扩展名，未知格式返回空串
func DefaultExtension(format string) string {
	switch format {
	case FormatCSV:
		return ".csv"
	case FormatXLSX:
		return ".xlsx"
	}
	return ""
}

// WithDefaultExtension path 没有扩展名时补上格式对应的扩展名
func WithDefaultExtension(path, format string) string {
	if filepath.Ext(path) != "" {
		return path
	}
	return path + DefaultExtension(format)
}
