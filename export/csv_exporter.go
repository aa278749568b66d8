package export

import (
	"encoding/csv"
	"os"
	"unicode/utf8"

	"github.com/hatlonely/rdbadmin/rdb"
)

type CSVExporterOptions struct {
	// 字段分隔符，只取第一个字符
	Comma   string `cfg:"comma" def:","`
	UseCRLF bool   `cfg:"useCRLF"`
}

type CSVExporter struct {
	comma   rune
	useCRLF bool
}

func NewCSVExporterWithOptions(options *CSVExporterOptions) (*CSVExporter, error) {
	e := &CSVExporter{comma: ','}
	if options == nil {
		return e, nil
	}
	if options.Comma != "" {
		r, _ := utf8.DecodeRuneInString(options.Comma)
		if r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
			return nil, rdb.ExportError("invalid csv separator %q", options.Comma)
		}
		e.comma = r
	}
	e.useCRLF = options.UseCRLF
	return e, nil
}

func (e *CSVExporter) Export(rs *rdb.ResultSet, path string) error {
	if rs == nil {
		return rdb.ExportError("result set is nil")
	}

	f, err := os.Create(path)
	if err != nil {
		return rdb.WrapExport(err, "failed to create %s", path)
	}

	w := csv.NewWriter(f)
	w.Comma = e.comma
	w.UseCRLF = e.useCRLF

	records := append([][]string{rs.Columns}, rs.Strings()...)
	if err := w.WriteAll(records); err != nil {
		_ = f.Close()
		return rdb.WrapExport(err, "failed to write %s", path)
	}

	if err := f.Close(); err != nil {
		return rdb.WrapExport(err, "failed to close %s", path)
	}
	return nil
}
