package export

import (
	"time"

	"github.com/hatlonely/rdbadmin/rdb"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

type XLSXExporterOptions struct {
	Sheet string `cfg:"sheet" def:"Sheet1" validate:"max=31"`
}

// XLSXExporter 使用 excelize 的流式写入，数字和时间保留原始类型
type XLSXExporter struct {
	sheet string
}

func NewXLSXExporterWithOptions(options *XLSXExporterOptions) (*XLSXExporter, error) {
	sheet := defaultSheet
	if options != nil && options.Sheet != "" {
		sheet = options.Sheet
	}
	return &XLSXExporter{sheet: sheet}, nil
}

func (e *XLSXExporter) Export(rs *rdb.ResultSet, path string) error {
	if rs == nil {
		return rdb.ExportError("result set is nil")
	}

	f := excelize.NewFile()
	defer f.Close()

	if e.sheet != defaultSheet {
		index, err := f.NewSheet(e.sheet)
		if err != nil {
			return rdb.WrapExport(err, "failed to create sheet %s", e.sheet)
		}
		f.SetActiveSheet(index)
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return rdb.WrapExport(err, "failed to delete sheet %s", defaultSheet)
		}
	}

	sw, err := f.NewStreamWriter(e.sheet)
	if err != nil {
		return rdb.WrapExport(err, "failed to create stream writer")
	}

	header := make([]any, len(rs.Columns))
	for i, col := range rs.Columns {
		header[i] = col
	}
	if err := sw.SetRow("A1", header); err != nil {
		return rdb.WrapExport(err, "failed to write header")
	}

	for i, row := range rs.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return rdb.WrapExport(err, "row %d", i+1)
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = cellValue(v)
		}
		if err := sw.SetRow(cell, values); err != nil {
			return rdb.WrapExport(err, "failed to write row %d", i+1)
		}
	}

	if err := sw.Flush(); err != nil {
		return rdb.WrapExport(err, "failed to flush sheet")
	}
	if err := f.SaveAs(path); err != nil {
		return rdb.WrapExport(err, "failed to save %s", path)
	}
	return nil
}

func cellValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string, bool, time.Time,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return val
	}
	return rdb.FormatValue(v)
}
