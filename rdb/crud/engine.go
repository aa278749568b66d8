package crud

import (
	"context"
	"fmt"
	"strings"

	"github.com/hatlonely/rdbadmin/export"
	"github.com/hatlonely/rdbadmin/rdb"
	"github.com/hatlonely/rdbadmin/rdb/conn"
	"github.com/hatlonely/rdbadmin/rdb/query"
	"github.com/hatlonely/rdbadmin/rdb/result"
	"github.com/hatlonely/rdbadmin/rdb/schema"
)

type EngineOptions struct {
	Tables []string `cfg:"tables" def:"Station,Train,Route,Passenger,Ticket,Payment" validate:"min=1,dive,required" help:"tables that may be accessed"`
}

// Engine 每次调用都重新读取表结构，除了表集合外没有共享状态
type Engine struct {
	tables       *rdb.TableSet
	builder      *query.Builder
	introspector *schema.Introspector
	materializer *result.Materializer
}

func NewEngineWithOptions(options *EngineOptions, provider *conn.Provider) (*Engine, error) {
	if options == nil {
		options = &EngineOptions{Tables: rdb.DefaultTables}
	}
	tables, err := rdb.NewTableSet(options.Tables...)
	if err != nil {
		return nil, err
	}
	return NewEngine(tables, provider), nil
}

func NewEngine(tables *rdb.TableSet, provider *conn.Provider) *Engine {
	builder := query.NewBuilder(provider.Driver())
	return &Engine{
		tables:       tables,
		builder:      builder,
		introspector: schema.NewIntrospector(provider, builder),
		materializer: result.NewMaterializer(provider),
	}
}

func (e *Engine) Tables() []string {
	return e.tables.Names()
}

func (e *Engine) Columns(ctx context.Context, table string) (rdb.ColumnSchema, error) {
	t, err := e.tables.Handle(table)
	if err != nil {
		return nil, err
	}
	return e.introspector.ColumnsOf(ctx, t)
}

func (e *Engine) Show(ctx context.Context, table string) (*rdb.ResultSet, error) {
	t, err := e.tables.Handle(table)
	if err != nil {
		return nil, err
	}
	return e.materializer.Fetch(ctx, e.builder.SelectAll(t))
}

func (e *Engine) Search(ctx context.Context, table, column, value string) (*rdb.ResultSet, error) {
	t, err := e.tables.Handle(table)
	if err != nil {
		return nil, err
	}

	column = strings.TrimSpace(column)
	value = strings.TrimSpace(value)
	if column == "" || value == "" {
		return nil, rdb.ValidationError("please select a column and enter a search value")
	}

	columns, err := e.introspector.ColumnsOf(ctx, t)
	if err != nil {
		return nil, err
	}
	stmt, err := e.builder.Search(t, columns, column, value)
	if err != nil {
		return nil, err
	}
	return e.materializer.Fetch(ctx, stmt)
}

func (e *Engine) Get(ctx context.Context, table string, key any) (*rdb.ResultSet, error) {
	t, err := e.tables.Handle(table)
	if err != nil {
		return nil, err
	}
	if isEmptyKey(key) {
		return nil, rdb.ValidationError("key is empty")
	}

	columns, err := e.introspector.ColumnsOf(ctx, t)
	if err != nil {
		return nil, err
	}
	return e.materializer.Fetch(ctx, e.builder.SelectByKey(t, columns.Key(), key))
}

func (e *Engine) Insert(ctx context.Context, table string, values []any) (*rdb.Outcome, error) {
	t, err := e.tables.Handle(table)
	if err != nil {
		return nil, err
	}

	columns, err := e.introspector.ColumnsOf(ctx, t)
	if err != nil {
		return nil, err
	}
	stmt, err := e.builder.Insert(t, columns, values)
	if err != nil {
		return nil, err
	}

	affected, err := e.materializer.Exec(ctx, stmt)
	if err != nil {
		return nil, err
	}
	return &rdb.Outcome{
		Action:       rdb.ActionInsert,
		Table:        t.Name(),
		RowsAffected: affected,
		Message:      "Insert successful",
	}, nil
}

func (e *Engine) Update(ctx context.Context, table string, values []any) (*rdb.Outcome, error) {
	t, err := e.tables.Handle(table)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 || isEmptyKey(values[0]) {
		return nil, rdb.ValidationError("no row selected")
	}

	columns, err := e.introspector.ColumnsOf(ctx, t)
	if err != nil {
		return nil, err
	}
	stmt, err := e.builder.Update(t, columns, values)
	if err != nil {
		return nil, err
	}

	affected, err := e.materializer.Exec(ctx, stmt)
	if err != nil {
		return nil, err
	}
	return &rdb.Outcome{
		Action:       rdb.ActionUpdate,
		Table:        t.Name(),
		RowsAffected: affected,
		Message:      "Update successful",
	}, nil
}

func (e *Engine) Delete(ctx context.Context, table string, key any) (*rdb.Outcome, error) {
	t, err := e.tables.Handle(table)
	if err != nil {
		return nil, err
	}
	if isEmptyKey(key) {
		return nil, rdb.ValidationError("no row selected")
	}

	columns, err := e.introspector.ColumnsOf(ctx, t)
	if err != nil {
		return nil, err
	}

	affected, err := e.materializer.Exec(ctx, e.builder.Delete(t, columns.Key(), key))
	if err != nil {
		return nil, err
	}

	message := "Record deleted from " + t.Name()
	if affected == 0 {
		message = "No record deleted from " + t.Name()
	}
	return &rdb.Outcome{
		Action:       rdb.ActionDelete,
		Table:        t.Name(),
		RowsAffected: affected,
		Message:      message,
	}, nil
}

// RunRaw table 只用于校验和日志，语句本身可以查询任意表
func (e *Engine) RunRaw(ctx context.Context, table, sql string) (*rdb.ResultSet, error) {
	if _, err := e.tables.Handle(table); err != nil {
		return nil, err
	}

	stmt, err := e.builder.Passthrough(sql)
	if err != nil {
		return nil, err
	}
	return e.materializer.Fetch(ctx, stmt)
}

func (e *Engine) Export(ctx context.Context, table, format, path string) (*rdb.Outcome, error) {
	if export.DefaultExtension(format) == "" {
		return nil, rdb.ExportError("unsupported format %q", format)
	}
	if path == "" {
		return nil, rdb.ValidationError("export path is empty")
	}

	rs, err := e.Show(ctx, table)
	if err != nil {
		return nil, err
	}
	if err := export.Export(rs, format, path); err != nil {
		return nil, err
	}
	return &rdb.Outcome{
		Action:       rdb.ActionExport,
		Table:        table,
		RowsAffected: int64(rs.Len()),
		Message:      fmt.Sprintf("Exported %d rows to %s", rs.Len(), path),
	}, nil
}

func (e *Engine) Execute(ctx context.Context, req *Request) (*Response, error) {
	return execute(ctx, e, req)
}

func isEmptyKey(key any) bool {
	switch k := key.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(k) == ""
	}
	return false
}
