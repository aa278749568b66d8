package schema

import (
	"context"

	"github.com/hatlonely/rdbadmin/rdb"
	"github.com/hatlonely/rdbadmin/rdb/conn"
	"github.com/hatlonely/rdbadmin/rdb/query"
)

// Introspector 通过 LIMIT 1 探测语句读取表的列，结果不缓存
type Introspector struct {
	provider *conn.Provider
	builder  *query.Builder
}

func NewIntrospector(provider *conn.Provider, builder *query.Builder) *Introspector {
	return &Introspector{provider: provider, builder: builder}
}

// ColumnsOf 返回列名，空表同样可以读到列
// 表不存在或无权访问时返回 ErrSchema，连接失败返回 ErrQueryExecution
func (i *Introspector) ColumnsOf(ctx context.Context, t rdb.TableHandle) (rdb.ColumnSchema, error) {
	if t.IsZero() {
		return nil, rdb.SchemaError("table is not set")
	}

	stmt := i.builder.Probe(t)

	var columns rdb.ColumnSchema
	err := i.provider.With(ctx, func(c *conn.Conn) error {
		rows, err := c.QueryContext(ctx, stmt.SQL, stmt.Args...)
		if err != nil {
			return rdb.WrapSchema(err, "failed to probe table %s", t.Name())
		}
		defer rows.Close()

		cols, err := rows.Columns()
		if err != nil {
			return rdb.WrapSchema(err, "failed to read columns of %s", t.Name())
		}
		columns = rdb.ColumnSchema(cols)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, rdb.SchemaError("table %s has no columns", t.Name())
	}
	return columns, nil
}
