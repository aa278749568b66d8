package crud

import (
	"context"

	"github.com/hatlonely/rdbadmin/rdb"
)

// Service 按表名执行增删改查，表名在运行时给出
type Service interface {
	// Tables 允许访问的表，按配置顺序
	Tables() []string

	Columns(ctx context.Context, table string) (rdb.ColumnSchema, error)
	Show(ctx context.Context, table string) (*rdb.ResultSet, error)
	Search(ctx context.Context, table, column, value string) (*rdb.ResultSet, error)
	Get(ctx context.Context, table string, key any) (*rdb.ResultSet, error)

	// Insert values 与列一一对应
	Insert(ctx context.Context, table string, values []any) (*rdb.Outcome, error)
	// Update values[0] 是主键，不会被修改
	Update(ctx context.Context, table string, values []any) (*rdb.Outcome, error)
	// Delete 按第一列删除，主键不存在时成功且 RowsAffected 为 0
	Delete(ctx context.Context, table string, key any) (*rdb.Outcome, error)

	// RunRaw 只允许 SELECT
	RunRaw(ctx context.Context, table, sql string) (*rdb.ResultSet, error)
	Export(ctx context.Context, table, format, path string) (*rdb.Outcome, error)

	Execute(ctx context.Context, req *Request) (*Response, error)
}
