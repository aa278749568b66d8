package result

import (
	"context"
	"database/sql"

	"github.com/hatlonely/rdbadmin/rdb"
	"github.com/hatlonely/rdbadmin/rdb/conn"
	"github.com/hatlonely/rdbadmin/rdb/query"
)

// Materializer 执行语句，读操作一次性读完所有行
type Materializer struct {
	provider *conn.Provider
}

func NewMaterializer(provider *conn.Provider) *Materializer {
	return &Materializer{provider: provider}
}

// Fetch 列按数据库返回的顺序，[]byte 转为 string
func (m *Materializer) Fetch(ctx context.Context, stmt query.Statement) (*rdb.ResultSet, error) {
	var rs *rdb.ResultSet
	err := m.provider.With(ctx, func(c *conn.Conn) error {
		rows, err := c.QueryContext(ctx, stmt.SQL, stmt.Args...)
		if err != nil {
			return rdb.WrapQueryExecution(err, "")
		}
		defer rows.Close()

		rs, err = scanRows(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// Exec 在事务中执行单条写语句并提交，返回影响的行数
func (m *Materializer) Exec(ctx context.Context, stmt query.Statement) (int64, error) {
	var affected int64
	err := m.provider.With(ctx, func(c *conn.Conn) error {
		return c.WithTx(ctx, func(tx *sql.Tx) error {
			res, err := tx.ExecContext(ctx, stmt.SQL, stmt.Args...)
			if err != nil {
				return err
			}
			affected, err = res.RowsAffected()
			return err
		})
	})
	if err != nil {
		return 0, rdb.WrapQueryExecution(err, "")
	}
	return affected, nil
}

func scanRows(rows *sql.Rows) (*rdb.ResultSet, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, rdb.WrapQueryExecution(err, "")
	}

	rs := &rdb.ResultSet{Columns: rdb.ColumnSchema(columns), Rows: []rdb.RowRecord{}}
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, rdb.WrapQueryExecution(err, "")
		}

		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		rs.Rows = append(rs.Rows, rdb.RowRecord(values))
	}
	if err := rows.Err(); err != nil {
		return nil, rdb.WrapQueryExecution(err, "")
	}
	return rs, nil
}
