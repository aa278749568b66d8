// Package query 生成参数化 SQL
//
// 表名和列名在调用前已经通过允许列表校验，只有值作为参数绑定
package query

import (
	"fmt"
	"strings"

	"github.com/hatlonely/rdbadmin/rdb"
)

// Statement 一条 SQL 和它的参数
type Statement struct {
	SQL  string
	Args []any
}

// Builder 按方言生成语句，mysql/sqlite3 使用 ?，postgres 使用 $1..$n
type Builder struct {
	dialect string
}

func NewBuilder(dialect string) *Builder {
	return &Builder{dialect: dialect}
}

func (b *Builder) SelectAll(t rdb.TableHandle) Statement {
	return Statement{SQL: "SELECT * FROM " + t.Name()}
}

// Probe 只取一行，用于读取表结构
func (b *Builder) Probe(t rdb.TableHandle) Statement {
	return Statement{SQL: "SELECT * FROM " + t.Name() + " LIMIT 1"}
}

// Search 子串匹配，pattern 两侧加 %
func (b *Builder) Search(t rdb.TableHandle, columns rdb.ColumnSchema, column, pattern string) (Statement, error) {
	if column == "" {
		return Statement{}, rdb.ValidationError("search column is empty")
	}
	if pattern == "" {
		return Statement{}, rdb.ValidationError("search value is empty")
	}
	if !columns.Contains(column) {
		return Statement{}, rdb.SchemaError("unknown column %q in table %s", column, t.Name())
	}

	return b.format(
		fmt.Sprintf("SELECT * FROM %s WHERE %s LIKE ?", t.Name(), column),
		[]any{"%" + pattern + "%"},
	), nil
}

func (b *Builder) Insert(t rdb.TableHandle, columns rdb.ColumnSchema, values []any) (Statement, error) {
	if len(columns) == 0 {
		return Statement{}, rdb.ValidationError("table %s has no columns", t.Name())
	}
	if len(values) != len(columns) {
		return Statement{}, rdb.ValidationError("expected %d values for %s, got %d", len(columns), t.Name(), len(values))
	}

	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	return b.format(
		fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			t.Name(), strings.Join(columns, ", "), strings.Join(placeholders, ", ")),
		append([]any(nil), values...),
	), nil
}

// Update values[0] 是主键，不出现在 SET 中，作为最后一个参数
func (b *Builder) Update(t rdb.TableHandle, columns rdb.ColumnSchema, values []any) (Statement, error) {
	if len(columns) < 2 {
		return Statement{}, rdb.ValidationError("table %s has no updatable columns", t.Name())
	}
	if len(values) != len(columns) {
		return Statement{}, rdb.ValidationError("expected %d values for %s, got %d", len(columns), t.Name(), len(values))
	}

	sets := make([]string, 0, len(columns)-1)
	for _, col := range columns[1:] {
		sets = append(sets, col+" = ?")
	}

	args := make([]any, 0, len(values))
	args = append(args, values[1:]...)
	args = append(args, values[0])

	return b.format(
		fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", t.Name(), strings.Join(sets, ", "), columns.Key()),
		args,
	), nil
}

func (b *Builder) Delete(t rdb.TableHandle, keyColumn string, key any) Statement {
	return b.format(fmt.Sprintf("DELETE FROM %s WHERE %s = ?", t.Name(), keyColumn), []any{key})
}

func (b *Builder) SelectByKey(t rdb.TableHandle, keyColumn string, key any) Statement {
	return b.format(fmt.Sprintf("SELECT * FROM %s WHERE %s = ?", t.Name(), keyColumn), []any{key})
}

// Passthrough 只允许 SELECT 开头的语句，仅检查前缀，不解析 SQL
func (b *Builder) Passthrough(raw string) (Statement, error) {
	sql := strings.TrimSpace(raw)
	if sql == "" {
		return Statement{}, rdb.ValidationError("query is empty")
	}
	if len(sql) < 6 || !strings.EqualFold(sql[:6], "select") {
		return Statement{}, rdb.UnauthorizedQueryError("only SELECT queries are allowed")
	}
	return Statement{SQL: sql}, nil
}

func (b *Builder) format(sql string, args []any) Statement {
	if b.dialect == "postgres" {
		var sb strings.Builder
		count := 1
		for _, r := range sql {
			if r == '?' {
				fmt.Fprintf(&sb, "$%d", count)
				count++
				continue
			}
			sb.WriteRune(r)
		}
		sql = sb.String()
	}
	return Statement{SQL: sql, Args: args}
}
