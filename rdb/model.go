package rdb

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTables 默认允许访问的表
var DefaultTables = []string{"Station", "Train", "Route", "Passenger", "Ticket", "Payment"}

// TableHandle 经过允许列表校验的表名，只能通过 TableSet.Handle 创建
type TableHandle struct {
	name string
}

func (t TableHandle) Name() string {
	return t.name
}

func (t TableHandle) String() string {
	return t.name
}

// IsZero 未经校验的空句柄
func (t TableHandle) IsZero() bool {
	return t.name == ""
}

// TableSet 有序、不可变的允许访问表集合
type TableSet struct {
	names []string
	index map[string]struct{}
}

func NewTableSet(names ...string) (*TableSet, error) {
	if len(names) == 0 {
		return nil, ValidationError("table set is empty")
	}

	s := &TableSet{
		names: make([]string, 0, len(names)),
		index: make(map[string]struct{}, len(names)),
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, ValidationError("table name is empty")
		}
		if _, ok := s.index[name]; ok {
			return nil, ValidationError("duplicate table %s", name)
		}
		s.names = append(s.names, name)
		s.index[name] = struct{}{}
	}
	return s, nil
}

// Handle 校验表名，大小写敏感
func (s *TableSet) Handle(name string) (TableHandle, error) {
	if _, ok := s.index[name]; !ok {
		return TableHandle{}, SchemaError("unknown table %q", name)
	}
	return TableHandle{name: name}, nil
}

func (s *TableSet) Names() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// ColumnSchema 表的列名，按数据库返回的顺序排列，第一列约定为主键
type ColumnSchema []string

// Key 主键列名
func (c ColumnSchema) Key() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// Contains 列名是否存在，用于标识符的允许列表校验
func (c ColumnSchema) Contains(name string) bool {
	for _, col := range c {
		if col == name {
			return true
		}
	}
	return false
}

// RowRecord 与 ColumnSchema 对齐的一行数据
type RowRecord []any

// ResultSet 列和行，所有读操作的返回单位
type ResultSet struct {
	Columns ColumnSchema
	Rows    []RowRecord
}

func (r *ResultSet) Len() int {
	return len(r.Rows)
}

// Strings 把每个单元格渲染为字符串
func (r *ResultSet) Strings() [][]string {
	out := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = FormatValue(v)
		}
		out[i] = cells
	}
	return out
}

// FormatValue nil 渲染为空串，时间使用 2006-01-02 15:04:05
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.DateTime)
	}
	return fmt.Sprint(v)
}

// Action 操作类型
type Action string

const (
	ActionShow    Action = "show"
	ActionColumns Action = "columns"
	ActionSearch  Action = "search"
	ActionGet     Action = "get"
	ActionInsert  Action = "insert"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionRaw     Action = "sql"
	ActionExport  Action = "export"
)

// Outcome 写操作的结果
type Outcome struct {
	Action       Action
	Table        string
	RowsAffected int64
	Message      string
}
