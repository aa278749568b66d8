package crud

import (
	"context"

	"github.com/hatlonely/rdbadmin/cfg/validator"
	"github.com/hatlonely/rdbadmin/rdb"
)

// Request 一次操作的全部参数，由调用方构造，只使用一次
type Request struct {
	Action rdb.Action `validate:"required,oneof=show columns search get insert update delete sql export"`
	Table  string     `validate:"required"`

	// search
	Column string
	Value  string

	// sql
	SQL string `validate:"required_if=Action sql"`

	// insert/update
	Values []any

	// get/delete
	Key any

	// export
	Format string `validate:"required_if=Action export"`
	Path   string `validate:"required_if=Action export"`
}

// Response 读操作返回 Result，columns 返回 Columns，写操作和导出返回 Outcome
type Response struct {
	Result  *rdb.ResultSet
	Columns rdb.ColumnSchema
	Outcome *rdb.Outcome
}

func (r *Request) Validate() error {
	if r == nil {
		return rdb.ValidationError("request is nil")
	}
	if err := validator.ValidateStruct(r); err != nil {
		return rdb.ValidationError("%s", err.Error())
	}
	return nil
}

// execute 按 Action 分发，Engine 和 ObservableService 共用
func execute(ctx context.Context, s Service, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		resp = &Response{}
		err  error
	)
	switch req.Action {
	case rdb.ActionShow:
		resp.Result, err = s.Show(ctx, req.Table)
	case rdb.ActionColumns:
		resp.Columns, err = s.Columns(ctx, req.Table)
	case rdb.ActionSearch:
		resp.Result, err = s.Search(ctx, req.Table, req.Column, req.Value)
	case rdb.ActionGet:
		resp.Result, err = s.Get(ctx, req.Table, req.Key)
	case rdb.ActionInsert:
		resp.Outcome, err = s.Insert(ctx, req.Table, req.Values)
	case rdb.ActionUpdate:
		resp.Outcome, err = s.Update(ctx, req.Table, req.Values)
	case rdb.ActionDelete:
		resp.Outcome, err = s.Delete(ctx, req.Table, req.Key)
	case rdb.ActionRaw:
		resp.Result, err = s.RunRaw(ctx, req.Table, req.SQL)
	case rdb.ActionExport:
		resp.Outcome, err = s.Export(ctx, req.Table, req.Format, req.Path)
	default:
		return nil, rdb.ValidationError("unknown action %q", req.Action)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}
