// Package uid 生成操作 ID，用于把同一次操作的日志和 span 关联起来
package uid

import (
	"github.com/hatlonely/rdbadmin/refx"
)

const Namespace = "github.com/hatlonely/rdbadmin/uid"

func init() {
	refx.MustRegister(Namespace, "UUID", NewUUIDGeneratorWithOptions)
	refx.MustRegister(Namespace, "Snowflake", NewSnowflakeGeneratorWithOptions)
}

// Generator 生成字符串 ID，需要并发安全
type Generator interface {
	Generate() string
}

// NewGeneratorWithOptions options 为 nil 时返回 v4 UUID 生成器
func NewGeneratorWithOptions(options *refx.TypeOptions) (Generator, error) {
	if options == nil || options.Type == "" {
		return NewUUIDGeneratorWithOptions(nil), nil
	}
	if options.Namespace == "" {
		o := *options
		o.Namespace = Namespace
		options = &o
	}
	return refx.NewT[Generator](options)
}
