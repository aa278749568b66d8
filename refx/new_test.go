package refx

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type Value struct {
	Name  string
	Limit int
}

type Options struct {
	Name  string `cfg:"name"`
	Limit int    `cfg:"limit"`
}

func NewValue(options *Options) (*Value, error) {
	if options == nil {
		return nil, errors.New("options cannot be nil")
	}
	if options.Name == "" {
		return nil, errors.New("name cannot be empty")
	}
	return &Value{Name: options.Name, Limit: options.Limit}, nil
}

func NewDefaultValue() *Value {
	return &Value{Name: "default"}
}

func NewSimpleValue(options *Options) *Value {
	if options == nil {
		return &Value{Name: "nil-options"}
	}
	return &Value{Name: options.Name}
}

func TestRegisterAndNew(t *testing.T) {
	Convey("构造函数注册与创建", t, func() {
		So(Register("refx_test", "Value", NewValue), ShouldBeNil)
		So(Register("refx_test", "DefaultValue", NewDefaultValue), ShouldBeNil)
		So(Register("refx_test", "SimpleValue", NewSimpleValue), ShouldBeNil)

		Convey("重复注册同一函数不报错", func() {
			So(Register("refx_test", "Value", NewValue), ShouldBeNil)
		})

		Convey("同名注册不同函数报错", func() {
			So(Register("refx_test", "Value", NewSimpleValue), ShouldNotBeNil)
		})

		Convey("非函数不能注册", func() {
			So(Register("refx_test", "NotFunc", 1), ShouldNotBeNil)
		})

		Convey("使用类型化 options 创建", func() {
			obj, err := New("refx_test", "Value", &Options{Name: "csv"})
			So(err, ShouldBeNil)
			So(obj.(*Value).Name, ShouldEqual, "csv")
		})

		Convey("使用配置 map 创建", func() {
			obj, err := New("refx_test", "Value", map[string]any{"name": "xlsx", "limit": 3})
			So(err, ShouldBeNil)
			So(obj.(*Value).Name, ShouldEqual, "xlsx")
			So(obj.(*Value).Limit, ShouldEqual, 3)
		})

		Convey("构造函数返回的错误被透传", func() {
			_, err := New("refx_test", "Value", &Options{})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldEqual, "name cannot be empty")
		})

		Convey("nil options 传零值", func() {
			obj, err := New("refx_test", "SimpleValue", nil)
			So(err, ShouldBeNil)
			So(obj.(*Value).Name, ShouldEqual, "nil-options")
		})

		Convey("无参构造函数", func() {
			obj, err := New("refx_test", "DefaultValue", nil)
			So(err, ShouldBeNil)
			So(obj.(*Value).Name, ShouldEqual, "default")
		})

		Convey("未注册的类型", func() {
			_, err := New("refx_test", "Missing", nil)
			So(err, ShouldNotBeNil)
		})

		Convey("NewT 断言类型", func() {
			v, err := NewT[*Value](&TypeOptions{Namespace: "refx_test", Type: "Value", Options: &Options{Name: "t"}})
			So(err, ShouldBeNil)
			So(v.Name, ShouldEqual, "t")

			_, err = NewT[string](&TypeOptions{Namespace: "refx_test", Type: "Value", Options: &Options{Name: "t"}})
			So(err, ShouldNotBeNil)
		})
	})
}
