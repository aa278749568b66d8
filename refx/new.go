package refx

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/hatlonely/rdbadmin/cfg/storage"
)

// TypeOptions 描述一个通过注册表创建的对象
// Options 可以是构造函数期望的类型，也可以是配置解码得到的 map
type TypeOptions struct {
	Namespace string `cfg:"namespace"`
	Type      string `cfg:"type"`
	Options   any    `cfg:"options"`
}

// Convertable 可以转换成构造函数参数类型的配置数据
type Convertable interface {
	ConvertTo(object any) error
}

type constructor struct {
	originalFunc any
	newFunc      reflect.Value
	paramType    reflect.Type
	returnsError bool
}

func newConstructor(newFunc any) (*constructor, error) {
	funcValue := reflect.ValueOf(newFunc)
	if funcValue.Kind() != reflect.Func {
		return nil, fmt.Errorf("newFunc must be a function")
	}

	funcType := funcValue.Type()
	if funcType.NumIn() > 1 {
		return nil, fmt.Errorf("newFunc must have 0 or 1 input parameters, got %d", funcType.NumIn())
	}
	if funcType.NumOut() != 1 && funcType.NumOut() != 2 {
		return nil, fmt.Errorf("newFunc must have 1 or 2 return values, got %d", funcType.NumOut())
	}

	c := &constructor{
		originalFunc: newFunc,
		newFunc:      funcValue,
	}
	if funcType.NumIn() == 1 {
		c.paramType = funcType.In(0)
	}
	if funcType.NumOut() == 2 {
		errorInterface := reflect.TypeOf((*error)(nil)).Elem()
		if !funcType.Out(1).Implements(errorInterface) {
			return nil, fmt.Errorf("second return value must be error type")
		}
		c.returnsError = true
	}

	return c, nil
}

func (c *constructor) new(options any) (any, error) {
	var args []reflect.Value
	if c.paramType != nil {
		arg, err := c.convertOptions(options)
		if err != nil {
			return nil, err
		}
		args = []reflect.Value{arg}
	}

	results := c.newFunc.Call(args)
	if c.returnsError && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return results[0].Interface(), nil
}

// convertOptions 把 options 转成构造函数的参数
// nil 传零值；map 通过 MapStorage 绑定；Convertable 调用 ConvertTo
func (c *constructor) convertOptions(options any) (reflect.Value, error) {
	if options == nil {
		return reflect.Zero(c.paramType), nil
	}

	value := reflect.ValueOf(options)
	if value.Type().AssignableTo(c.paramType) {
		return value, nil
	}

	var convertable Convertable
	switch v := options.(type) {
	case Convertable:
		convertable = v
	case map[string]any, map[any]any:
		convertable = storage.NewMapStorage(v)
	default:
		return reflect.Value{}, fmt.Errorf("cannot use options of type %T as %v", options, c.paramType)
	}

	target := c.paramType
	if target.Kind() == reflect.Ptr {
		target = target.Elem()
	}
	ptr := reflect.New(target)
	if err := convertable.ConvertTo(ptr.Interface()); err != nil {
		return reflect.Value{}, fmt.Errorf("failed to convert options to %v: %w", c.paramType, err)
	}
	if c.paramType.Kind() == reflect.Ptr {
		return ptr, nil
	}
	return ptr.Elem(), nil
}

var nameConstructorMap sync.Map

func isSameFunc(func1, func2 any) bool {
	if func1 == nil || func2 == nil {
		return func1 == func2
	}
	return reflect.ValueOf(func1).Pointer() == reflect.ValueOf(func2).Pointer()
}

// Register 注册构造函数，重复注册同一函数是幂等的
func Register(namespace string, type_ string, newFunc any) error {
	key := namespace + ":" + type_

	if existing, ok := nameConstructorMap.Load(key); ok {
		if isSameFunc(existing.(*constructor).originalFunc, newFunc) {
			return nil
		}
		return fmt.Errorf("constructor for %s already registered with different function", key)
	}

	c, err := newConstructor(newFunc)
	if err != nil {
		return fmt.Errorf("failed to create constructor: %w", err)
	}

	nameConstructorMap.Store(key, c)
	return nil
}

func MustRegister(namespace string, type_ string, newFunc any) {
	if err := Register(namespace, type_, newFunc); err != nil {
		panic(err)
	}
}

func New(namespace string, type_ string, options any) (any, error) {
	key := namespace + ":" + type_
	value, ok := nameConstructorMap.Load(key)
	if !ok {
		return nil, fmt.Errorf("constructor not found for %s", key)
	}
	return value.(*constructor).new(options)
}

// NewT 创建对象并断言为 T
func NewT[T any](options *TypeOptions) (T, error) {
	var zero T
	if options == nil {
		return zero, fmt.Errorf("type options cannot be nil")
	}

	obj, err := New(options.Namespace, options.Type, options.Options)
	if err != nil {
		return zero, err
	}

	result, ok := obj.(T)
	if !ok {
		return zero, fmt.Errorf("%s:%s created %T, not %T", options.Namespace, options.Type, obj, zero)
	}
	return result, nil
}
