package storage

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// MapStorage 基于 map 和 slice 的存储实现
// yaml/json/toml/ini/env 解码的结果都落在这里
type MapStorage struct {
	data any
}

func NewMapStorage(data any) *MapStorage {
	return &MapStorage{data: data}
}

// Data 获取存储的原始数据
func (ms *MapStorage) Data() any {
	return ms.data
}

// Sub 获取子配置存储对象
// key 可以包含点号（.）表示多级嵌套，[]表示数组索引，例如 "database.hosts[0]"
func (ms *MapStorage) Sub(key string) Storage {
	if key == "" {
		return ms
	}

	current := ms.data
	for _, k := range parseKey(key) {
		current = getValueByKey(current, k)
		if current == nil {
			break
		}
	}
	return NewMapStorage(current)
}

// ConvertTo 先按 def tag 填充默认值，再用配置数据覆盖
func (ms *MapStorage) ConvertTo(object any) error {
	rv := reflect.ValueOf(object)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("object must be a non-nil pointer, got %T", object)
	}
	if err := SetDefaults(object); err != nil {
		return err
	}
	return convertValue(ms.data, rv)
}

func parseKey(key string) []string {
	var keys []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			keys = append(keys, current.String())
			current.Reset()
		}
	}

	for _, char := range key {
		switch char {
		case '.', '[', ']':
			flush()
		default:
			current.WriteRune(char)
		}
	}
	flush()
	return keys
}

func getValueByKey(data any, key string) any {
	rv := reflect.ValueOf(data)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		for _, k := range rv.MapKeys() {
			if strings.EqualFold(fmt.Sprint(k.Interface()), key) {
				return rv.MapIndex(k).Interface()
			}
		}
	case reflect.Slice, reflect.Array:
		index, err := strconv.Atoi(key)
		if err != nil || index < 0 || index >= rv.Len() {
			return nil
		}
		return rv.Index(index).Interface()
	}
	return nil
}

func convertValue(src any, dst reflect.Value) error {
	srcValue := reflect.ValueOf(src)
	if !srcValue.IsValid() {
		return nil
	}

	if dst.Kind() == reflect.Ptr {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
			if err := setDefaults(dst); err != nil {
				return err
			}
		}
		return convertValue(src, dst.Elem())
	}

	for srcValue.Kind() == reflect.Ptr || srcValue.Kind() == reflect.Interface {
		if srcValue.IsNil() {
			return nil
		}
		srcValue = srcValue.Elem()
	}

	if !dst.CanSet() {
		return fmt.Errorf("destination %v is not settable", dst.Type())
	}

	if dst.Type() == reflect.TypeOf(time.Duration(0)) {
		return convertToDuration(srcValue, dst)
	}

	if srcValue.Type().AssignableTo(dst.Type()) {
		dst.Set(srcValue)
		return nil
	}

	switch dst.Kind() {
	case reflect.Map:
		return convertToMap(srcValue, dst)
	case reflect.Slice:
		return convertToSlice(srcValue, dst)
	case reflect.Struct:
		return convertToStruct(srcValue, dst)
	case reflect.Interface:
		if dst.Type().NumMethod() == 0 {
			dst.Set(srcValue)
			return nil
		}
	case reflect.String:
		dst.SetString(fmt.Sprint(srcValue.Interface()))
		return nil
	}

	if srcValue.Kind() == reflect.String {
		return convertFromString(srcValue.String(), dst)
	}

	if srcValue.Type().ConvertibleTo(dst.Type()) {
		dst.Set(srcValue.Convert(dst.Type()))
		return nil
	}

	return fmt.Errorf("cannot convert %v to %v", srcValue.Type(), dst.Type())
}

// convertFromString 环境变量和 ini 的值都是字符串
func convertFromString(s string, dst reflect.Value) error {
	switch dst.Kind() {
	case reflect.Bool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("invalid bool %q: %w", s, err)
		}
		dst.SetBool(v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(s, 0, dst.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid int %q: %w", s, err)
		}
		dst.SetInt(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(s, 0, dst.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid uint %q: %w", s, err)
		}
		dst.SetUint(v)
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(s, dst.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid float %q: %w", s, err)
		}
		dst.SetFloat(v)
	default:
		return fmt.Errorf("cannot convert string to %v", dst.Type())
	}
	return nil
}

func convertToDuration(src, dst reflect.Value) error {
	switch src.Kind() {
	case reflect.String:
		d, err := time.ParseDuration(src.String())
		if err != nil {
			return fmt.Errorf("failed to parse duration %q: %w", src.String(), err)
		}
		dst.SetInt(int64(d))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		dst.SetInt(src.Int())
	case reflect.Float32, reflect.Float64:
		// 浮点数按秒处理
		dst.SetInt(int64(src.Float() * float64(time.Second)))
	default:
		return fmt.Errorf("cannot convert %v to time.Duration", src.Type())
	}
	return nil
}

func convertToMap(src, dst reflect.Value) error {
	if src.Kind() != reflect.Map {
		return fmt.Errorf("source %v is not a map", src.Type())
	}
	if dst.IsNil() {
		dst.Set(reflect.MakeMap(dst.Type()))
	}

	for _, key := range src.MapKeys() {
		item := reflect.New(dst.Type().Elem()).Elem()
		if err := convertValue(src.MapIndex(key).Interface(), item); err != nil {
			return err
		}

		k := reflect.New(dst.Type().Key()).Elem()
		if err := convertValue(key.Interface(), k); err != nil {
			return fmt.Errorf("cannot convert key %v: %w", key.Interface(), err)
		}
		dst.SetMapIndex(k, item)
	}
	return nil
}

func convertToSlice(src, dst reflect.Value) error {
	// 环境变量中的列表用逗号分隔
	if src.Kind() == reflect.String {
		parts := strings.Split(src.String(), ",")
		items := make([]any, 0, len(parts))
		for _, part := range parts {
			items = append(items, strings.TrimSpace(part))
		}
		src = reflect.ValueOf(items)
	}
	if src.Kind() != reflect.Slice && src.Kind() != reflect.Array {
		return fmt.Errorf("source %v is not a slice", src.Type())
	}

	slice := reflect.MakeSlice(dst.Type(), src.Len(), src.Len())
	for i := 0; i < src.Len(); i++ {
		if err := convertValue(src.Index(i).Interface(), slice.Index(i)); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}
	dst.Set(slice)
	return nil
}

func convertToStruct(src, dst reflect.Value) error {
	if src.Kind() != reflect.Map {
		return fmt.Errorf("source %v is not a map", src.Type())
	}

	dstType := dst.Type()
	for i := 0; i < dstType.NumField(); i++ {
		field := dstType.Field(i)
		fieldValue := dst.Field(i)
		if !fieldValue.CanSet() {
			continue
		}

		name := FieldName(field)
		if name == "-" {
			continue
		}

		for _, key := range src.MapKeys() {
			if !strings.EqualFold(fmt.Sprint(key.Interface()), name) {
				continue
			}
			if err := convertValue(src.MapIndex(key).Interface(), fieldValue); err != nil {
				return fmt.Errorf("field %s: %w", name, err)
			}
			break
		}
	}
	return nil
}

// FieldName 返回结构体字段在配置中的名字
// 优先级：cfg > json > yaml > 字段名
func FieldName(field reflect.StructField) string {
	for _, tagKey := range []string{"cfg", "json", "yaml"} {
		if tag := field.Tag.Get(tagKey); tag != "" {
			if name := strings.Split(tag, ",")[0]; name != "" {
				return name
			}
		}
	}
	return field.Name
}
