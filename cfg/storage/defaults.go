package storage

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// SetDefaults 为结构体设置默认值，基于 def tag
// 只填充零值字段；为 nil 的结构体指针保持 nil
func SetDefaults(object any) error {
	if object == nil {
		return fmt.Errorf("object cannot be nil")
	}

	rv := reflect.ValueOf(object)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("object must be a non-nil pointer")
	}

	return setDefaults(rv.Elem())
}

func setDefaults(rv reflect.Value) error {
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		fieldValue := rv.Field(i)
		if !fieldValue.CanSet() {
			continue
		}

		if fieldValue.Kind() == reflect.Struct || fieldValue.Kind() == reflect.Ptr {
			if err := setDefaults(fieldValue); err != nil {
				return fmt.Errorf("failed to set defaults for field %s: %w", field.Name, err)
			}
		}

		defTag, ok := field.Tag.Lookup("def")
		if !ok || !fieldValue.IsZero() {
			continue
		}

		if err := setDefaultValue(fieldValue, defTag); err != nil {
			return fmt.Errorf("failed to set default value for field %s: %w", field.Name, err)
		}
	}

	return nil
}

func setDefaultValue(rv reflect.Value, defValue string) error {
	if rv.Type() == reflect.TypeOf(time.Duration(0)) {
		d, err := time.ParseDuration(defValue)
		if err != nil {
			return fmt.Errorf("invalid duration value %q: %w", defValue, err)
		}
		rv.SetInt(int64(d))
		return nil
	}

	switch rv.Kind() {
	case reflect.String:
		rv.SetString(defValue)
		return nil
	case reflect.Slice:
		if defValue == "" {
			return nil
		}
		parts := strings.Split(defValue, ",")
		slice := reflect.MakeSlice(rv.Type(), len(parts), len(parts))
		for i, part := range parts {
			if err := setDefaultValue(slice.Index(i), strings.TrimSpace(part)); err != nil {
				return fmt.Errorf("failed to set slice element %d: %w", i, err)
			}
		}
		rv.Set(slice)
		return nil
	case reflect.Bool:
		v, err := strconv.ParseBool(defValue)
		if err != nil {
			return fmt.Errorf("invalid bool value %q: %w", defValue, err)
		}
		rv.SetBool(v)
		return nil
	}

	return convertFromString(defValue, rv)
}
