package validator

import (
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct 使用 validate tag 校验结构体
// nil、nil 指针和非结构体直接通过
func ValidateStruct(object any) error {
	if object == nil {
		return nil
	}

	rv := reflect.ValueOf(object)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	return instance().Struct(rv.Interface())
}
