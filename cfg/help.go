package cfg

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/hatlonely/rdbadmin/cfg/storage"
)

// FieldInfo 配置字段信息
type FieldInfo struct {
	Path         string // 字段路径，如 "database.host"
	Type         string
	EnvName      string
	DefaultValue string
	Help         string
}

// GenerateHelp 生成配置帮助信息，列出路径、类型、环境变量名和默认值
func GenerateHelp(object any, envPrefix string) string {
	fields := ExtractFields(object, envPrefix)
	if len(fields) == 0 {
		return "no config fields\n"
	}

	var sb strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&sb, "  %-32s %-10s %s", f.Path, f.Type, f.EnvName)
		if f.DefaultValue != "" {
			fmt.Fprintf(&sb, " (default: %s)", f.DefaultValue)
		}
		if f.Help != "" {
			fmt.Fprintf(&sb, "  %s", f.Help)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ExtractFields 按路径排序返回所有叶子字段
func ExtractFields(object any, envPrefix string) []FieldInfo {
	t := reflect.TypeOf(object)
	if t == nil {
		return nil
	}
	var fields []FieldInfo
	extractFields(t, "", envPrefix, &fields)
	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Path < fields[j].Path
	})
	return fields
}

func extractFields(t reflect.Type, prefix, envPrefix string, fields *[]FieldInfo) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := storage.FieldName(field)
		if name == "-" {
			continue
		}

		path := name
		if prefix != "" {
			path = prefix + "." + name
		}

		ft := field.Type
		for ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct && ft != reflect.TypeOf(time.Time{}) {
			extractFields(ft, path, envPrefix, fields)
			continue
		}

		*fields = append(*fields, FieldInfo{
			Path:         path,
			Type:         typeName(field.Type),
			EnvName:      envPrefix + strings.ToUpper(strings.ReplaceAll(path, ".", "_")),
			DefaultValue: field.Tag.Get("def"),
			Help:         field.Tag.Get("help"),
		})
	}
}

func typeName(t reflect.Type) string {
	if t == reflect.TypeOf(time.Duration(0)) {
		return "duration"
	}
	switch t.Kind() {
	case reflect.Ptr:
		return typeName(t.Elem())
	case reflect.Slice:
		return "[]" + typeName(t.Elem())
	case reflect.Map:
		return "map"
	case reflect.Interface:
		return "any"
	}
	return t.Kind().String()
}
