package storage

import (
	"fmt"
	"strings"
)

// Merge 把 overlay 深度合并到 base，key 大小写不敏感，overlay 优先
// 返回合并后的新 map，不修改入参
func Merge(base, overlay map[string]any) map[string]any {
	result := make(map[string]any, len(base))
	for k, v := range base {
		result[k] = v
	}

	for k, v := range overlay {
		key := k
		for existing := range result {
			if strings.EqualFold(existing, k) {
				key = existing
				break
			}
		}

		baseChild, baseIsMap := toStringMap(result[key])
		overlayChild, overlayIsMap := toStringMap(v)
		if baseIsMap && overlayIsMap {
			result[key] = Merge(baseChild, overlayChild)
			continue
		}
		result[key] = v
	}

	return result
}

func toStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		result := make(map[string]any, len(m))
		for k, val := range m {
			result[fmt.Sprint(k)] = val
		}
		return result, true
	}
	return nil, false
}
