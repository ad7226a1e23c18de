package pickup

import (
	"sort"
	"strings"
)

// 各逻辑字段可接受的键名，按优先级排列
var (
	TextAliases        = []string{"tagalog", "text", "content", "line"}
	TranslationAliases = []string{"translation", "english", "meaning"}
)

// lookupAlias 按别名优先级取第一个非空字符串值
// 先精确匹配，再按排序后的键做大小写不敏感匹配，保证结果确定
func lookupAlias(obj map[string]any, aliases []string) string {
	for _, alias := range aliases {
		if s := stringValue(obj[alias]); s != "" {
			return s
		}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, alias := range aliases {
		for _, k := range keys {
			if strings.EqualFold(strings.TrimSpace(k), alias) {
				if s := stringValue(obj[k]); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

// hasAnyAlias 对象是否直接包含某个别名键
func hasAnyAlias(keys []string, aliases []string) bool {
	for _, k := range keys {
		for _, alias := range aliases {
			if strings.EqualFold(strings.TrimSpace(k), alias) {
				return true
			}
		}
	}
	return false
}

func isAlias(key string, aliases []string) bool {
	return hasAnyAlias([]string{key}, aliases)
}

func stringValue(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
