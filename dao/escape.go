package dao

import "strings"

// EscapeLike 转义 LIKE 模式里的通配符，搜索词当字面量用
func EscapeLike(value string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(value)
}
