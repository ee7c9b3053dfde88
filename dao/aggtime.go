package dao

import (
	"database/sql"
	"time"
)

// MAX() 这类聚合列丢掉原列的声明类型，sqlite 驱动会按字符串回传，
// 没法直接扫进 time.Time。统一扫成字符串再解析；mysql 开 parseTime
// 拿到 time.Time 时会被格式化成 RFC3339，同样能解析回来
var aggTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

func parseAggTime(raw sql.NullString) *time.Time {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	for _, layout := range aggTimeLayouts {
		if t, err := time.Parse(layout, raw.String); err == nil {
			return &t
		}
	}
	return nil
}
