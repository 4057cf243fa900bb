package model

import "time"

// Metrics 汇总卡片指标
type Metrics struct {
	Total        int       `json:"total"`        // 全部记录数（未筛选）
	Active       int       `json:"active"`       // 当前视图记录数
	Percent      float64   `json:"percent"`      // Active/Total*100，保留一位小数
	PercentLabel string    `json:"percentLabel"` // 例如 "40.0%"
	Aging15      int       `json:"aging15"`      // 15 <= 天数 < 30 的待处理记录
	Aging30      int       `json:"aging30"`      // 天数 >= 30 的待处理记录
	AsOf         time.Time `json:"asOf"`
}

// Bucket 图表分组计数
type Bucket struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ResolutionBucket 解决率分组
type ResolutionBucket struct {
	Label    string  `json:"label"`
	Total    int     `json:"total"`
	Resolved int     `json:"resolved"`
	Rate     float64 `json:"rate"` // 0-100，保留一位小数
}
