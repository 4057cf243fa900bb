package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	brDatePattern  = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`)
	isoDatePattern = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
)

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// ParseDate 解析日期文本
// 支持格式: "5/1/2024" / "05/01/2024" (D/M/YYYY) / "2024-01-05"
// 返回本地时区零点的日历日期；无法识别或日期非法时返回 false
func ParseDate(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" || text == "-" {
		return time.Time{}, false
	}

	if m := brDatePattern.FindStringSubmatch(text); len(m) == 4 {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		return buildDate(year, month, day)
	}

	if m := isoDatePattern.FindStringSubmatch(text); len(m) == 4 {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return buildDate(year, month, day)
	}

	return time.Time{}, false
}

func buildDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	// 31/02 之类的日期会被 time.Date 顺延，视为非法
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate 统一日期展示为 DD/MM/YYYY；空值显示 "-"，无法解析时原样返回
func FormatDate(text string) string {
	if strings.TrimSpace(text) == "" || text == "-" {
		return "-"
	}
	t, ok := ParseDate(text)
	if !ok {
		return text
	}
	return t.Format("02/01/2006")
}

// MonthBucket 月份分组键 "YYYY-MM"
func MonthBucket(t time.Time) string {
	return fmt.Sprintf("%d-%02d", t.Year(), int(t.Month()))
}

// MonthLabel 将 "YYYY-MM" 转换为 "Janeiro de 2024"
func MonthLabel(bucket string) string {
	parts := strings.SplitN(bucket, "-", 2)
	if len(parts) != 2 {
		return bucket
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		return bucket
	}
	name := monthNames[month-1]
	return strings.ToUpper(name[:1]) + name[1:] + " de " + strconv.Itoa(year)
}

// DateOnly 截断到日历日期（零点）
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseISODate 解析命令行参数中的 YYYY-MM-DD
func ParseISODate(text string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(text), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("data inválida %q: %w", text, err)
	}
	return t, nil
}
