package parse

import (
	"strconv"
	"strings"
	"time"
)

// months 西班牙语月份名称表
var months = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,
}

// monthAbbrevs 西班牙语月份缩写表（3 字母）
var monthAbbrevs = map[string]time.Month{
	"ene": time.January,
	"feb": time.February,
	"mar": time.March,
	"abr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"ago": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dic": time.December,
}

// now 便于测试替换当前时间
var now = time.Now

// ParseMonthYear 解析 "<西语月份> <年份>" 形式的文本，返回该月 1 日
// 例: "Junio 2025" -> 2025-06-01；月份名未知或年份非整数返回 FormatError
func ParseMonthYear(input string) (time.Time, error) {
	parts := strings.Fields(strings.TrimSpace(input))
	if len(parts) != 2 {
		return time.Time{}, &FormatError{Input: input, Reason: "应为 '<月份> <年份>' 格式"}
	}

	month, ok := months[strings.ToLower(parts[0])]
	if !ok {
		return time.Time{}, &FormatError{Input: input, Reason: "未知的月份名称"}
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, &FormatError{Input: input, Reason: "无效的年份"}
	}

	return time.Date(year, month, 1, 0, 0, 0, 0, time.Local), nil
}

// ParseDayMonth 解析 "<日>/<西语月份缩写>" 形式的文本
// year 为上下文年份（0 表示使用当前年份）；monthOverride 非 0 时覆盖缩写解析出的月份，
// 用于调用方从页面上下文已知月份、缩写冗余不可靠的场景
// 特殊情况：文本包含 "hs" 表示站点渲染的是当日交易的时刻而非日期，返回今天
// 无效日、未知缩写、或该月不存在的日（如 31/feb）均返回 FormatError
func ParseDayMonth(input string, year int, monthOverride time.Month) (time.Time, error) {
	if year == 0 {
		year = now().Year()
	}

	if strings.Contains(input, "hs") {
		t := now()
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), nil
	}

	parts := strings.Split(strings.TrimSpace(input), "/")
	if len(parts) != 2 {
		return time.Time{}, &FormatError{Input: input, Reason: "应为 '<日>/<月份缩写>' 格式"}
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, &FormatError{Input: input, Reason: "无效的日"}
	}

	month := monthOverride
	if month == 0 {
		var ok bool
		month, ok = monthAbbrevs[strings.ToLower(parts[1])]
		if !ok {
			return time.Time{}, &FormatError{Input: input, Reason: "未知的月份缩写"}
		}
	}

	// time.Date 会把越界的日规范化到下个月，借此校验日是否存在于该月
	d := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
	if d.Day() != day || d.Month() != month {
		return time.Time{}, &FormatError{Input: input, Reason: "该月不存在这一天"}
	}
	return d, nil
}

// ParseDayMonthYear 解析 "dd/mm/yyyy" 形式的文本，转换为 ISO yyyy-mm-dd 后按日历日期解析
// 例: "25/12/2024" -> 2024-12-25；段数不为 3 或日期非法返回 FormatError
func ParseDayMonthYear(input string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(input), "/")
	if len(parts) != 3 {
		return time.Time{}, &FormatError{Input: input, Reason: "应为 'dd/mm/yyyy' 格式"}
	}

	iso := parts[2] + "-" + parts[1] + "-" + parts[0]
	d, err := time.ParseInLocation("2006-01-02", iso, time.Local)
	if err != nil {
		return time.Time{}, &FormatError{Input: input, Reason: "无效的日期"}
	}
	return d, nil
}
