package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonthYear(t *testing.T) {
	// 12 个月份全覆盖
	names := []string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	for i, name := range names {
		got, err := ParseMonthYear(name + " 2025")
		require.NoError(t, err, "month: %s", name)
		assert.Equal(t, 2025, got.Year())
		assert.Equal(t, time.Month(i+1), got.Month())
		assert.Equal(t, 1, got.Day(), "应返回当月 1 日")
	}

	// 大小写不敏感
	got, err := ParseMonthYear("junio 2025")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local), got)
}

func TestParseMonthYear_Invalid(t *testing.T) {
	for _, input := range []string{
		"Juno 2025",    // 未知月份
		"Junio",        // 缺少年份
		"Junio 2025 x", // 多余内容
		"Junio abcd",   // 年份非整数
	} {
		_, err := ParseMonthYear(input)
		var fe *FormatError
		require.ErrorAs(t, err, &fe, "input: %q", input)
	}
}

func TestParseDayMonth(t *testing.T) {
	got, err := ParseDayMonth("22/ene", 2024, 0)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 22, 0, 0, 0, 0, time.Local), got)

	// 上下文月份覆盖缩写
	got, err = ParseDayMonth("15/jun", 2025, time.March)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.Local), got)
}

func TestParseDayMonth_HsReturnsToday(t *testing.T) {
	fixed := time.Date(2025, 7, 9, 18, 30, 0, 0, time.Local)
	now = func() time.Time { return fixed }
	defer func() { now = time.Now }()

	// 含 "hs" 表示站点渲染的是当日时刻，直接返回今天
	got, err := ParseDayMonth("18:30 hs", 2024, 0)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 9, 0, 0, 0, 0, time.Local), got)
}

func TestParseDayMonth_DefaultYear(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	now = func() time.Time { return fixed }
	defer func() { now = time.Now }()

	got, err := ParseDayMonth("15/mar", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local), got)
}

func TestParseDayMonth_Invalid(t *testing.T) {
	for _, input := range []string{
		"22/xyz",    // 未知缩写
		"abc/ene",   // 无效日
		"22",        // 段数错误
		"31/feb",    // 该月不存在这一天
		"22/ene/24", // 段数错误
	} {
		_, err := ParseDayMonth(input, 2024, 0)
		var fe *FormatError
		require.ErrorAs(t, err, &fe, "input: %q", input)
	}
}

func TestParseDayMonthYear(t *testing.T) {
	got, err := ParseDayMonthYear("25/12/2024")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 25, 0, 0, 0, 0, time.Local), got)

	got, err = ParseDayMonthYear("01/01/2025")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local), got)
}

func TestParseDayMonthYear_Invalid(t *testing.T) {
	for _, input := range []string{
		"25/12",      // 段数不是 3
		"2024-12-25", // 分隔符错误
		"31/02/2024", // 非法日历日期
		"aa/bb/cccc",
	} {
		_, err := ParseDayMonthYear(input)
		var fe *FormatError
		require.ErrorAs(t, err, &fe, "input: %q", input)
	}
}
