package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FormatError 输入文本格式错误，调用方可恢复（抓取流程中跳过该行）
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("格式错误: %s: %q", e.Reason, e.Input)
}

// amountPattern 匹配 "[符号]<整数> pesos[ con <整数> centavos]"，忽略大小写，从头匹配
var amountPattern = regexp.MustCompile(`(?i)^([+-]?)(\d+)\s*pesos(?:\s+con\s+(\d+)\s+centavos)?`)

// ParseAmount 将西语自然语言金额文本转换为浮点数
// 例: "-8868 pesos con 06 centavos" -> -8868.06, "-828200 pesos" -> -828200.0
// 空字符串返回 0.0（约定的回退值，不是错误）；非空但格式不符返回 FormatError
func ParseAmount(amountStr string) (float64, error) {
	amountStr = strings.TrimSpace(amountStr)
	if amountStr == "" {
		return 0.0, nil
	}

	m := amountPattern.FindStringSubmatch(amountStr)
	if m == nil {
		return 0, &FormatError{Input: amountStr, Reason: "无效的金额格式"}
	}

	sign, pesosStr, centavosStr := m[1], m[2], m[3]

	pesos, err := strconv.Atoi(pesosStr)
	if err != nil {
		return 0, &FormatError{Input: amountStr, Reason: "无效的金额格式"}
	}
	centavos := 0
	if centavosStr != "" {
		centavos, err = strconv.Atoi(centavosStr)
		if err != nil {
			return 0, &FormatError{Input: amountStr, Reason: "无效的金额格式"}
		}
	}

	result := float64(pesos) + float64(centavos)/100
	if sign == "-" {
		result = -result
	}
	return result, nil
}

// NormalizeBankAmount 规范化银行流水金额文本，如 "$ 1.234,56" -> ("1234.56", 1234.56)
// 处理步骤：去掉 "$ " 前缀与 "." 千位分隔符，再把小数逗号替换为点
// 返回的字符串形式用于内容哈希，必须与数值解析使用同一份文本
func NormalizeBankAmount(raw string) (string, float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "$ ", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", 0, &FormatError{Input: raw, Reason: "无效的金额格式"}
	}
	return s, value, nil
}
