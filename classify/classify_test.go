package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_DefaultRules(t *testing.T) {
	c := Default()

	tests := []struct {
		text string
		want uint
	}{
		{"PAGOS360 DPEC FACTURA", 3},
		{"DPEC PAGOS360", 3}, // 规则内模式无顺序要求
		{"PAGOS360 AGUASCORRIENT SA", 3},
		{"DB TARJETA DE CREDITO VISA 1234", 3},
		{"DEBITO PRESTAMOS 555", 14},
		{"MERCADOLIBRE SRL 30703088534", 21},
		{"Unknown transaction", NoMatch},
		{"PAGOS360", NoMatch},  // 单独出现不满足规则的全部模式
		{"pagos360 dpec", NoMatch}, // 区分大小写
		{"", NoMatch},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Classify(tt.text), "text: %q", tt.text)
	}
}

func TestClassify_TableOrderWins(t *testing.T) {
	// 同一文本命中两个类别时，返回表中靠前的类别
	c, err := New([]RuleConfig{
		{Category: 7, Patterns: []string{"LUZ"}},
		{Category: 9, Patterns: []string{"LUZ", "SUR"}},
	})
	require.NoError(t, err)

	assert.Equal(t, uint(7), c.Classify("LUZ DEL SUR"))

	// 顺序反转后结果随之改变
	c, err = New([]RuleConfig{
		{Category: 9, Patterns: []string{"LUZ", "SUR"}},
		{Category: 7, Patterns: []string{"LUZ"}},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(9), c.Classify("LUZ DEL SUR"))
}

func TestNew_InvalidRules(t *testing.T) {
	// 类别 0 与哨兵值冲突
	_, err := New([]RuleConfig{{Category: 0, Patterns: []string{"X"}}})
	require.Error(t, err)

	// 空模式列表
	_, err = New([]RuleConfig{{Category: 1}})
	require.Error(t, err)

	// 非法正则
	_, err = New([]RuleConfig{{Category: 1, Patterns: []string{"("}}})
	require.Error(t, err)
}
