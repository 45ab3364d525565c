package classify

// DefaultRules 内置的 Macro 银行流水分类规则表
// 顺序即求值顺序；可被外部配置 classifier.rules 整体覆盖
var DefaultRules = []RuleConfig{
	// 公共服务缴费（电力 DPEC / 自来水）
	{Category: 3, Patterns: []string{"PAGOS360", "DPEC"}},
	{Category: 3, Patterns: []string{"PAGOS360", "AGUASCORRIENT"}},
	{Category: 3, Patterns: []string{"DB TARJETA DE CREDITO VISA"}},
	// 贷款扣款
	{Category: 14, Patterns: []string{"DEBITO PRESTAMOS"}},
	// MercadoLibre 入账
	{Category: 21, Patterns: []string{"MERCADOLIBRE SRL 30703088534"}},
}

// Default 使用内置规则表构造分类器
func Default() *Classifier {
	c, err := New(DefaultRules)
	if err != nil {
		// 内置规则表编译失败属于程序缺陷
		panic(err)
	}
	return c
}
