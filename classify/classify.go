// Package classify 根据交易描述文本推断记账类别
package classify

import (
	"fmt"
	"regexp"
)

// NoMatch 未命中任何规则时的哨兵返回值
// 调用方必须将其视为“无法分类、跳过该行”，绝不能当作默认类别
const NoMatch uint = 0

// RuleConfig 一条分类规则：规则内所有模式都命中才算匹配（与原始正则
// 的前瞻写法等价），同一类别的多条规则按出现顺序依次尝试（或关系）
type RuleConfig struct {
	Category uint     `mapstructure:"category" json:"category" yaml:"category"`
	Patterns []string `mapstructure:"patterns" json:"patterns" yaml:"patterns"`
}

type rule struct {
	category uint
	patterns []*regexp.Regexp
}

// Classifier 有序规则表分类器
// 规则表是数据而非代码：启动时从配置加载，匹配算法与规则内容解耦
type Classifier struct {
	rules []rule
}

// New 编译规则表构造分类器，保持传入顺序
func New(configs []RuleConfig) (*Classifier, error) {
	c := &Classifier{}
	for i, rc := range configs {
		if rc.Category == NoMatch {
			return nil, fmt.Errorf("规则 %d: 类别 ID 不能为 0（0 为未匹配哨兵值）", i)
		}
		if len(rc.Patterns) == 0 {
			return nil, fmt.Errorf("规则 %d: 模式列表不能为空", i)
		}
		r := rule{category: rc.Category}
		for _, p := range rc.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("规则 %d: 编译模式 %q 失败: %w", i, p, err)
			}
			r.patterns = append(r.patterns, re)
		}
		c.rules = append(c.rules, r)
	}
	return c, nil
}

// Classify 对描述文本逐条尝试规则，返回第一条命中规则的类别 ID
// 全部未命中返回 NoMatch
func (c *Classifier) Classify(text string) uint {
	for _, r := range c.rules {
		matched := true
		for _, re := range r.patterns {
			if !re.MatchString(text) {
				matched = false
				break
			}
		}
		if matched {
			return r.category
		}
	}
	return NoMatch
}
