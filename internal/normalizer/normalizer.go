package normalizer

import (
	"strings"

	"github.com/fachebot/bioai-trend-bot/internal/config"
)

type group struct {
	name     string
	variants []string
}

// Normalizer 将原始关键词映射为规范话题，构造后只读
type Normalizer struct {
	groups   []group
	variants map[string]bool // 所有分组变体的并集
}

func New(groups []config.NormalizationGroup) *Normalizer {
	n := &Normalizer{
		groups:   make([]group, 0, len(groups)),
		variants: make(map[string]bool),
	}
	for _, g := range groups {
		compiled := group{name: g.Name}
		for _, v := range g.Variants {
			v = strings.ToLower(strings.TrimSpace(v))
			if v == "" {
				continue
			}
			compiled.variants = append(compiled.variants, v)
			n.variants[v] = true
		}
		n.groups = append(n.groups, compiled)
	}
	return n
}

// Normalize 按分组顺序输出命中的规范话题，一个关键词可命中多个分组；
// 不属于任何分组的关键词以小写形式追加在后
func (n *Normalizer) Normalize(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}

	lowered := make([]string, 0, len(raw))
	present := make(map[string]bool, len(raw))
	for _, kw := range raw {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		lowered = append(lowered, kw)
		present[kw] = true
	}

	result := make([]string, 0, len(lowered))
	used := make(map[string]bool)
	for _, g := range n.groups {
		if used[g.name] {
			continue
		}
		for _, v := range g.variants {
			if present[v] {
				result = append(result, g.name)
				used[g.name] = true
				break
			}
		}
	}

	for _, kw := range lowered {
		if used[kw] || n.variants[kw] {
			continue
		}
		result = append(result, kw)
		used[kw] = true
	}

	return result
}
