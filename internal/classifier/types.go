package classifier

import "sort"

// TopicMatch 单段文本的匹配结果，三组均已排序
type TopicMatch struct {
	AITerms      []string `json:"ai_terms"`
	BiologyTerms []string `json:"biology_terms"`
	HybridTerms  []string `json:"hybrid_terms"`
}

func (m TopicMatch) HasAI() bool {
	return len(m.AITerms) > 0 || len(m.HybridTerms) > 0
}

func (m TopicMatch) HasBiology() bool {
	return len(m.BiologyTerms) > 0 || len(m.HybridTerms) > 0
}

func (m TopicMatch) IsRelevant() bool {
	return m.HasAI() && m.HasBiology()
}

// Keywords 三组关键词的并集，按字母排序
func (m TopicMatch) Keywords() []string {
	set := make(map[string]bool)
	for _, group := range [][]string{m.AITerms, m.BiologyTerms, m.HybridTerms} {
		for _, kw := range group {
			set[kw] = true
		}
	}
	keywords := make([]string, 0, len(set))
	for kw := range set {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)
	return keywords
}
