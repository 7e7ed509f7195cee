package classifier

import (
	"regexp"
	"sort"
	"strings"

	"github.com/fachebot/bioai-trend-bot/internal/config"
)

// 字母、数字、组合符号与下划线视为词内字符
const (
	leftBoundary  = `(?:^|[^\pL\pN\pM_])`
	rightBoundary = `(?:[^\pL\pN\pM_]|$)`
)

type term struct {
	keyword string
	pattern *regexp.Regexp
}

// Classifier 判断文本是否同时涉及 AI 与生命科学，构造后只读，可并发使用
type Classifier struct {
	ai      []term
	biology []term
	hybrid  []term
}

func New(vocab *config.Vocabulary) *Classifier {
	return &Classifier{
		ai:      compileTerms(vocab.AITerms),
		biology: compileTerms(vocab.BiologyTerms),
		hybrid:  compileTerms(vocab.HybridTerms),
	}
}

// compileTerms 每个词编译为整词匹配的正则，重复词只保留一个
func compileTerms(keywords []string) []term {
	seen := make(map[string]bool, len(keywords))
	terms := make([]term, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		terms = append(terms, term{
			keyword: kw,
			pattern: regexp.MustCompile(leftBoundary + regexp.QuoteMeta(kw) + rightBoundary),
		})
	}
	return terms
}

func findMatches(text string, terms []term) map[string]bool {
	found := make(map[string]bool)
	for _, t := range terms {
		if t.pattern.MatchString(text) {
			found[t.keyword] = true
		}
	}
	return found
}

// Classify 返回文本命中的三组关键词，混合词同时并入 AI 与生命科学两组
func (c *Classifier) Classify(text string) TopicMatch {
	if strings.TrimSpace(text) == "" {
		return TopicMatch{}
	}

	lowered := strings.ToLower(text)
	ai := findMatches(lowered, c.ai)
	bio := findMatches(lowered, c.biology)
	hybrid := findMatches(lowered, c.hybrid)

	for kw := range hybrid {
		ai[kw] = true
		bio[kw] = true
	}

	return TopicMatch{
		AITerms:      sortedKeys(ai),
		BiologyTerms: sortedKeys(bio),
		HybridTerms:  sortedKeys(hybrid),
	}
}

// IsRelevant 文本是否属于 Bio+AI 交叉领域
func (c *Classifier) IsRelevant(text string) bool {
	return c.Classify(text).IsRelevant()
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
