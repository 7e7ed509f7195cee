package sentiment

import (
	"strings"

	"github.com/fachebot/bioai-trend-bot/internal/config"
	"github.com/fachebot/bioai-trend-bot/internal/model"
)

const (
	ProfileReddit     = "reddit"
	ProfileHackerNews = "hackernews"
)

// Tagger 根据情感词与社区得分推断帖子情感
type Tagger struct {
	positive []string
	negative []string
	profiles map[string]config.SentimentProfile
}

func NewTagger(rules *config.SentimentRules) *Tagger {
	return &Tagger{
		positive: lowerAll(rules.PositiveWords),
		negative: lowerAll(rules.NegativeWords),
		profiles: rules.Profiles,
	}
}

// ProfileFor 根据来源名称选择阈值档位
func ProfileFor(sourceName string) string {
	name := strings.ToLower(sourceName)
	if strings.HasPrefix(name, "r/") || strings.Contains(name, "reddit") {
		return ProfileReddit
	}
	return ProfileHackerNews
}

// Tag 情感词按子串计数；未知档位返回 neutral
func (t *Tagger) Tag(text string, score int, profile string) model.Sentiment {
	p, ok := t.profiles[profile]
	if !ok {
		return model.SentimentNeutral
	}

	lowered := strings.ToLower(text)
	pos := countWords(lowered, t.positive)
	neg := countWords(lowered, t.negative)

	veryPositive := pos >= neg
	if p.StrictVeryPositive {
		veryPositive = pos > neg
	}

	switch {
	case score > p.VeryPositiveScore && veryPositive:
		return model.SentimentVeryPositive
	case score > p.PositiveScore && pos >= neg:
		return model.SentimentPositive
	case score < p.NegativeScore || neg > pos:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

func countWords(text string, words []string) int {
	count := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			count++
		}
	}
	return count
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}
