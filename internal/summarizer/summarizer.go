package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fachebot/bioai-trend-bot/internal/config"
	"github.com/fachebot/bioai-trend-bot/internal/llm"
	"github.com/fachebot/bioai-trend-bot/internal/logger"
	"github.com/fachebot/bioai-trend-bot/internal/model"
	"github.com/fachebot/bioai-trend-bot/internal/normalizer"
)

const fallbackBodyRunes = 300

// llmSummarizer 调用 LLM 总结话题（便于测试注入 mock）
type llmSummarizer interface {
	SummarizeTopic(ctx context.Context, topic string, items []model.ContentItem) (*llm.TopicSummary, error)
}

// topicNormalizer 将内容关键词映射为规范话题
type topicNormalizer interface {
	Normalize(raw []string) []string
}

type Summarizer struct {
	llmClient  llmSummarizer
	normalizer topicNormalizer
	topStories int
	highlights int
}

// NewSummarizer llmClient 为 nil 时所有话题使用兜底摘要
func NewSummarizer(llmClient *llm.Client, n *normalizer.Normalizer, cfg *config.Report) *Summarizer {
	s := &Summarizer{
		normalizer: n,
		topStories: cfg.TopStories,
		highlights: cfg.Highlights,
	}
	if llmClient != nil {
		s.llmClient = llmClient
	}
	return s
}

// escapeHTML 对文本进行 HTML 转义，防止注入及破坏标签
// 转义：& < > "
func escapeHTML(text string) string {
	result := strings.ReplaceAll(text, "&", "&amp;")
	result = strings.ReplaceAll(result, "<", "&lt;")
	result = strings.ReplaceAll(result, ">", "&gt;")
	result = strings.ReplaceAll(result, "\"", "&quot;")
	return result
}

// topicItems 返回贡献给指定话题的内容，保持输入顺序
func (s *Summarizer) topicItems(topic string, items []model.ContentItem) []model.ContentItem {
	var matched []model.ContentItem
	for i := range items {
		for _, t := range s.normalizer.Normalize(items[i].MatchedKeywords) {
			if t == topic {
				matched = append(matched, items[i])
				break
			}
		}
	}
	return matched
}

// FallbackSummary 不经 LLM 的摘要：取首条内容的正文（或标题），多来源时附加讨论规模
func FallbackSummary(items []model.ContentItem) string {
	if len(items) == 0 {
		return "No articles found for this topic."
	}

	primary := items[0]
	summary := primary.Body
	if runes := []rune(summary); len(runes) > fallbackBodyRunes {
		summary = string(runes[:fallbackBodyRunes]) + "..."
	}
	if summary == "" {
		summary = primary.Title
	}
	if summary == "" {
		summary = "No summary available."
	}

	if len(items) > 1 {
		summary += fmt.Sprintf(" This story has generated discussion across %d sources.", len(items))
	}
	return summary
}

func (s *Summarizer) summarizeTopic(ctx context.Context, trend *model.TrendRecord, items []model.ContentItem) TopicDigest {
	digest := TopicDigest{
		Topic:     trend.Topic,
		Score:     trend.Score,
		Mentions:  trend.Mentions,
		Sentiment: trend.DominantSentiment,
	}

	contributors := s.topicItems(trend.Topic, items)
	if s.llmClient == nil || len(contributors) == 0 {
		digest.Summary = FallbackSummary(contributors)
		digest.Fallback = true
		return digest
	}

	result, err := s.llmClient.SummarizeTopic(ctx, trend.Topic, contributors)
	if err != nil {
		logger.Warnf("[Summarizer] 话题 %s 的 LLM 摘要失败，使用兜底摘要: %v", trend.Topic, err)
		digest.Summary = FallbackSummary(contributors)
		digest.Fallback = true
		return digest
	}

	digest.Summary = result.Text
	digest.Citations = result.Citations
	digest.Issues = QACheck(result.Text, result.Citations)
	if len(digest.Issues) > 0 {
		logger.Warnf("[Summarizer] 话题 %s 的摘要存在引用问题: %s", trend.Topic, strings.Join(digest.Issues, "; "))
	}
	return digest
}

// Summarize 为报告中的每个趋势话题生成摘要，并挑选头条与社区热帖
func (s *Summarizer) Summarize(ctx context.Context, report *model.TrendReport, items []model.ContentItem, now time.Time) (*Digest, error) {
	logger.Infof("[Summarizer] 开始生成周报摘要，共 %d 个趋势话题", len(report.TrendingTopics))

	digest := &Digest{
		GeneratedAt: report.GeneratedAt,
		Overview:    report.OverviewSummary,
		Topics:      make([]TopicDigest, 0, len(report.TrendingTopics)),
		TopStories:  SelectTopStories(items, s.topStories, now),
		Highlights:  SelectCommunityHighlights(items, s.highlights),
	}

	for i := range report.TrendingTopics {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		digest.Topics = append(digest.Topics, s.summarizeTopic(ctx, &report.TrendingTopics[i], items))
	}

	logger.Infof("[Summarizer] 完成摘要，头条 %d 条，社区热帖 %d 条", len(digest.TopStories), len(digest.Highlights))
	return digest, nil
}

func writeItemLine(sb *strings.Builder, item *model.ContentItem) {
	title := escapeHTML(item.Title)
	if item.URL != "" {
		title = fmt.Sprintf("<a href=\"%s\">%s</a>", escapeHTML(item.URL), title)
	}
	sb.WriteString(fmt.Sprintf("- %s", title))
	if item.SourceName != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", escapeHTML(item.SourceName)))
	}
	sb.WriteString("\n")
}

// FormatDigestForDisplay 将 Digest 格式化为 Telegram HTML 文本
// 使用 Telegram HTML 语法：<b>粗体</b>、<a href="url">标题</a>
func FormatDigestForDisplay(d *Digest, startDate, endDate string) string {
	if d == nil {
		return ""
	}

	var sb strings.Builder

	// 头部
	sb.WriteString("🧬 <b>Bio+AI 趋势周报</b>\n")
	sb.WriteString(fmt.Sprintf("📅 %s 至 %s (UTC)\n", escapeHTML(startDate), escapeHTML(endDate)))
	if d.Overview != "" {
		sb.WriteString("\n" + escapeHTML(d.Overview) + "\n")
	}

	if len(d.Topics) > 0 {
		sb.WriteString("\n🔥 <b>热门话题</b>\n")
		for i, topic := range d.Topics {
			sb.WriteString(fmt.Sprintf("\n%d. <b>%s</b> · 得分 %.2f · %d 次提及 · %s\n",
				i+1, escapeHTML(topic.Topic), topic.Score, topic.Mentions, escapeHTML(string(topic.Sentiment))))
			sb.WriteString(escapeHTML(topic.Summary) + "\n")
			for _, c := range topic.Citations {
				sb.WriteString(escapeHTML(c) + "\n")
			}
		}
	}

	if len(d.TopStories) > 0 {
		sb.WriteString("\n📰 <b>头条</b>\n")
		for i := range d.TopStories {
			writeItemLine(&sb, &d.TopStories[i])
		}
	}

	if len(d.Highlights) > 0 {
		sb.WriteString("\n💬 <b>社区热帖</b>\n")
		for i := range d.Highlights {
			writeItemLine(&sb, &d.Highlights[i])
		}
	}

	return sb.String()
}
