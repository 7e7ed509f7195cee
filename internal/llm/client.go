package llm

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/fachebot/bioai-trend-bot/internal/config"
	"github.com/fachebot/bioai-trend-bot/internal/logger"
	"github.com/fachebot/bioai-trend-bot/internal/model"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// MaxSourcesPerTopic 单个话题最多引用的内容条数
const MaxSourcesPerTopic = 5

const maxBodyRunes = 600

const systemPrompt = "You are a skilled science journalist writing for a weekly Bio+AI newsletter. " +
	"Create engaging, informative summaries that capture both technical details and human interest."

var (
	webArtifactPattern = regexp.MustCompile(`(?i)(continue reading|read more|click here)`)
	spacePattern       = regexp.MustCompile(`\s+`)
)

// openAIClientInterface 定义 OpenAI 客户端接口，便于测试
type openAIClientInterface interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// TopicSummary 话题摘要正文及其引用列表，引用编号从 1 开始
type TopicSummary struct {
	Text      string
	Citations []string
}

type Client struct {
	config       *config.LLM
	openaiClient openAIClientInterface
	limiter      *rate.Limiter
}

// NewClient transport 为 nil 时使用默认 HTTP 客户端
func NewClient(cfg *config.LLM, transport *http.Transport) *Client {
	openaiConfig := openai.DefaultConfig(cfg.APIKey)
	openaiConfig.BaseURL = cfg.BaseURL
	if transport != nil {
		openaiConfig.HTTPClient = &http.Client{Transport: transport}
	}

	return &Client{
		config:       cfg,
		openaiClient: openai.NewClientWithConfig(openaiConfig),
		limiter:      rate.NewLimiter(rate.Limit(float64(cfg.RPM)/60.0), cfg.Burst),
	}
}

// cleanForPrompt 去除网页残留文字并合并空白
func cleanForPrompt(text string) string {
	text = webArtifactPattern.ReplaceAllString(text, "")
	text = spacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func truncateRunes(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

// formatItemForPrompt 将单条内容格式化为带编号的提示片段
func formatItemForPrompt(index int, item *model.ContentItem) string {
	source := item.SourceName
	if source == "" {
		source = "Unknown"
	}
	published := item.Timestamp
	if published == "" {
		published = "Unknown date"
	}

	var metrics []string
	if item.IsCommunity() {
		metrics = append(metrics, fmt.Sprintf("Score: %d", item.Score))
	}
	if item.NumComments > 0 {
		metrics = append(metrics, fmt.Sprintf("Comments: %d", item.NumComments))
	}
	if item.Sentiment != "" {
		metrics = append(metrics, fmt.Sprintf("Sentiment: %s", item.Sentiment))
	}
	metricLine := "None reported"
	if len(metrics) > 0 {
		metricLine = strings.Join(metrics, ", ")
	}

	return fmt.Sprintf("[%d] Title: %s\nSource: %s\nPublished: %s\nMetrics: %s\nSummary: %s",
		index, item.Title, source, published, metricLine,
		truncateRunes(cleanForPrompt(item.Body), maxBodyRunes))
}

// buildTopicPrompt 返回提示文本与对应的引用列表
func buildTopicPrompt(topic string, items []model.ContentItem) (string, []string) {
	if len(items) > MaxSourcesPerTopic {
		items = items[:MaxSourcesPerTopic]
	}

	parts := make([]string, 0, len(items))
	citations := make([]string, 0, len(items))
	for i := range items {
		item := &items[i]
		parts = append(parts, formatItemForPrompt(i+1, item))
		citations = append(citations, fmt.Sprintf("[%d] %s: %s - %s", i+1, item.SourceName, item.Title, item.URL))
	}

	prompt := fmt.Sprintf(`Write a concise two-paragraph newsletter summary about the Bio+AI topic "%s" using the following sources.

Style guidelines:
- Paragraph 1 (2-3 sentences): capture core developments and cite the most relevant sources.
- Paragraph 2 (2-3 sentences): explain impact, highlight metrics or sentiment, and compare viewpoints when possible.
- Keep an authoritative yet approachable tone; avoid hype.
- Reference sources as [1], [2], etc., and ensure every listed citation is used.
- No bullet points.
- Do NOT include any headers, titles, or markdown formatting - just the two paragraphs.

Content to summarize:
%s

Summary:`, topic, strings.Join(parts, "\n\n"))

	return prompt, citations
}

// trimCodeFence 去除模型偶尔包裹的 Markdown 代码块
func trimCodeFence(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```markdown")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// SummarizeTopic 为一个趋势话题生成带引用编号的摘要，最多使用前 5 条内容
func (c *Client) SummarizeTopic(ctx context.Context, topic string, items []model.ContentItem) (*TopicSummary, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("话题 %s 没有可总结的内容", topic)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("等待 LLM 限流失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	prompt, citations := buildTopicPrompt(topic, items)
	req := openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   c.config.MaxTokens,
	}

	logger.Debugf("[LLM] 总结话题 %s，引用 %d 条内容", topic, len(citations))
	resp, err := c.openaiClient.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("调用 LLM API 失败: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("LLM API 返回空结果")
	}

	text := trimCodeFence(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, fmt.Errorf("LLM API 返回空摘要")
	}

	return &TopicSummary{Text: text, Citations: citations}, nil
}
