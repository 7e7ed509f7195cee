package notify

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fachebot/bioai-trend-bot/internal/config"
	"github.com/fachebot/bioai-trend-bot/internal/logger"
	"github.com/zelenin/go-tdlib/client"
)

const (
	MaxMessageLength = 4096 // Telegram 单条消息最大字符数
)

// messageSender 发送 Telegram 消息（便于测试注入 mock）
type messageSender interface {
	SendMessage(req *client.SendMessageRequest) (*client.Message, error)
}

type Notifier struct {
	sender    messageSender
	parseText func(text string) *client.FormattedText
	chatIds   []int64
}

func NewNotifier(tdClient *client.Client, cfg *config.Notify) *Notifier {
	return &Notifier{
		sender:    tdClient,
		parseText: parseHTMLText,
		chatIds:   cfg.ChatIds,
	}
}

// Notify 将内容拆分后依次发送到所有配置的聊天
func (n *Notifier) Notify(ctx context.Context, content string) error {
	if content == "" {
		return nil
	}
	if len(n.chatIds) == 0 {
		logger.Warnf("[Notify] 未配置通知聊天ID")
		return nil
	}

	messages := splitMessage(content, MaxMessageLength)

	for _, chatID := range n.chatIds {
		for i, msg := range messages {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			_, err := n.sender.SendMessage(&client.SendMessageRequest{
				ChatId: chatID,
				InputMessageContent: &client.InputMessageText{
					Text: n.parseText(msg),
				},
			})
			if err != nil {
				return fmt.Errorf("发送消息到聊天 %d 失败 (第 %d/%d 段): %w", chatID, i+1, len(messages), err)
			}
		}
		logger.Infof("[Notify] 已发送周报到聊天 %d，共 %d 段", chatID, len(messages))
	}

	return nil
}

// parseHTMLText 使用 TDLib 的 HTML 解析能力，将 HTML 文本转换为带实体的 FormattedText。
// 支持的 HTML 标签：<b>粗体</b>、<a href="url">链接</a>
func parseHTMLText(text string) *client.FormattedText {
	if text == "" {
		return &client.FormattedText{Text: text}
	}

	formatted, err := client.ParseTextEntities(&client.ParseTextEntitiesRequest{
		Text:      text,
		ParseMode: &client.TextParseModeHTML{},
	})
	if err != nil {
		logger.Warnf("[Notify] 解析 HTML 文本失败，回退为纯文本发送: %v", err)
		return &client.FormattedText{Text: text}
	}
	return formatted
}

// splitMessage 按段落、换行依次拆分，单行仍超长时在空白或标签边界处切分
func splitMessage(content string, limit int) []string {
	return packPieces(content, limit, []string{"\n\n", "\n"})
}

func packPieces(text string, limit int, seps []string) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}
	if len(seps) == 0 {
		return chunkHTML(text, limit)
	}

	sep := seps[0]
	var messages []string
	current := ""
	for _, part := range strings.Split(text, sep) {
		if strings.TrimSpace(part) == "" {
			continue
		}

		candidate := part
		if current != "" {
			candidate = current + sep + part
		}
		if utf8.RuneCountInString(candidate) <= limit {
			current = candidate
			continue
		}

		// 当前消息已满，保存并开始新消息
		if current != "" {
			messages = append(messages, current)
			current = ""
		}
		if utf8.RuneCountInString(part) <= limit {
			current = part
			continue
		}
		messages = append(messages, packPieces(part, limit, seps[1:])...)
	}

	if current != "" {
		messages = append(messages, current)
	}
	return messages
}

// chunkHTML 切分超长单行，不拆开 HTML 标签、元素与字符实体
func chunkHTML(text string, limit int) []string {
	runes := []rune(text)
	var chunks []string
	for len(runes) > limit {
		cut := safeCut(runes, limit)
		if chunk := strings.TrimSpace(string(runes[:cut])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		runes = runes[cut:]
	}
	if rest := strings.TrimSpace(string(runes)); rest != "" {
		chunks = append(chunks, rest)
	}
	return chunks
}

// safeCut 返回不超过 limit 的切分位置：优先元素外的空白，其次元素边界，都没有时硬切
func safeCut(runes []rune, limit int) int {
	var (
		inTag, closing, inEntity bool
		depth                    int
		lastSpace, lastSafe      int
	)
	for i := 0; i < limit; i++ {
		r := runes[i]
		switch {
		case inTag:
			if r == '>' {
				inTag = false
				if closing {
					depth = max(depth-1, 0)
				} else {
					depth++
				}
			}
		case r == '<':
			inTag = true
			closing = i+1 < len(runes) && runes[i+1] == '/'
		case inEntity:
			inEntity = r != ';'
		case r == '&':
			inEntity = true
		}

		if inTag || inEntity || depth > 0 {
			continue
		}
		lastSafe = i + 1
		if unicode.IsSpace(r) {
			lastSpace = i + 1
		}
	}

	switch {
	case lastSpace > 0:
		return lastSpace
	case lastSafe > 0:
		return lastSafe
	default:
		return limit
	}
}
