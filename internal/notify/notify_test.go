package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zelenin/go-tdlib/client"
)

// mockSender 记录发送的消息
type mockSender struct {
	sent   []*client.SendMessageRequest
	failAt int // 第几次发送失败，0 表示不失败
}

func (m *mockSender) SendMessage(req *client.SendMessageRequest) (*client.Message, error) {
	m.sent = append(m.sent, req)
	if m.failAt > 0 && len(m.sent) == m.failAt {
		return nil, errors.New("flood wait")
	}
	return &client.Message{}, nil
}

func plainText(text string) *client.FormattedText {
	return &client.FormattedText{Text: text}
}

func newTestNotifier(sender messageSender, chatIds ...int64) *Notifier {
	return &Notifier{sender: sender, parseText: plainText, chatIds: chatIds}
}

func sentText(req *client.SendMessageRequest) string {
	return req.InputMessageContent.(*client.InputMessageText).Text.Text
}

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name    string
		content string
		limit   int
		want    []string
	}{
		{"不超长原样返回", "short\n\ntext", 20, []string{"short\n\ntext"}},
		{"按段落合并", "aaaa\n\nbbbb\n\ncccc", 10, []string{"aaaa\n\nbbbb", "cccc"}},
		{"段落超长按行拆分", "aaaa\nbbbb\ncccc\n\ndd", 10, []string{"aaaa\nbbbb", "cccc", "dd"}},
		{"单行超长硬切", "abcdefghijkl", 5, []string{"abcde", "fghij", "kl"}},
		{"按字符而非字节计数", "一二三四五六", 3, []string{"一二三", "四五六"}},
		{"单行超长优先按空白切分", "aaa bbb ccc", 8, []string{"aaa bbb", "ccc"}},
		{"不拆开链接元素", `intro <a href="u">x y</a> more words`, 24, []string{"intro", `<a href="u">x y</a>`, "more words"}},
		{"不拆开字符实体", "abc&amp;def", 5, []string{"abc", "&amp;", "def"}},
		{"跳过空段落", "aaaa\n\n\n\nbbbbbbbb", 8, []string{"aaaa", "bbbbbbbb"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitMessage(tt.content, tt.limit)
			assert.Equal(t, tt.want, got)
			for _, msg := range got {
				assert.LessOrEqual(t, utf8.RuneCountInString(msg), tt.limit)
			}
		})
	}
}

func TestNotify_SendsToEveryChat(t *testing.T) {
	sender := &mockSender{}
	n := newTestNotifier(sender, 100, 200)

	content := strings.Repeat("a", MaxMessageLength) + "\n\n" + "tail"
	require.NoError(t, n.Notify(context.Background(), content))

	require.Len(t, sender.sent, 4)
	assert.Equal(t, int64(100), sender.sent[0].ChatId)
	assert.Equal(t, "tail", sentText(sender.sent[1]))
	assert.Equal(t, int64(200), sender.sent[2].ChatId)
}

func TestNotify_EmptyContentOrNoChats(t *testing.T) {
	sender := &mockSender{}
	require.NoError(t, newTestNotifier(sender, 1).Notify(context.Background(), ""))
	require.NoError(t, newTestNotifier(sender).Notify(context.Background(), "hello"))
	assert.Empty(t, sender.sent)
}

func TestNotify_SendError(t *testing.T) {
	sender := &mockSender{failAt: 2}
	n := newTestNotifier(sender, 100, 200)

	err := n.Notify(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "发送消息到聊天 200 失败")
}

func TestNotify_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sender := &mockSender{}
	err := newTestNotifier(sender, 1).Notify(ctx, "hello")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sender.sent)
}
