package summarizer

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/fachebot/bioai-trend-bot/internal/model"
)

// TopicDigest 单个趋势话题的摘要
type TopicDigest struct {
	Topic     string          `json:"keyword"`
	Score     float64         `json:"score"`
	Mentions  int             `json:"mentions"`
	Sentiment model.Sentiment `json:"community_sentiment"`
	Summary   string          `json:"summary"`
	Citations []string        `json:"citations"`
	Issues    []string        `json:"qa_issues,omitempty"`
	Fallback  bool            `json:"fallback"` // 未经 LLM 生成
}

// Digest 一期周报的可投递内容
type Digest struct {
	GeneratedAt time.Time           `json:"generated_at"`
	Overview    string              `json:"overview_summary"`
	Topics      []TopicDigest       `json:"topics"`
	TopStories  []model.ContentItem `json:"-"`
	Highlights  []model.ContentItem `json:"-"`
}

// StoryRef 头条与社区热帖落盘时的精简引用
type StoryRef struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	URL         string `json:"url,omitempty"`
	Published   string `json:"published,omitempty"`
	Score       int    `json:"score,omitempty"`
	NumComments int    `json:"num_comments,omitempty"`
}

func storyRefs(items []model.ContentItem) []StoryRef {
	refs := make([]StoryRef, 0, len(items))
	for i := range items {
		item := &items[i]
		refs = append(refs, StoryRef{
			Title:       item.Title,
			Source:      item.SourceName,
			URL:         item.URL,
			Published:   item.Timestamp,
			Score:       item.Score,
			NumComments: item.NumComments,
		})
	}
	return refs
}

// MarshalJSON 将头条与社区热帖输出为 StoryRef 列表
func (d Digest) MarshalJSON() ([]byte, error) {
	type plain Digest
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(struct {
		plain
		TopStories []StoryRef `json:"top_stories"`
		Highlights []StoryRef `json:"community_highlights"`
	}{
		plain:      plain(d),
		TopStories: storyRefs(d.TopStories),
		Highlights: storyRefs(d.Highlights),
	})
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
