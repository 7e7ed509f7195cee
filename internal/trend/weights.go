package trend

import (
	"math"
	"time"

	"github.com/fachebot/bioai-trend-bot/internal/model"
)

// ItemWeight 单条内容对其每个规范话题的贡献
func (s *Scorer) ItemWeight(item *model.ContentItem, now time.Time) float64 {
	sourceType := item.SourceType
	if sourceType == "" {
		sourceType = model.SourceCommunity
	}

	weight, ok := s.cfg.BaseWeights[string(sourceType)]
	if !ok {
		weight = s.cfg.DefaultBaseWeight
	}
	weight *= s.SourceFactor(item.SourceName)
	weight *= s.RecencyFactor(item.Timestamp, now)
	if sourceType == model.SourceCommunity {
		weight *= s.EngagementFactor(item.Score, item.NumComments)
	}
	return weight
}

// SourceFactor 按来源名称的权重系数，默认 1.0
func (s *Scorer) SourceFactor(sourceName string) float64 {
	if sourceName == "" {
		return 1.0
	}
	if f, ok := s.cfg.SourceOverrides[sourceName]; ok {
		return f
	}
	return 1.0
}

// RecencyFactor 按内容年龄衰减，时间缺失或无法解析时为 1.0
func (s *Scorer) RecencyFactor(timestamp string, now time.Time) float64 {
	published, ok := model.ParseTimestamp(timestamp)
	if !ok {
		return 1.0
	}

	ageDays := now.Sub(published).Hours() / 24
	for _, step := range s.cfg.Recency {
		if ageDays < step.MaxAgeDays {
			return step.Factor
		}
	}
	return s.cfg.StaleFactor
}

// EngagementFactor 社区互动加成，封顶 1+EngagementCap
func (s *Scorer) EngagementFactor(score, numComments int) float64 {
	boost := math.Min(float64(score+numComments)/s.cfg.EngagementDivisor, s.cfg.EngagementCap)
	return 1 + boost
}
