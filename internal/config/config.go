package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

type Sock5Proxy struct {
	Host   string `yaml:"Host"`
	Port   int32  `yaml:"Port"`
	Enable bool   `yaml:"Enable"`
}

type TelegramApp struct {
	ApiId   int32  `yaml:"ApiId"`
	ApiHash string `yaml:"ApiHash"`
}

type LLM struct {
	BaseURL   string `yaml:"BaseURL"` // 兼容 OpenAI API 的端点
	APIKey    string `yaml:"APIKey"`  // 为空时话题摘要使用本地兜底文案
	Model     string `yaml:"Model"`
	MaxTokens int    `yaml:"MaxTokens"` // 单次摘要输出上限
	RPM       int    `yaml:"RPM"`       // 每分钟请求数上限
	Burst     int    `yaml:"Burst"`
}

type Report struct {
	Cron          string   `yaml:"Cron"`          // cron 表达式，如 "0 8 * * 1"
	InputFiles    []string `yaml:"InputFiles"`    // 上游采集器输出的 JSON 文件
	OutputDir     string   `yaml:"OutputDir"`     // 报告 JSON 输出目录
	RetryTimes    int      `yaml:"RetryTimes"`    // 失败重试次数，默认 3
	RetryInterval int      `yaml:"RetryInterval"` // 重试间隔（秒），默认 60
	TopStories    int      `yaml:"TopStories"`    // 摘要中展示的头条数量
	Highlights    int      `yaml:"Highlights"`    // 摘要中展示的社区热帖数量
}

type Notify struct {
	Enable  bool    `yaml:"Enable"`
	ChatIds []int64 `yaml:"ChatIds"` // 接收周报的聊天ID列表
}

type Metrics struct {
	Enable bool   `yaml:"Enable"`
	Addr   string `yaml:"Addr"` // 如 ":9102"
}

// Vocabulary 三组主题词表，均按小写匹配
type Vocabulary struct {
	AITerms      []string `yaml:"AITerms"`
	BiologyTerms []string `yaml:"BiologyTerms"`
	HybridTerms  []string `yaml:"HybridTerms"`
}

// NormalizationGroup 规范话题及其涵盖的原始关键词变体
type NormalizationGroup struct {
	Name     string   `yaml:"Name"`
	Variants []string `yaml:"Variants"`
}

// RecencyStep 内容年龄小于 MaxAgeDays 时使用 Factor
type RecencyStep struct {
	MaxAgeDays float64 `yaml:"MaxAgeDays"`
	Factor     float64 `yaml:"Factor"`
}

type Scoring struct {
	BaseWeights       map[string]float64 `yaml:"BaseWeights"`       // 按来源类型的基础权重
	DefaultBaseWeight float64            `yaml:"DefaultBaseWeight"` // 未知来源类型
	SourceOverrides   map[string]float64 `yaml:"SourceOverrides"`   // 按来源名称的权重系数
	Recency           []RecencyStep      `yaml:"Recency"`           // 按 MaxAgeDays 升序
	StaleFactor       float64            `yaml:"StaleFactor"`       // 超出所有 Recency 档位
	EngagementDivisor float64            `yaml:"EngagementDivisor"`
	EngagementCap     float64            `yaml:"EngagementCap"`
	MinScore          float64            `yaml:"MinScore"` // 入选趋势的最低得分（含）
	TopN              int                `yaml:"TopN"`
}

// SentimentProfile 情感推断的得分阈值
type SentimentProfile struct {
	VeryPositiveScore  int  `yaml:"VeryPositiveScore"`
	PositiveScore      int  `yaml:"PositiveScore"`
	NegativeScore      int  `yaml:"NegativeScore"`
	StrictVeryPositive bool `yaml:"StrictVeryPositive"` // true 时 very_positive 要求正向词严格多于负向词
}

type SentimentRules struct {
	PositiveWords []string                    `yaml:"PositiveWords"`
	NegativeWords []string                    `yaml:"NegativeWords"`
	Profiles      map[string]SentimentProfile `yaml:"Profiles"`
}

// Engine 趋势引擎的策略表，进程启动时加载后只读
type Engine struct {
	Vocabulary          Vocabulary           `yaml:"Vocabulary"`
	NormalizationGroups []NormalizationGroup `yaml:"NormalizationGroups"`
	Scoring             Scoring              `yaml:"Scoring"`
	Sentiment           SentimentRules       `yaml:"Sentiment"`
}

type Config struct {
	Sock5Proxy  Sock5Proxy  `yaml:"Sock5Proxy"`
	TelegramApp TelegramApp `yaml:"TelegramApp"`
	LLM         LLM         `yaml:"LLM"`
	Report      Report      `yaml:"Report"`
	Notify      Notify      `yaml:"Notify"`
	Metrics     Metrics     `yaml:"Metrics"`
	Engine      Engine      `yaml:"Engine"`
}

func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse 解析 YAML 配置，补齐默认值后校验
func Parse(data []byte) (*Config, error) {
	// 标量评分参数预置默认值，YAML 中显式写 0 时保留 0
	c := Config{Engine: Engine{Scoring: scalarScoringDefaults()}}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}

	c.applyDefaults()

	// 验证配置
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// applyDefaults 未配置的字段使用内置默认值
func (c *Config) applyDefaults() {
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 400
	}
	if c.LLM.RPM <= 0 {
		c.LLM.RPM = 20
	}
	if c.LLM.Burst <= 0 {
		c.LLM.Burst = 1
	}

	if c.Report.Cron == "" {
		c.Report.Cron = "0 8 * * 1"
	}
	if c.Report.OutputDir == "" {
		c.Report.OutputDir = "data/reports"
	}
	if c.Report.RetryTimes == 0 {
		c.Report.RetryTimes = 3
	}
	if c.Report.RetryInterval == 0 {
		c.Report.RetryInterval = 60
	}
	if c.Report.TopStories == 0 {
		c.Report.TopStories = 5
	}
	if c.Report.Highlights == 0 {
		c.Report.Highlights = 5
	}

	c.Engine.applyDefaults()
}

// scalarScoringDefaults 只含标量字段的评分默认值，表类字段由 applyDefaults 补齐
func scalarScoringDefaults() Scoring {
	def := defaultScoring()
	return Scoring{
		DefaultBaseWeight: def.DefaultBaseWeight,
		StaleFactor:       def.StaleFactor,
		EngagementDivisor: def.EngagementDivisor,
		EngagementCap:     def.EngagementCap,
		MinScore:          def.MinScore,
		TopN:              def.TopN,
	}
}

func (e *Engine) applyDefaults() {
	def := DefaultEngine()

	v := &e.Vocabulary
	if len(v.AITerms) == 0 && len(v.BiologyTerms) == 0 && len(v.HybridTerms) == 0 {
		e.Vocabulary = def.Vocabulary
	}
	if len(e.NormalizationGroups) == 0 {
		e.NormalizationGroups = def.NormalizationGroups
	}

	s := &e.Scoring
	if len(s.BaseWeights) == 0 {
		s.BaseWeights = def.Scoring.BaseWeights
	}
	if s.SourceOverrides == nil {
		s.SourceOverrides = def.Scoring.SourceOverrides
	}
	if len(s.Recency) == 0 {
		s.Recency = def.Scoring.Recency
	}
	sort.SliceStable(s.Recency, func(i, j int) bool {
		return s.Recency[i].MaxAgeDays < s.Recency[j].MaxAgeDays
	})

	r := &e.Sentiment
	if len(r.PositiveWords) == 0 {
		r.PositiveWords = def.Sentiment.PositiveWords
	}
	if len(r.NegativeWords) == 0 {
		r.NegativeWords = def.Sentiment.NegativeWords
	}
	if len(r.Profiles) == 0 {
		r.Profiles = def.Sentiment.Profiles
	}
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	// 验证 TelegramApp
	if c.Notify.Enable {
		if c.TelegramApp.ApiId == 0 {
			return fmt.Errorf("TelegramApp.ApiId 不能为空（当 Notify.Enable 为 true 时）")
		}
		if c.TelegramApp.ApiHash == "" {
			return fmt.Errorf("TelegramApp.ApiHash 不能为空（当 Notify.Enable 为 true 时）")
		}
		if len(c.Notify.ChatIds) == 0 {
			return fmt.Errorf("Notify.ChatIds 不能为空（当 Notify.Enable 为 true 时）")
		}
	}

	// 验证 LLM
	if c.LLM.APIKey != "" {
		if c.LLM.BaseURL == "" {
			return fmt.Errorf("LLM.BaseURL 不能为空")
		}
		if c.LLM.Model == "" {
			return fmt.Errorf("LLM.Model 不能为空")
		}
	}

	// 验证 Report
	if len(c.Report.InputFiles) == 0 {
		return fmt.Errorf("Report.InputFiles 不能为空")
	}
	if c.Report.RetryTimes < 0 {
		return fmt.Errorf("Report.RetryTimes 必须 >= 0")
	}
	if c.Report.RetryInterval < 0 {
		return fmt.Errorf("Report.RetryInterval 必须 >= 0")
	}
	if c.Metrics.Enable && c.Metrics.Addr == "" {
		return fmt.Errorf("Metrics.Addr 不能为空（当 Metrics.Enable 为 true 时）")
	}

	return c.Engine.Validate()
}

// Validate 验证策略表
func (e *Engine) Validate() error {
	for i, g := range e.NormalizationGroups {
		if g.Name == "" {
			return fmt.Errorf("Engine.NormalizationGroups[%d].Name 不能为空", i)
		}
	}
	if e.Scoring.MinScore < 0 {
		return fmt.Errorf("Engine.Scoring.MinScore 必须 >= 0")
	}
	if e.Scoring.TopN < 0 {
		return fmt.Errorf("Engine.Scoring.TopN 必须 >= 0")
	}
	if e.Scoring.StaleFactor < 0 {
		return fmt.Errorf("Engine.Scoring.StaleFactor 必须 >= 0")
	}
	if e.Scoring.EngagementCap < 0 {
		return fmt.Errorf("Engine.Scoring.EngagementCap 必须 >= 0")
	}
	if e.Scoring.EngagementDivisor <= 0 {
		return fmt.Errorf("Engine.Scoring.EngagementDivisor 必须大于 0")
	}
	for i, step := range e.Scoring.Recency {
		if step.Factor <= 0 {
			return fmt.Errorf("Engine.Scoring.Recency[%d].Factor 必须大于 0", i)
		}
	}
	return nil
}
