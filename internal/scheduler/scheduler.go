package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fachebot/bioai-trend-bot/internal/config"
	"github.com/fachebot/bioai-trend-bot/internal/engine"
	"github.com/fachebot/bioai-trend-bot/internal/ingest"
	"github.com/fachebot/bioai-trend-bot/internal/logger"
	"github.com/fachebot/bioai-trend-bot/internal/metrics"
	"github.com/fachebot/bioai-trend-bot/internal/model"
	"github.com/fachebot/bioai-trend-bot/internal/notify"
	"github.com/fachebot/bioai-trend-bot/internal/report"
	"github.com/fachebot/bioai-trend-bot/internal/summarizer"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// 周报覆盖的天数
const reportWindowDays = 7

const notifyRetryTimes = 2

// recordIngestor 清洗并过滤原始记录（便于测试注入 mock）
type recordIngestor interface {
	Ingest(records []model.RawRecord) ([]model.ContentItem, ingest.Stats)
}

// reportGenerator 生成趋势报告
type reportGenerator interface {
	Generate(items []model.ContentItem, now time.Time) *model.TrendReport
}

// digestSummarizer 生成话题摘要
type digestSummarizer interface {
	Summarize(ctx context.Context, report *model.TrendReport, items []model.ContentItem, now time.Time) (*summarizer.Digest, error)
}

// reportNotifier 投递周报
type reportNotifier interface {
	Notify(ctx context.Context, content string) error
}

// RunResult 一次运行的产出
type RunResult struct {
	RunID      string
	ReportPath string
	DigestPath string
	Report     *model.TrendReport
	Digest     *summarizer.Digest
	Notified   bool
}

type Scheduler struct {
	cron          *cron.Cron
	loadRecords   func(paths []string) ([]model.RawRecord, error)
	ingestor      recordIngestor
	engine        reportGenerator
	summarizer    digestSummarizer
	notifier      reportNotifier
	config        *config.Report
	retryInterval time.Duration
	newRunID      func() string
	ctx           context.Context
	cancel        context.CancelFunc
	mu            sync.Mutex
}

// locUTC UTC 标准时间（UTC）
var locUTC = time.UTC

// NewScheduler notifier 为 nil 时只生成报告不投递
func NewScheduler(
	ingestor *ingest.Ingestor,
	eng *engine.Engine,
	summarizer *summarizer.Summarizer,
	notifier *notify.Notifier,
	cfg *config.Report,
) *Scheduler {
	retryInterval := time.Duration(cfg.RetryInterval) * time.Second
	if retryInterval <= 0 {
		retryInterval = 60 * time.Second
	}

	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(locUTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		loadRecords:   ingest.LoadFiles,
		ingestor:      ingestor,
		engine:        eng,
		summarizer:    summarizer,
		config:        cfg,
		retryInterval: retryInterval,
		newRunID:      newRunID,
	}
	if notifier != nil {
		s.notifier = notifier
	}
	return s
}

func newRunID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// Start 启动调度器
func (s *Scheduler) Start() error {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.mu.Unlock()

	// 注册周报任务
	_, err := s.cron.AddFunc(s.config.Cron, s.runScheduledReport)
	if err != nil {
		return fmt.Errorf("注册周报任务失败: %w", err)
	}

	s.cron.Start()
	logger.Infof("[Scheduler] 调度器已启动，周报任务: %s", s.config.Cron)
	return nil
}

// Stop 停止调度器，等待进行中的任务退出
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Infof("[Scheduler] 调度器已停止")
}

// runScheduledReport 执行周报任务（cron 触发）
func (s *Scheduler) runScheduledReport() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		logger.Infof("[Scheduler] 任务已取消，退出")
		return
	default:
	}

	if _, err := s.RunOnce(ctx, time.Now().In(locUTC)); err != nil {
		logger.Errorf("[Scheduler] 周报任务执行失败: %v", err)
		return
	}
	logger.Infof("[Scheduler] 周报任务完成")
}

// wait 等待重试间隔，ctx 取消时返回错误
func (s *Scheduler) wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("任务已取消")
	case <-time.After(d):
		return nil
	}
}

// loadWithRetry 读取输入文件（带重试）
func (s *Scheduler) loadWithRetry(ctx context.Context) ([]model.RawRecord, error) {
	retryTimes := s.config.RetryTimes
	if retryTimes <= 0 {
		retryTimes = 1
	}

	var records []model.RawRecord
	var err error
	for attempt := 1; attempt <= retryTimes; attempt++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("任务已取消")
		default:
		}

		records, err = s.loadRecords(s.config.InputFiles)
		if err == nil {
			return records, nil
		}

		logger.Warnf("[Scheduler] 读取输入文件失败 (第 %d/%d 次): %v", attempt, retryTimes, err)
		if attempt < retryTimes {
			if waitErr := s.wait(ctx, s.retryInterval); waitErr != nil {
				return nil, waitErr
			}
		}
	}
	return nil, fmt.Errorf("读取输入文件失败，已重试 %d 次: %w", retryTimes, err)
}

// sendNotification 仅重试发送，不重新生成报告；发送失败不影响本次运行结果
func (s *Scheduler) sendNotification(ctx context.Context, content string) (bool, error) {
	for attempt := 1; attempt <= notifyRetryTimes; attempt++ {
		select {
		case <-ctx.Done():
			return false, fmt.Errorf("任务已取消")
		default:
		}

		notifyErr := s.notifier.Notify(ctx, content)
		if notifyErr == nil {
			logger.Infof("[Scheduler] 周报通知发送成功")
			return true, nil
		}
		logger.Warnf("[Scheduler] 周报通知发送失败 (第 %d/%d 次): %v", attempt, notifyRetryTimes, notifyErr)
		if attempt < notifyRetryTimes {
			if err := s.wait(ctx, s.retryInterval/2); err != nil {
				return false, err
			}
		}
	}

	logger.Errorf("[Scheduler] 周报通知发送失败，已重试 %d 次", notifyRetryTimes)
	return false, nil
}

func recordDigestMetrics(digest *summarizer.Digest) {
	for _, topic := range digest.Topics {
		mode := "llm"
		if topic.Fallback {
			mode = "fallback"
		}
		metrics.TopicSummaries.WithLabelValues(mode).Inc()
	}
}

// RunOnce 执行一次完整流程：读取、导入、生成报告、摘要、落盘、投递
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) (result *RunResult, err error) {
	started := time.Now()
	runID := s.newRunID()
	defer func() {
		metrics.RunDuration.Observe(time.Since(started).Seconds())
		status := "success"
		if err != nil {
			status = "failed"
		}
		metrics.RunsTotal.WithLabelValues(status).Inc()
	}()

	now = now.In(locUTC)
	date := now.Format("2006-01-02")
	logger.Infof("[Scheduler] 开始生成周报, run=%s, 时间=%s", runID, now.Format(time.RFC3339))

	// 1. 读取并导入
	records, err := s.loadWithRetry(ctx)
	if err != nil {
		return nil, err
	}
	items, stats := s.ingestor.Ingest(records)
	metrics.RecordsIngested.WithLabelValues("relevant").Add(float64(stats.Relevant))
	metrics.RecordsIngested.WithLabelValues("dropped").Add(float64(stats.Dropped))

	// 2. 生成报告并落盘
	trendReport := s.engine.Generate(items, now)
	metrics.TrendingTopics.Set(float64(len(trendReport.TrendingTopics)))

	result = &RunResult{RunID: runID, Report: trendReport}
	result.ReportPath, err = report.SaveFile(trendReport, s.config.OutputDir, fmt.Sprintf("trend_report_%s_%s.json", date, runID))
	if err != nil {
		return nil, err
	}
	logger.Infof("[Scheduler] 趋势报告已保存: %s，趋势话题 %d 个", result.ReportPath, len(trendReport.TrendingTopics))

	// 3. 话题摘要
	digest, err := s.summarizer.Summarize(ctx, trendReport, items, now)
	if err != nil {
		return nil, fmt.Errorf("生成周报摘要失败: %w", err)
	}
	recordDigestMetrics(digest)
	result.Digest = digest
	result.DigestPath, err = report.SaveFile(digest, s.config.OutputDir, fmt.Sprintf("trend_digest_%s_%s.json", date, runID))
	if err != nil {
		return nil, err
	}

	// 4. 投递
	if s.notifier == nil {
		logger.Infof("[Scheduler] 未启用通知，跳过投递")
		return result, nil
	}
	startDate := now.AddDate(0, 0, -reportWindowDays).Format("2006-01-02")
	content := summarizer.FormatDigestForDisplay(digest, startDate, date)
	result.Notified, err = s.sendNotification(ctx, content)
	if err != nil {
		return nil, err
	}
	return result, nil
}
