package svc

import (
	"crypto/tls"
	"fmt"
	"net/http"

	"github.com/fachebot/bioai-trend-bot/internal/config"
	"github.com/fachebot/bioai-trend-bot/internal/engine"
	"github.com/fachebot/bioai-trend-bot/internal/ingest"
	"github.com/fachebot/bioai-trend-bot/internal/llm"
	"github.com/fachebot/bioai-trend-bot/internal/logger"
	"github.com/fachebot/bioai-trend-bot/internal/metrics"
	"github.com/fachebot/bioai-trend-bot/internal/summarizer"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/net/proxy"
)

type ServiceContext struct {
	Config         *config.Config
	TransportProxy *http.Transport
	LLMClient      *llm.Client // 未配置 APIKey 时为 nil
	Engine         *engine.Engine
	Ingestor       *ingest.Ingestor
	Summarizer     *summarizer.Summarizer
	Registry       *prometheus.Registry
}

func NewServiceContext(c *config.Config) *ServiceContext {
	// 创建SOCKS5代理
	var transportProxy *http.Transport
	if c.Sock5Proxy.Enable {
		socks5Proxy := fmt.Sprintf("%s:%d", c.Sock5Proxy.Host, c.Sock5Proxy.Port)
		dialer, err := proxy.SOCKS5("tcp", socks5Proxy, nil, proxy.Direct)
		if err != nil {
			logger.Fatalf("创建SOCKS5代理失败, %v", err)
		}

		transportProxy = &http.Transport{
			Dial:            dialer.Dial,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	// 创建LLM客户端
	var llmClient *llm.Client
	if c.LLM.APIKey != "" {
		llmClient = llm.NewClient(&c.LLM, transportProxy)
	} else {
		logger.Warnf("未配置 LLM.APIKey，话题摘要将使用兜底文案")
	}

	// 注册指标
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.Init(registry)

	eng := engine.New(&c.Engine)

	svcCtx := &ServiceContext{
		Config:         c,
		TransportProxy: transportProxy,
		LLMClient:      llmClient,
		Engine:         eng,
		Ingestor:       ingest.NewIngestor(eng.Classifier, eng.Tagger),
		Summarizer:     summarizer.NewSummarizer(llmClient, eng.Normalizer, &c.Report),
		Registry:       registry,
	}
	return svcCtx
}

func (svcCtx *ServiceContext) Close() {
	if svcCtx.TransportProxy != nil {
		svcCtx.TransportProxy.CloseIdleConnections()
	}
}
