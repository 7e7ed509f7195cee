//go:build linux
// +build linux

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fachebot/bioai-trend-bot/internal/config"
	"github.com/fachebot/bioai-trend-bot/internal/logger"
	"github.com/fachebot/bioai-trend-bot/internal/metrics"
	"github.com/fachebot/bioai-trend-bot/internal/notify"
	"github.com/fachebot/bioai-trend-bot/internal/scheduler"
	"github.com/fachebot/bioai-trend-bot/internal/svc"
	"github.com/fachebot/bioai-trend-bot/internal/teleapp"

	"github.com/zelenin/go-tdlib/client"
)

var (
	configFile = flag.String("f", "etc/config.yaml", "the config file")
	runOnce    = flag.Bool("once", false, "generate one report and exit")
	nowFlag    = flag.String("now", "", "override the report time (RFC3339), only with -once")
	logLevel   = flag.String("log-level", "debug", "console log level")
)

func main() {
	flag.Parse()

	if err := logger.SetLevel(*logLevel); err != nil {
		logger.Fatalf("日志级别无效, %s", err)
	}

	// 读取配置文件
	c, err := config.LoadFromFile(*configFile)
	if err != nil {
		logger.Fatalf("读取配置文件失败, %s", err)
	}

	now := time.Now().UTC()
	if *nowFlag != "" {
		now, err = time.Parse(time.RFC3339, *nowFlag)
		if err != nil {
			logger.Fatalf("解析 -now 失败, %s", err)
		}
	}

	// 创建数据目录
	if _, err := os.Stat("data"); os.IsNotExist(err) {
		err := os.Mkdir("data", 0755)
		if err != nil {
			logger.Fatalf("创建数据目录失败, %s", err)
		}
	}

	// 创建服务上下文
	svcCtx := svc.NewServiceContext(c)
	defer svcCtx.Close()

	// 启用通知时登录 Telegram
	var app *teleapp.TeleApp
	var notifierInstance *notify.Notifier
	if c.Notify.Enable {
		options := make([]client.Option, 0)
		if c.Sock5Proxy.Enable {
			options = append(options, client.WithProxy(&client.AddProxyRequest{
				Server: c.Sock5Proxy.Host,
				Port:   c.Sock5Proxy.Port,
				Enable: c.Sock5Proxy.Enable,
				Type:   &client.ProxyTypeSocks5{},
			}))
		}

		app = teleapp.NewApp(c.TelegramApp.ApiId, c.TelegramApp.ApiHash, "data")
		user, err := app.Login(options...)
		if err != nil {
			logger.Fatalf("[TeleApp] 用户登录失败, %s", err)
		}
		logger.Infof("[TeleApp] 用户 <%s %s>(%d) 登录成功", user.FirstName, user.LastName, user.Id)

		if err := app.CheckChats(c.Notify.ChatIds); err != nil {
			logger.Warnf("[TeleApp] %s", err)
		}
		notifierInstance = notify.NewNotifier(app.Client(), &c.Notify)
	}

	schedulerInstance := scheduler.NewScheduler(
		svcCtx.Ingestor,
		svcCtx.Engine,
		svcCtx.Summarizer,
		notifierInstance,
		&c.Report,
	)

	if *runOnce {
		result, err := schedulerInstance.RunOnce(context.Background(), now)
		closeApp(app)
		if err != nil {
			logger.Fatalf("[Scheduler] 生成周报失败: %s", err)
		}
		logger.Infof("[Scheduler] 周报已生成: %s", result.ReportPath)
		return
	}

	// 启动指标服务
	var metricsServer *http.Server
	if c.Metrics.Enable {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(svcCtx.Registry))
		metricsServer = &http.Server{Addr: c.Metrics.Addr, Handler: mux}
		go func() {
			logger.Infof("[Metrics] 指标服务监听 %s", c.Metrics.Addr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("[Metrics] 指标服务异常退出, %v", err)
			}
		}()
	}

	// 启动调度器
	if err := schedulerInstance.Start(); err != nil {
		logger.Fatalf("[Scheduler] 启动调度器失败: %s", err)
	}

	// 等待程序退出
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	// 优雅关闭
	logger.Infof("正在关闭服务...")
	schedulerInstance.Stop()
	if metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(ctx); err != nil {
			logger.Warnf("[Metrics] 关闭失败, %v", err)
		}
		cancel()
	}
	closeApp(app)
	logger.Infof("服务已停止")
}

func closeApp(app *teleapp.TeleApp) {
	if app == nil {
		return
	}
	if err := app.Close(); err != nil {
		logger.Infof("[TeleApp] 关闭失败, %v", err)
	}
}
