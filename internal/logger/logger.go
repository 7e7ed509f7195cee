package logger

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileName = "bioai-trend.log"

type Logger struct {
	*logrus.Logger
	fileLogger *logrus.Logger
}

var defaultLogger *Logger

func init() {
	// 控制台日志配置
	consoleLogger := logrus.New()
	consoleLogger.SetFormatter(&logrus.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	consoleLogger.SetOutput(os.Stdout)
	consoleLogger.SetLevel(logrus.DebugLevel)

	// 文件日志配置
	fileLogger := logrus.New()
	fileLogger.SetFormatter(&logrus.JSONFormatter{
		PrettyPrint:     false,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	fileLogger.SetLevel(logrus.InfoLevel)

	// 日志目录可通过 BIOAI_LOG_DIR 覆盖
	logDir := os.Getenv("BIOAI_LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		consoleLogger.Errorf("无法创建日志目录: %v", err)
	}

	// 使用lumberjack进行日志轮转
	fileLogger.SetOutput(&lumberjack.Logger{
		Filename:   filepath.Join(logDir, logFileName),
		MaxSize:    10,
		MaxBackups: 10,
		MaxAge:     30,
		Compress:   true,
	})

	defaultLogger = &Logger{
		Logger:     consoleLogger,
		fileLogger: fileLogger,
	}
}

// SetLevel 调整控制台日志级别，非法级别返回错误且不做修改
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	defaultLogger.Logger.SetLevel(lvl)
	return nil
}

func Infof(format string, args ...any) {
	defaultLogger.Logger.Infof(format, args...)
	defaultLogger.fileLogger.Infof(format, args...)
}

func Warnf(format string, args ...any) {
	defaultLogger.Logger.Warnf(format, args...)
	defaultLogger.fileLogger.Warnf(format, args...)
}

func Errorf(format string, args ...any) {
	defaultLogger.Logger.Errorf(format, args...)
	defaultLogger.fileLogger.Errorf(format, args...)
}

func Fatalf(format string, args ...any) {
	defaultLogger.fileLogger.Errorf(format, args...)
	defaultLogger.Logger.Fatalf(format, args...)
}

func Debugf(format string, args ...any) {
	defaultLogger.Logger.Debugf(format, args...)
	defaultLogger.fileLogger.Debugf(format, args...)
}
