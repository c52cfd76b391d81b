package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Config 对应配置文件里的 logging.* 段
type Config struct {
	Mode    string // "development" or "production"
	Level   string // debug / info / warn / error
	Dir     string // 为空时只输出到 stderr
	File    string
	Console bool // 写文件的同时也输出到 stdout
}

// New 构建 zap Logger
// 文件输出走 lumberjack 做滚动切割
func New(cfg Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Mode != "development" {
		zcfg = zap.NewProductionConfig()
		zcfg.DisableCaller = true
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.LevelKey = "level"
		zcfg.EncoderConfig.NameKey = "name"
		zcfg.EncoderConfig.MessageKey = "msg"
		zcfg.EncoderConfig.CallerKey = "caller"
		zcfg.EncoderConfig.StacktraceKey = "stacktrace"
	}

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	if err := zcfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	zcfg.Encoding = "console"
	zcfg.EncoderConfig.TimeKey = "timestamp"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	ws, err := writeSyncer(cfg)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(zcfg.EncoderConfig), ws, zcfg.Level)

	opts := []zap.Option{zap.ErrorOutput(zapcore.Lock(os.Stderr))}
	if !zcfg.DisableCaller {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(core, opts...), nil
}

func writeSyncer(cfg Config) (zapcore.WriteSyncer, error) {
	if cfg.Dir == "" {
		return zapcore.Lock(os.Stderr), nil
	}

	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}
	file := cfg.File
	if file == "" {
		file = "themestore.log"
	}

	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, file),
		MaxSize:    100, // MB
		MaxBackups: 3,   // number of backups
		MaxAge:     28,  // days
		LocalTime:  true,
		Compress:   false,
	})

	if cfg.Console {
		return zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout), fileWriter), nil
	}
	return fileWriter, nil
}
