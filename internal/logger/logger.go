// Package logger 基于 zap 提供结构化日志器的构建。
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New 按环境创建 zap 日志器。
// prod 环境使用采样与 ISO8601 时间戳的生产配置，其余环境使用开发配置；
// encoding 取 json 或 console；name/version 作为固定字段附加到每条日志。
func New(env, level, encoding, name, version string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "prod" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = encoding
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	lg, err := cfg.Build(
		zap.Fields(
			zap.String("service", name),
			zap.String("version", version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return lg, nil
}
