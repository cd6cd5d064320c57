package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Параметры ротации файла журнала.
const (
	RotationTime = 24 * time.Hour
	MaxAge       = 30 * 24 * time.Hour
	RotationSize = 100 * 1024 * 1024
)

// New создаёт SugaredLogger. Без logFile это development-логгер zap в stderr;
// с logFile консольный вывод дополняется JSON-записями в файл с ротацией по дням.
// Возвращаемая функция сбрасывает буферы и закрывает файл.
func New(logFile string) (*zap.SugaredLogger, func(), error) {
	base, err := zap.NewDevelopment()
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	if logFile == "" {
		return base.Sugar(), func() { _ = base.Sync() }, nil
	}

	if err := os.MkdirAll(filepath.Dir(logFile), 0o750); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	writer, err := rotatelogs.New(
		logFile+".%Y%m%d",
		rotatelogs.WithLinkName(logFile),
		rotatelogs.WithRotationTime(RotationTime),
		rotatelogs.WithMaxAge(MaxAge),
		rotatelogs.WithRotationSize(RotationSize),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(writer), zapcore.InfoLevel)

	l := base.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, fileCore)
	}))
	cleanup := func() {
		_ = l.Sync()
		if err := writer.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
		}
	}
	return l.Sugar(), cleanup, nil
}
