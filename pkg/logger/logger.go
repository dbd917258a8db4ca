package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

const masked = "[MASKED]"

type Log interface {
	Debug(message string, args ...interface{})
	Info(message string, args ...interface{})
	Warn(message string, args ...interface{})
	Error(message string, args ...interface{})
	ErrorErr(message string, err error, args ...interface{})
	Fatal(message string, args ...interface{})
	FatalErr(message string, err error, args ...interface{})
	With(args ...interface{}) Log
}

type Logger struct {
	sugar *zap.SugaredLogger
}

// New builds a zap logger for the given environment. Unknown environments get the prod setup.
func New(env string) *Logger {
	var cfg zap.Config

	switch env {
	case envLocal:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case envDev:
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case envProd:
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewProductionConfig()
	}
	cfg.OutputPaths = []string{"stdout"}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	return &Logger{sugar: z.Sugar()}
}

// NewFromCore wraps an existing zap core, used by tests with zaptest/observer.
func NewFromCore(core zapcore.Core) *Logger {
	return &Logger{sugar: zap.New(core).Sugar()}
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

func (l *Logger) Debug(message string, args ...interface{}) {
	l.sugar.Debugw(message, mask(args)...)
}

func (l *Logger) Info(message string, args ...interface{}) {
	l.sugar.Infow(message, mask(args)...)
}

func (l *Logger) Warn(message string, args ...interface{}) {
	l.sugar.Warnw(message, mask(args)...)
}

func (l *Logger) Error(message string, args ...interface{}) {
	l.sugar.Errorw(message, mask(args)...)
}

func (l *Logger) Fatal(message string, args ...interface{}) {
	l.sugar.Fatalw(message, mask(args)...)
}

func (l *Logger) ErrorErr(message string, err error, args ...interface{}) {
	l.sugar.Errorw(message, append(mask(args), zap.Error(err))...)
}

func (l *Logger) FatalErr(message string, err error, args ...interface{}) {
	l.sugar.Fatalw(message, append(mask(args), zap.Error(err))...)
}

func (l *Logger) With(args ...interface{}) Log {
	return &Logger{sugar: l.sugar.With(mask(args)...)}
}

func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}

// mask hides the value of any key that carries a learner's contact details or a credential.
func mask(kv []interface{}) []interface{} {
	if len(kv) < 2 {
		return kv
	}
	out := make([]interface{}, len(kv))
	copy(out, kv)
	for i := 0; i+1 < len(out); i += 2 {
		key, ok := out[i].(string)
		if !ok {
			continue
		}
		if isSensitive(strings.ToLower(key)) {
			out[i+1] = masked
		}
	}
	return out
}

func isSensitive(key string) bool {
	switch {
	case strings.Contains(key, "email"),
		strings.Contains(key, "contact"),
		strings.Contains(key, "password"),
		strings.Contains(key, "api_key"),
		strings.Contains(key, "secret"):
		return true
	}
	return false
}
