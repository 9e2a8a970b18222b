// 指示: miu200521358
// Package logging はzapを利用したログ出力を提供する。
package logging

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// VerboseIndex は詳細ログの出力チャネルを表す。
type VerboseIndex int

const (
	// VERBOSE_INDEX_MOTION はモーション読み書きの詳細ログを表す。
	VERBOSE_INDEX_MOTION VerboseIndex = iota
	// VERBOSE_INDEX_SMOOTH は平滑化パスの詳細ログを表す。
	VERBOSE_INDEX_SMOOTH
)

// Logger はzapのSugaredLoggerをラップしたロガーを表す。
type Logger struct {
	sugar   *zap.SugaredLogger
	level   zap.AtomicLevel
	mu      sync.RWMutex
	verbose map[VerboseIndex]bool
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = NewLogger(os.Stderr)
)

// NewLogger は出力先を指定してロガーを生成する。
func NewLogger(out io.Writer) *Logger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("15:04:05.000"),
		EncodeDuration: zapcore.StringDurationEncoder,
		LineEnding:     zapcore.DefaultLineEnding,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(out), level)
	return &Logger{
		sugar:   zap.New(core).Sugar(),
		level:   level,
		verbose: map[VerboseIndex]bool{},
	}
}

// DefaultLogger は既定ロガーを返す。
func DefaultLogger() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefaultLogger は既定ロガーを差し替える。
func SetDefaultLogger(logger *Logger) {
	if logger == nil {
		return
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

// SetDebug はDEBUGレベルの出力有無を切り替える。
func (l *Logger) SetDebug(enabled bool) {
	if enabled {
		l.level.SetLevel(zapcore.DebugLevel)
		return
	}
	l.level.SetLevel(zapcore.InfoLevel)
}

// IsDebugEnabled はDEBUGレベルが有効か返す。
func (l *Logger) IsDebugEnabled() bool {
	return l.level.Enabled(zapcore.DebugLevel)
}

// EnableVerbose は詳細ログチャネルを有効化する。
func (l *Logger) EnableVerbose(index VerboseIndex) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose[index] = true
}

// IsVerboseEnabled は詳細ログチャネルが有効か返す。
func (l *Logger) IsVerboseEnabled(index VerboseIndex) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.verbose[index]
}

// Info はINFOログを出力する。
func (l *Logger) Info(format string, params ...any) {
	l.sugar.Infof(format, params...)
}

// Debug はDEBUGログを出力する。
func (l *Logger) Debug(format string, params ...any) {
	l.sugar.Debugf(format, params...)
}

// Warn はWARNログを出力する。
func (l *Logger) Warn(format string, params ...any) {
	l.sugar.Warnf(format, params...)
}

// Error はERRORログを出力する。
func (l *Logger) Error(format string, params ...any) {
	l.sugar.Errorf(format, params...)
}

// Verbose は有効な詳細ログチャネルにのみ出力する。
func (l *Logger) Verbose(index VerboseIndex, format string, params ...any) {
	if !l.IsVerboseEnabled(index) {
		return
	}
	l.sugar.Infof(format, params...)
}

// Sync はバッファ済みログを書き出す。
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
