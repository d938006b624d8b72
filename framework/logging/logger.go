package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/km-arc/go-framework/framework/config"
)

// Level is a framework log level.
type Level int

const (
	LevelTrace Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelProfileBegin
	LevelProfileEnd
)

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelProfileBegin:
		return "profile-begin"
	case LevelProfileEnd:
		return "profile-end"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Sink is the logging interface consumed by framework glue.
type Sink interface {
	Log(message string, level Level, category string)
}

var _ Sink = (*Logger)(nil)

// Logger is a Sink writing through zap. Categories become a "category"
// field; profile levels are logged at debug with the elapsed time computed
// on the matching end.
type Logger struct {
	zap *zap.Logger

	mu       sync.Mutex
	profiles map[profileKey]time.Time
	now      func() time.Time
}

type profileKey struct {
	token    string
	category string
}

// New builds a logger from configuration.
func New(cfg config.LogConfig) (*Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var encoder zapcore.Encoder
	switch strings.ToLower(cfg.Format) {
	case "json":
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case "", "console":
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewConsoleEncoder(ec)
	default:
		return nil, fmt.Errorf("logging: unknown format %q", cfg.Format)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), zap.NewAtomicLevelAt(level))
	return NewWithCore(core), nil
}

// NewWithCore wraps an existing zap core.
func NewWithCore(core zapcore.Core) *Logger {
	return &Logger{
		zap:      zap.New(core),
		profiles: make(map[profileKey]time.Time),
		now:      time.Now,
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return NewWithCore(zapcore.NewNopCore())
}

// Log writes message at level under category.
func (l *Logger) Log(message string, level Level, category string) {
	fields := []zap.Field{zap.String("category", category)}

	switch level {
	case LevelTrace:
		l.zap.Debug(message, fields...)
	case LevelInfo:
		l.zap.Info(message, fields...)
	case LevelWarning:
		l.zap.Warn(message, fields...)
	case LevelError:
		l.zap.Error(message, fields...)
	case LevelProfileBegin:
		l.mu.Lock()
		l.profiles[profileKey{message, category}] = l.now()
		l.mu.Unlock()
		l.zap.Debug("profile begin", append(fields, zap.String("profile", message))...)
	case LevelProfileEnd:
		fields = append(fields, zap.String("profile", message))
		l.mu.Lock()
		key := profileKey{message, category}
		if began, ok := l.profiles[key]; ok {
			fields = append(fields, zap.Duration("elapsed", l.now().Sub(began)))
			delete(l.profiles, key)
		}
		l.mu.Unlock()
		l.zap.Debug("profile end", fields...)
	default:
		l.zap.Info(message, append(fields, zap.Stringer("level", level))...)
	}
}

// Zap exposes the underlying zap logger.
func (l *Logger) Zap() *zap.Logger { return l.zap }

// Sync flushes buffered entries.
func (l *Logger) Sync() error { return l.zap.Sync() }

// parseLevel maps a configured level name to the zap threshold.
func parseLevel(name string) (zapcore.Level, error) {
	switch strings.ToLower(name) {
	case "trace", "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("logging: unknown level %q", name)
}
