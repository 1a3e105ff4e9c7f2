package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes to logs/app.log once Init has run. Until then every helper is a no-op,
// so packages can log without creating files (tests, library use).
var Logger = zap.NewNop()
var consoleLogger = zap.NewNop() // SUCCESS and ERROR lines for the operator

var initMu sync.Mutex

// fileWriter is the app.log writer behind Logger, closed when Init replaces it.
var fileWriter *rotatingLogWriter

// Options controls where and how much is logged.
type Options struct {
	Dir     string // directory for app.log
	Level   string // debug, info, warn, error
	Console bool   // mirror SUCCESS/ERROR lines to stderr
}

// Init builds the file and console loggers. Calling it again replaces them.
func Init(opts Options) error {
	initMu.Lock()
	defer initMu.Unlock()

	if opts.Dir == "" {
		opts.Dir = "logs"
	}
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	fileConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeDuration: zapcore.SecondsDurationEncoder,

		// "2006-01-02 15:04:05 INFO msg {json fields}"
		ConsoleSeparator: " ",
	}

	writer := getLogFileWriter(filepath.Join(opts.Dir, "app.log"))
	sink := zapcore.AddSync(os.Stderr)
	if writer != nil {
		sink = zapcore.AddSync(writer)
	}
	fileCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(fileConfig),
		sink,
		level,
	)
	fileLogger := zap.New(fileCore)

	console := zap.NewNop()
	if opts.Console {
		consoleConfig := zap.NewDevelopmentConfig()
		consoleConfig.EncoderConfig.EncodeLevel = customLevelEncoder
		consoleConfig.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		consoleConfig.EncoderConfig.EncodeCaller = nil
		consoleConfig.DisableCaller = true
		consoleConfig.Development = false
		consoleConfig.DisableStacktrace = true
		consoleConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

		console, err = consoleConfig.Build()
		if err != nil {
			if writer != nil {
				writer.Close()
			}
			return fmt.Errorf("failed to build console logger: %w", err)
		}
	}

	previous := fileWriter
	_ = Logger.Sync()
	Logger = fileLogger
	consoleLogger = console
	fileWriter = writer
	if previous != nil {
		previous.Close()
	}
	return nil
}

// Sync flushes both loggers.
func Sync() {
	_ = Logger.Sync()
	_ = consoleLogger.Sync()
}

// RunLogger tags every entry with the id of one command run.
func RunLogger(runID string) *zap.Logger {
	return Logger.With(zap.String("run_id", runID))
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
)

func customLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case zapcore.DebugLevel:
		enc.AppendString(colorCyan + "DEBUG" + colorReset)
	case zapcore.InfoLevel:
		enc.AppendString(colorGreen + "SUCCESS" + colorReset)
	case zapcore.WarnLevel:
		enc.AppendString(colorYellow + "WARN" + colorReset)
	case zapcore.ErrorLevel, zapcore.FatalLevel, zapcore.PanicLevel:
		enc.AppendString(colorRed + level.CapitalString() + colorReset)
	default:
		enc.AppendString(colorWhite + level.String() + colorReset)
	}
}

// LogInfo writes to the file log only.
func LogInfo(message string, fields ...zap.Field) {
	Logger.Info(message, fields...)
}

// LogSuccess writes to the file log and prints a ✓ line on the console.
func LogSuccess(message string, fields ...zap.Field) {
	Logger.Info(message, fields...)

	if durationMs := extractDuration(fields); durationMs > 0 {
		consoleLogger.Info(fmt.Sprintf("✓ %s (%dms)", message, durationMs))
	} else {
		consoleLogger.Info("✓ " + message)
	}
}

// LogError writes to the file log and prints a ✗ line on the console.
func LogError(message string, fields ...zap.Field) {
	Logger.Error(message, fields...)

	if durationMs := extractDuration(fields); durationMs > 0 {
		consoleLogger.Error(fmt.Sprintf("✗ %s (%dms)", message, durationMs))
	} else {
		consoleLogger.Error("✗ " + message)
	}
}

func LogWarn(message string, fields ...zap.Field) {
	Logger.Warn(message, fields...)
}

func LogDebug(message string, fields ...zap.Field) {
	Logger.Debug(message, fields...)
}

func extractDuration(fields []zap.Field) int64 {
	for _, field := range fields {
		if field.Key == "duration_ms" && field.Type == zapcore.Int64Type {
			return field.Integer
		}
	}
	return 0
}

// MaxLogFileSize caps app.log; the file is truncated when it grows past it.
const MaxLogFileSize = 50 * 1024 * 1024

type rotatingLogWriter struct {
	file   *os.File
	path   string
	mu     sync.Mutex
	closed bool
}

func (w *rotatingLogWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// loggers derived before a re-Init still hold this writer
	if w.closed {
		return len(p), nil
	}

	info, err := w.file.Stat()
	if err == nil && info.Size() > MaxLogFileSize {
		w.file.Close()

		w.file, err = os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return 0, fmt.Errorf("failed to truncate log file: %w", err)
		}
	}

	return w.file.Write(p)
}

func (w *rotatingLogWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	return w.file.Sync()
}

func (w *rotatingLogWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return w.file.Close()
}

// getLogFileWriter opens path for appending; nil means the file could not be opened
// and stderr is used instead.
func getLogFileWriter(path string) *rotatingLogWriter {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file %s: %v, falling back to stderr\n", path, err)
		return nil
	}
	return &rotatingLogWriter{file: file, path: path}
}
