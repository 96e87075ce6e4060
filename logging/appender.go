package logging

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultTimeFormatStr is the default time format string for log appenders.
const DefaultTimeFormatStr = "2006-01-02T15:04:05.000Z0700"

// Appender is an output for log entries. This is a subset of the `zapcore.Core` interface.
type Appender interface {
	// Write submits a structured log entry to the appender for logging.
	Write(zapcore.Entry, []zapcore.Field) error
	// Sync is for signaling that any buffered logs to `Write` should be flushed. E.g: at shutdown.
	Sync() error
}

// writerAppender encodes entries with zap's console encoder and writes them to an io.Writer.
type writerAppender struct {
	mu      sync.Mutex
	encoder zapcore.Encoder
	out     io.Writer
	syncer  func() error
}

func newConsoleEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout(DefaultTimeFormatStr),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	})
}

// NewWriterAppender returns an appender that writes console formatted entries to out.
func NewWriterAppender(out io.Writer) Appender {
	return &writerAppender{encoder: newConsoleEncoder(), out: out, syncer: func() error { return nil }}
}

// NewStdoutAppender returns an appender that writes console formatted entries to stdout.
func NewStdoutAppender() Appender {
	return &writerAppender{encoder: newConsoleEncoder(), out: os.Stdout, syncer: func() error { return nil }}
}

// NewFileAppender returns an appender that writes to filename, rotating the file once it reaches maxSizeMB.
func NewFileAppender(filename string, maxSizeMB, maxBackups int) Appender {
	rotator := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		Compress:   true,
	}
	return &writerAppender{encoder: newConsoleEncoder(), out: rotator, syncer: rotator.Close}
}

func (wa *writerAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	buf, err := wa.encoder.EncodeEntry(entry, fields)
	if err != nil {
		return err
	}
	defer buf.Free()

	wa.mu.Lock()
	defer wa.mu.Unlock()
	_, err = wa.out.Write(buf.Bytes())
	return err
}

func (wa *writerAppender) Sync() error {
	wa.mu.Lock()
	defer wa.mu.Unlock()
	return wa.syncer()
}
