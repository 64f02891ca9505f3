// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package logging

import (
	"context"
	"io"
	"math/rand"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// StructuredLogger is a JSON structured logger backed by zapcore. The
// Logger interface and Field API stay the stable surface; zap supplies
// the encoding and the level gate.
type StructuredLogger struct {
	level        Level
	zapLevel     zap.AtomicLevel
	core         zapcore.Core
	fields       []Field
	samplingRate float64
	mu           sync.Mutex
}

// encoderConfig keeps the wire keys this package has always emitted:
// timestamp, level, message.
func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}
}

// NewStructuredLogger creates a new structured logger writing to stdout.
func NewStructuredLogger(level Level) *StructuredLogger {
	return NewStructuredLoggerWithOutput(level, os.Stdout)
}

// NewStructuredLoggerWithOutput creates a logger with custom output.
func NewStructuredLoggerWithOutput(level Level, output io.Writer) *StructuredLogger {
	atomic := zap.NewAtomicLevelAt(toZapLevel(level))
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.Lock(zapcore.AddSync(output)),
		atomic,
	)
	return &StructuredLogger{
		level:        level,
		zapLevel:     atomic,
		core:         core,
		fields:       []Field{},
		samplingRate: 1.0, // No sampling by default
	}
}

// Debug logs a debug message.
func (l *StructuredLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	// Apply sampling for debug logs
	l.mu.Lock()
	sampled := l.samplingRate < 1.0 && rand.Float64() > l.samplingRate
	l.mu.Unlock()
	if sampled {
		return
	}

	l.log(ctx, LevelDebug, msg, fields...)
}

// Info logs an informational message.
func (l *StructuredLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, LevelInfo, msg, fields...)
}

// Warn logs a warning message.
func (l *StructuredLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, LevelWarn, msg, fields...)
}

// Error logs an error message.
func (l *StructuredLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, LevelError, msg, fields...)
}

// Fatal logs a fatal message and exits.
func (l *StructuredLogger) Fatal(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, LevelFatal, msg, fields...)
	os.Exit(1)
}

// With creates a child logger with persistent fields. The child shares
// the parent's core and level.
func (l *StructuredLogger) With(fields ...Field) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	newFields := make([]Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	return &StructuredLogger{
		level:        l.level,
		zapLevel:     l.zapLevel,
		core:         l.core,
		fields:       newFields,
		samplingRate: l.samplingRate,
	}
}

// SetLevel sets the minimum log level.
func (l *StructuredLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.zapLevel.SetLevel(toZapLevel(level))
}

// SetSamplingRate sets the sampling rate for debug logs.
func (l *StructuredLogger) SetSamplingRate(rate float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rate < 0.0 {
		rate = 0.0
	}
	if rate > 1.0 {
		rate = 1.0
	}

	l.samplingRate = rate
}

// log writes a log entry through the zap core. Level filtering happens
// in Check via the shared atomic level.
func (l *StructuredLogger) log(ctx context.Context, level Level, msg string, fields ...Field) {
	ent := zapcore.Entry{
		Time:    time.Now().UTC(),
		Level:   toZapLevel(level),
		Message: msg,
	}
	ce := l.core.Check(ent, nil)
	if ce == nil {
		return
	}
	ce.Write(l.zapFields(ctx, level, fields)...)
}

// zapFields assembles context fields, the logger's persistent fields,
// and the call's own fields into zap form, masking Redacted values at
// info level and above.
func (l *StructuredLogger) zapFields(ctx context.Context, level Level, fields []Field) []zapcore.Field {
	all := extractContextFields(ctx)
	l.mu.Lock()
	all = append(all, l.fields...)
	l.mu.Unlock()
	all = append(all, fields...)

	zf := make([]zapcore.Field, 0, len(all))
	for _, f := range all {
		value := f.Value
		if f.redacted && levelPriority(level) >= levelPriority(LevelInfo) {
			value = redactedPlaceholder
		}
		zf = append(zf, zap.Any(f.Key, value))
	}
	return zf
}

// redactedPlaceholder replaces a Redacted field's value in any entry at
// info level or above.
const redactedPlaceholder = "[redacted]"

// toZapLevel maps this package's Level onto zapcore's.
func toZapLevel(level Level) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	case LevelFatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
