package logging

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger adapts a zap JSON logger to the Logger interface.
type ZapLogger struct {
	logger *zap.Logger
	level  zap.AtomicLevel
}

// NewZapLogger writes JSON lines to stdout at the given minimum level.
func NewZapLogger(level Level) (*ZapLogger, error) {
	return NewZapLoggerWithWriter(os.Stdout, level), nil
}

// NewZapLoggerWithWriter writes JSON lines to w.
func NewZapLoggerWithWriter(w io.Writer, level Level) *ZapLogger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.TimeKey = "ts"

	atom := zap.NewAtomicLevelAt(toZapLevel(level))
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(w), atom)

	return &ZapLogger{
		logger: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)),
		level:  atom,
	}
}

func toZapLevel(level Level) zapcore.Level {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel
	case InfoLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	case FatalLevel:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func zapFields(fields []Fields) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	all := mergeFields(nil, fields...)
	out := make([]zap.Field, 0, len(all))
	for k, v := range all {
		out = append(out, zap.Any(k, v))
	}
	return out
}

func (z *ZapLogger) write(level zapcore.Level, err error, msg string, fields []Fields) {
	zf := zapFields(fields)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	if ce := z.logger.Check(level, msg); ce != nil {
		ce.Write(zf...)
	}
}

func (z *ZapLogger) Debug(msg string, fields ...Fields) {
	z.write(zapcore.DebugLevel, nil, msg, fields)
}

func (z *ZapLogger) Info(msg string, fields ...Fields) {
	z.write(zapcore.InfoLevel, nil, msg, fields)
}

func (z *ZapLogger) Warn(msg string, fields ...Fields) {
	z.write(zapcore.WarnLevel, nil, msg, fields)
}

func (z *ZapLogger) Error(err error, msg string, fields ...Fields) {
	z.write(zapcore.ErrorLevel, err, msg, fields)
}

func (z *ZapLogger) Fatal(err error, msg string, fields ...Fields) {
	z.write(zapcore.FatalLevel, err, msg, fields)
}

func (z *ZapLogger) WithFields(fields Fields) Logger {
	return &ZapLogger{
		logger: z.logger.With(zapFields([]Fields{fields})...),
		level:  z.level,
	}
}

func (z *ZapLogger) WithContext(ctx context.Context) Logger {
	if fields, ok := FieldsFromContext(ctx); ok {
		return z.WithFields(fields)
	}
	return z
}

// SetLevel changes the level for this logger and every logger derived from it.
func (z *ZapLogger) SetLevel(level Level) {
	z.level.SetLevel(toZapLevel(level))
}

// Sync flushes buffered entries.
func (z *ZapLogger) Sync() error {
	return z.logger.Sync()
}
