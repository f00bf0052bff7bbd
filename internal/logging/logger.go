package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// LevelDebug logs every parsed change and copied file.
	LevelDebug = "debug"

	// LevelWarn is the default.
	LevelWarn = "warn"

	// LevelNone disables logging.
	LevelNone = "none"
)

// New returns a console logger writing to w at the given level.
func New(level string, w io.Writer) (*zap.Logger, error) {
	if level == LevelNone {
		return zap.NewNop(), nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		zap.NewAtomicLevelAt(lvl),
	)
	return zap.New(core), nil
}

// Valid reports whether level is accepted by New.
func Valid(level string) bool {
	if level == LevelNone {
		return true
	}
	var lvl zapcore.Level
	return lvl.UnmarshalText([]byte(level)) == nil
}
