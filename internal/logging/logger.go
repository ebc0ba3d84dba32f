package logging

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Dir     string
	Level   string
	Console bool
}

func NewLogger(opts Options) (*zap.Logger, error) {
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, err
	}
	level := zap.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, errors.Wrapf(err, "log level %q", opts.Level)
		}
	}
	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(opts.Dir, "netprobe.log"),
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	})
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), w, level)
	if opts.Console {
		console := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(os.Stderr), level)
		core = zapcore.NewTee(core, console)
	}
	return zap.New(core), nil
}

// CauseChain flattens err into one message per link, outermost first.
// Links that only repeat the next message (errors.WithStack and friends) are
// skipped, and each message is trimmed of the text its cause already carries.
func CauseChain(err error) []string {
	var chain []string
	for err != nil {
		next := unwrapOnce(err)
		msg := err.Error()
		if next != nil {
			inner := next.Error()
			if msg == inner {
				err = next
				continue
			}
			msg = strings.TrimSuffix(msg, ": "+inner)
		}
		chain = append(chain, msg)
		err = next
	}
	return chain
}

func unwrapOnce(err error) error {
	switch e := err.(type) {
	case interface{ Unwrap() error }:
		return e.Unwrap()
	case interface{ Cause() error }:
		return e.Cause()
	}
	return nil
}

// Chain is the zap field used wherever a failure is logged.
func Chain(err error) zap.Field {
	return zap.Strings("cause_chain", CauseChain(err))
}
