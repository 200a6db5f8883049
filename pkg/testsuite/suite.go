// Package testsuite holds shared helpers for the ginkgo suites.
package testsuite

import (
	"time"

	. "github.com/onsi/ginkgo/v2"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger builds a development logger at the given verbosity writing to the
// ginkgo output stream.
func Logger(loglevel int) logr.Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = TimestampEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(GinkgoWriter),
		zapcore.Level(-loglevel), //nolint:gosec
	)
	z := zap.New(core, zap.AddStacktrace(zapcore.Level(4)))
	return zapr.NewLogger(z)
}

func TimestampEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format(time.RFC3339Nano))
}
