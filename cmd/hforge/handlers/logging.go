package handlers

import (
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the CLI logger. Terminals get colored console output,
// everything else JSON lines. verbosity enables logr V-levels up to it.
func NewLogger(w io.Writer, verbosity int) logr.Logger {
	var encoder zapcore.Encoder
	if isTerminal(w) {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	level := zap.NewAtomicLevelAt(zapcore.Level(-max(verbosity, 0)))
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)
	return zapr.NewLogger(zap.New(core))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
