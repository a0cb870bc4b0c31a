package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ZerologAdapter writes messages through a zerolog.Logger.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter returns the default sink: JSON lines on stdout.
func NewZerologAdapter() *ZerologAdapter {
	return NewZerologAdapterWithWriter(os.Stdout)
}

// NewZerologAdapterWithWriter writes timestamped JSON lines to w.
func NewZerologAdapterWithWriter(w io.Writer) *ZerologAdapter {
	return NewZerologAdapterWithLogger(zerolog.New(w).With().Timestamp().Logger())
}

// NewZerologAdapterWithLogger reuses a configured zerolog.Logger, keeping
// its level, output and context fields.
func NewZerologAdapterWithLogger(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

func (z *ZerologAdapter) Debug(msg string, fields ...Field) { z.emit(zerolog.DebugLevel, msg, fields) }
func (z *ZerologAdapter) Info(msg string, fields ...Field)  { z.emit(zerolog.InfoLevel, msg, fields) }
func (z *ZerologAdapter) Warn(msg string, fields ...Field)  { z.emit(zerolog.WarnLevel, msg, fields) }
func (z *ZerologAdapter) Error(msg string, fields ...Field) { z.emit(zerolog.ErrorLevel, msg, fields) }

// Logger returns the wrapped zerolog.Logger.
func (z *ZerologAdapter) Logger() zerolog.Logger {
	return z.logger
}

func (z *ZerologAdapter) emit(level zerolog.Level, msg string, fields []Field) {
	event := z.logger.WithLevel(level)
	if event == nil {
		// Level disabled.
		return
	}
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			event.Str(f.Key, v)
		case int:
			event.Int(f.Key, v)
		case bool:
			event.Bool(f.Key, v)
		case time.Duration:
			event.Dur(f.Key, v)
		case []byte:
			event.Int(f.Key+"_bytes", len(v))
		case error:
			event.AnErr(f.Key, v)
		default:
			event.Interface(f.Key, v)
		}
	}
	event.Msg(msg)
}
