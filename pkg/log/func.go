package log

// Level names the severity passed to a Func sink.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Func adapts a plain callback into a Logger. Fields are flattened into a
// context map; an error field is stored as its message under "error".
//
//	logger := log.Func(func(level log.Level, msg string, ctx map[string]any) {
//	    fmt.Println(level, msg, ctx)
//	})
type Func func(level Level, msg string, ctx map[string]any)

// Debug forwards the message at LevelDebug.
func (f Func) Debug(msg string, fields ...Field) { f(LevelDebug, msg, fieldMap(fields)) }

// Info forwards the message at LevelInfo.
func (f Func) Info(msg string, fields ...Field) { f(LevelInfo, msg, fieldMap(fields)) }

// Warn forwards the message at LevelWarn.
func (f Func) Warn(msg string, fields ...Field) { f(LevelWarn, msg, fieldMap(fields)) }

// Error forwards the message at LevelError.
func (f Func) Error(msg string, fields ...Field) { f(LevelError, msg, fieldMap(fields)) }

func fieldMap(fields []Field) map[string]any {
	m := make(map[string]any, len(fields))
	for _, f := range fields {
		if err, ok := f.Value.(error); ok && err != nil {
			m[f.Key] = err.Error()
			continue
		}
		m[f.Key] = f.Value
	}
	return m
}
