// Package log is the logging seam of firehose-writer.
//
// The writer only talks to the four-method [Logger] interface. Three sinks
// ship with the package:
//
//   - [ZerologAdapter]: JSON lines through github.com/rs/zerolog, the default
//   - [Func]: a plain (level, message, context) callback
//   - [NewNoopLogger]: discards everything
//
// Routing warnings and errors to an alerting hook:
//
//	logger := log.Func(func(level log.Level, msg string, ctx map[string]any) {
//	    if level == log.LevelError {
//	        alert(msg, ctx)
//	    }
//	})
//
// Raw payloads are never logged; a []byte field is reduced to its length.
package log
