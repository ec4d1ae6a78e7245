// Package log wraps [log/slog] with the levels, formats and defaults used by
// the edl tool.
//
// A [Logger] is created with [Make] and configured with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"))
//
//	logger.Debug("scope created", slog.String("scope", "станция/насосы"))
//
// The zero Logger discards every message, so library packages can hold one
// in their options and log unconditionally.
//
// Besides the slog levels the package defines [LevelTrace], which sits below
// debug and is rendered as TRACE.
//
// Package level functions such as [Info] and [Trace] write through a process
// wide default logger that [Config] reconfigures. Methods without a context
// argument use [DefaultContextProvider].
package log
