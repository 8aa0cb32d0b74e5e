package logging

import "io"

// Backend names accepted by New.
const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// New returns a Logger for the named backend; anything other than
// BackendZap yields the slog text logger.
func New(backend string, w io.Writer, level string) Logger {
	if backend == BackendZap {
		return NewZapJSONLogger(w, level)
	}
	return NewTextSlogLogger(w, level)
}
