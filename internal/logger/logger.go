package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

var (
	mu          sync.RWMutex
	root        *slog.Logger
	atomicLevel = new(slog.LevelVar)
)

// ParseLevel maps a config string to a slog level; unknown values mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init installs the process logger. format "json" writes JSON lines; anything
// else uses tint, colored only when w is a terminal.
func Init(level, format string, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	atomicLevel.Set(ParseLevel(level))

	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: atomicLevel})
	} else {
		h = tint.NewHandler(w, &tint.Options{
			Level:      atomicLevel,
			TimeFormat: time.DateTime,
			NoColor:    !isTerminal(w),
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				if a.Key == "error" && a.Value.Kind() == slog.KindAny {
					if err, ok := a.Value.Any().(error); ok {
						return tint.Err(err)
					}
				}
				return a
			},
		})
	}

	l := slog.New(h)
	mu.Lock()
	root = l
	mu.Unlock()
	slog.SetDefault(l)
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func SetLevel(level slog.Level) { atomicLevel.Set(level) }

// Get returns the process logger, falling back to a console logger on stdout
// when Init was never called (tests, one-shot commands).
func Get() *slog.Logger {
	mu.RLock()
	l := root
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init("info", "console", os.Stdout)
	mu.RLock()
	defer mu.RUnlock()
	return root
}

func WithComponent(component string) *slog.Logger {
	return Get().With("component", component)
}
