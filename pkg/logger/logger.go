package logger

import (
	"log/slog"
	"os"
)

var base = slog.New(slog.NewTextHandler(os.Stdout, nil))

// Init configures the process logger. Production gets JSON at info level,
// everything else gets text at debug level.
func Init(environment string) {
	if environment == "production" {
		base = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
		return
	}
	base = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// kv normalizes loose call sites into key-value pairs: a bare error becomes
// "error", a trailing bare string becomes "detail".
func kv(args []any) []any {
	out := make([]any, 0, len(args)+2)
	for i := 0; i < len(args); i++ {
		switch v := args[i].(type) {
		case error:
			out = append(out, "error", v.Error())
		case string:
			if i+1 < len(args) {
				out = append(out, v, args[i+1])
				i++
			} else {
				out = append(out, "detail", v)
			}
		default:
			out = append(out, "value", v)
		}
	}
	return out
}

func Debug(msg string, args ...any) {
	base.Debug(msg, kv(args)...)
}

func Info(msg string, args ...any) {
	base.Info(msg, kv(args)...)
}

func Warn(msg string, args ...any) {
	base.Warn(msg, kv(args)...)
}

func Error(msg string, args ...any) {
	base.Error(msg, kv(args)...)
}

func Fatal(msg string, args ...any) {
	base.Error(msg, kv(args)...)
	os.Exit(1)
}
