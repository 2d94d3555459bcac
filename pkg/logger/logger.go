package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	log = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

// Init configures the global logger for the given environment.
// Development gets a console writer at debug level, everything else JSON at info.
func Init(env string) {
	mu.Lock()
	defer mu.Unlock()

	if env == "development" || env == "" {
		w := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime}
		log = zerolog.New(w).Level(zerolog.DebugLevel).With().Timestamp().Logger()
		return
	}

	log = zerolog.New(os.Stdout).Level(zerolog.InfoLevel).With().Timestamp().Str("env", env).Logger()
}

// SetOutput redirects JSON output, mainly for tests.
func SetOutput(w io.Writer, level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	log = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func current() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := log
	return &l
}

func Debug(msg string, args ...any) { emit(current().Debug(), msg, args) }

func Info(msg string, args ...any) { emit(current().Info(), msg, args) }

func Warn(msg string, args ...any) { emit(current().Warn(), msg, args) }

func Error(msg string, args ...any) { emit(current().Error(), msg, args) }

// Fatal logs and exits the process with status 1.
func Fatal(msg string, args ...any) { emit(current().Fatal(), msg, args) }

// emit attaches key/value pairs to the event. A bare error becomes the
// "error" field; a dangling key is kept under "extra".
func emit(e *zerolog.Event, msg string, args []any) {
	if e == nil {
		return
	}
	for i := 0; i < len(args); {
		switch v := args[i].(type) {
		case error:
			e = e.Err(v)
			i++
		case string:
			if i+1 < len(args) {
				if err, ok := args[i+1].(error); ok {
					e = e.AnErr(v, err)
				} else {
					e = e.Interface(v, args[i+1])
				}
				i += 2
				continue
			}
			e = e.Str("extra", v)
			i++
		default:
			e = e.Interface(fmt.Sprintf("arg%d", i), v)
			i++
		}
	}
	e.Msg(msg)
}
