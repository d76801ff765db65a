package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

var levelNames = [...]string{Debug: "debug", Info: "info", Warn: "warn", Error: "error"}

// ParseLevel acepta LOG_LEVEL; cualquier valor desconocido es info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug
	case "warn", "warning":
		return Warn
	case "error":
		return Error
	default:
		return Info
	}
}

func (l Level) String() string {
	if l < Debug || l > Error {
		return "info"
	}
	return levelNames[l]
}

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return FormatJSON
	}
	return FormatText
}

// Logger es lo que reciben los servicios. Los campos van como mapa para
// que cada dominio agregue los suyos (event_id, component, actor...).
type Logger interface {
	With(fields map[string]any) Logger

	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

type Options struct {
	Level  Level
	Format Format
	App    string

	// Fields se agregan a todas las líneas (p. ej. storage, env).
	Fields map[string]any

	// Output por defecto os.Stdout.
	Output io.Writer
	// Clock por defecto time.Now.
	Clock func() time.Time
}

// StdLogger escribe una línea por entrada: key=value ordenado o JSON.
type StdLogger struct {
	out    *lockedWriter
	level  Level
	format Format
	clock  func() time.Time
	base   map[string]any
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) writeLine(b []byte) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	_, _ = lw.w.Write(append(b, '\n'))
}

func New(opts Options) Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	format := opts.Format
	if format != FormatJSON {
		format = FormatText
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	base := merge(nil, opts.Fields)
	if app := strings.TrimSpace(opts.App); app != "" {
		base["app"] = app
	}

	return &StdLogger{
		out:    &lockedWriter{w: out},
		level:  opts.Level,
		format: format,
		clock:  clock,
		base:   base,
	}
}

// Nop descarta todo; útil en tests.
func Nop() Logger {
	return New(Options{Level: Error + 1, Output: io.Discard})
}

// With devuelve un logger hijo que comparte salida, nivel y formato.
func (l *StdLogger) With(fields map[string]any) Logger {
	if len(fields) == 0 {
		return l
	}
	child := *l
	child.base = merge(l.base, fields)
	return &child
}

func (l *StdLogger) Debug(msg string, fields map[string]any) { l.write(Debug, msg, fields) }
func (l *StdLogger) Info(msg string, fields map[string]any)  { l.write(Info, msg, fields) }
func (l *StdLogger) Warn(msg string, fields map[string]any)  { l.write(Warn, msg, fields) }
func (l *StdLogger) Error(msg string, fields map[string]any) { l.write(Error, msg, fields) }

func (l *StdLogger) write(lvl Level, msg string, fields map[string]any) {
	if lvl < l.level {
		return
	}

	entry := merge(l.base, fields)
	entry["ts"] = l.clock().UTC().Format(time.RFC3339Nano)
	entry["level"] = lvl.String()
	entry["msg"] = msg

	if l.format == FormatJSON {
		b, err := json.Marshal(entry)
		if err != nil {
			b = []byte(fmt.Sprintf(`{"level":"error","msg":"log encode failed","error":%q}`, err.Error()))
		}
		l.out.writeLine(b)
		return
	}
	l.out.writeLine([]byte(formatText(entry)))
}

// merge copia base y luego fields; claves vacías se ignoran y los error
// se guardan como texto para que JSON no los deje en {}.
func merge(base, fields map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(fields)+3)
	for k, v := range base {
		out[k] = v
	}
	for k, v := range fields {
		if strings.TrimSpace(k) == "" {
			continue
		}
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		out[k] = v
	}
	return out
}

// formatText: ts level msg primero y el resto ordenado; los valores con
// espacios o comillas van entre comillas.
func formatText(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		switch k {
		case "ts", "level", "msg":
		default:
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	keys = append([]string{"ts", "level", "msg"}, keys...)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(textValue(m[k]))
	}
	return sb.String()
}

func textValue(v any) string {
	s := fmt.Sprintf("%v", v)
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
