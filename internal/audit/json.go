package audit

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"roomrank/internal/rank"

	"gopkg.in/natefinch/lumberjack.v2"
)

// TimeFormat is the layout of the "time" field of audit records.
const TimeFormat = "2006-01-02 15:04:05"

// jsonLineHandler is a slog handler writing one flat JSON object per record:
// the record time plus its attributes at the top level. Level and message are
// omitted since every record is an audit entry.
type jsonLineHandler struct {
	out   io.Writer
	attrs []slog.Attr
	mu    *sync.Mutex
}

// newJSONLineHandler creates a handler writing JSON lines to out.
func newJSONLineHandler(out io.Writer) *jsonLineHandler {
	return &jsonLineHandler{out: out, mu: &sync.Mutex{}}
}

// Handle serializes the record as a single JSON line.
func (h *jsonLineHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make(map[string]any, r.NumAttrs()+len(h.attrs)+1)
	fields["time"] = r.Time.Format(TimeFormat)

	add := func(a slog.Attr) bool {
		if a.Key != "" && a.Value.Any() != nil {
			fields[a.Key] = a.Value.Any()
		}
		return true
	}
	for _, a := range h.attrs {
		add(a)
	}
	r.Attrs(add)

	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.out.Write(append(data, '\n'))
	return err
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *jsonLineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &jsonLineHandler{out: h.out, attrs: merged, mu: h.mu}
}

// WithGroup is a no-op: audit records are flat.
func (h *jsonLineHandler) WithGroup(string) slog.Handler {
	return h
}

// Enabled always returns true.
func (h *jsonLineHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

// JsonRepository appends every ranking to a JSONL file rotated and compressed
// by lumberjack.
type JsonRepository struct {
	lumberjack *lumberjack.Logger
	logger     *slog.Logger
}

// NewJsonRepository creates an audit trail at file.
// maxSize is the file size in MB before rotation, maxBackups the number of
// rotated files kept.
func NewJsonRepository(file string, maxSize, maxBackups int) *JsonRepository {
	lj := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		Compress:   true,
	}
	return &JsonRepository{
		lumberjack: lj,
		logger:     slog.New(newJSONLineHandler(lj)),
	}
}

// Append records the ranking produced for client.
func (r *JsonRepository) Append(client string, ranking rank.Ranking) {
	r.logger.Info("",
		"client", client,
		"ranking", ranking,
	)
}

// Close flushes and closes the current file.
func (r *JsonRepository) Close() error {
	return r.lumberjack.Close()
}
