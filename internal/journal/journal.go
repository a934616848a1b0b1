// Package journal records flushed ticks as zstd-compressed JSON lines.
package journal

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/samber/oops"

	"goom-server/internal/protocol"
)

// Entry is one journaled tick.
type Entry struct {
	Tick    uint64            `json:"tick"`
	Elapsed float64           `json:"elapsed"`
	Events  []json.RawMessage `json:"events"`
}

// Writer appends entries to a compressed file.
type Writer struct {
	mu   sync.Mutex
	f    *os.File
	enc  *zstd.Encoder
	path string
}

// Create opens a new journal file at path, truncating any existing one.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		f.Close()
		return nil, oops.With("path", path).Wrap(err)
	}
	return &Writer{f: f, enc: enc, path: path}, nil
}

// CreateInDir creates a journal named after t inside dir.
func CreateInDir(dir string, t time.Time) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, oops.With("dir", dir).Wrap(err)
	}
	name := "ticks-" + t.UTC().Format("20060102T150405") + ".jsonl.zst"
	return Create(filepath.Join(dir, name))
}

// Path returns the file being written.
func (w *Writer) Path() string { return w.path }

// Record appends one tick.
func (w *Writer) Record(tick uint64, elapsed float64, events []protocol.Outgoing) error {
	e := Entry{Tick: tick, Elapsed: elapsed, Events: make([]json.RawMessage, 0, len(events))}
	for _, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			return oops.With("tick", tick).With("type", ev.EventType()).Wrap(err)
		}
		e.Events = append(e.Events, data)
	}
	line, err := json.Marshal(e)
	if err != nil {
		return oops.With("tick", tick).Wrap(err)
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.enc.Write(line); err != nil {
		return oops.With("tick", tick).With("path", w.path).Wrap(err)
	}
	return nil
}

// Close flushes the compressor and closes the file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enc.Close(); err != nil {
		w.f.Close()
		return oops.With("path", w.path).Wrap(err)
	}
	return w.f.Close()
}

// Read decodes every entry of a journal file.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	defer dec.Close()

	var entries []Entry
	jd := json.NewDecoder(dec)
	for {
		var e Entry
		if err := jd.Decode(&e); err != nil {
			if err == io.EOF {
				break
			}
			return entries, oops.With("path", path).With("entry", len(entries)).Wrap(err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
