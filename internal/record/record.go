// Package record persists one JSONL entry per simulation tick, zstd
// compressed, and reads them back for deterministic replay.
package record

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"skirmish/internal/sim/world"
)

// Writer appends tick records to a single run file. Safe for use from one
// goroutine; the mutex only guards Close racing a late WriteTick.
type Writer struct {
	path string

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// NewRunWriter creates dir if needed and opens a fresh, timestamped run file
// inside it.
func NewRunWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("run-%s.jsonl.zst", time.Now().UTC().Format("2006-01-02T15-04-05"))
	return NewWriter(filepath.Join(dir, name))
}

func NewWriter(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Writer{
		path: path,
		f:    f,
		enc:  enc,
		w:    bufio.NewWriterSize(enc, 128*1024),
	}, nil
}

func (w *Writer) Path() string { return w.path }

func (w *Writer) WriteTick(entry world.TickRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return fmt.Errorf("record: writer closed")
	}
	b, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return nil
	}
	_ = w.w.Flush()
	err := w.enc.Close()
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	w.w = nil
	w.enc = nil
	w.f = nil
	return err
}

// Reader streams tick records back out of a run file in write order.
type Reader struct {
	f   *os.File
	dec *zstd.Decoder
	sc  *bufio.Scanner
}

func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &Reader{f: f, dec: dec, sc: sc}, nil
}

// Next returns the next record, or ok=false at end of file.
func (r *Reader) Next() (entry world.TickRecord, ok bool, err error) {
	for r.sc.Scan() {
		line := r.sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := json.Unmarshal(line, &entry); err != nil {
			return world.TickRecord{}, false, fmt.Errorf("record: bad entry: %w", err)
		}
		return entry, true, nil
	}
	return world.TickRecord{}, false, r.sc.Err()
}

func (r *Reader) Close() error {
	r.dec.Close()
	return r.f.Close()
}
