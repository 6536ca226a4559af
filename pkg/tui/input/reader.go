// ABOUTME: Reader turns raw terminal input into parsed key events for the command prompt
// ABOUTME: Buffers partial escape sequences and resolves a lone ESC after a short timeout

package input

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"
	"unicode/utf8"

	"github.com/mauromedda/pi-overlay-go/pkg/tui/key"
)

const (
	readBufSize = 256
	escTimeout  = 50 * time.Millisecond
	maxSeqLen   = 8
)

// Reader reads from r and calls onKey for each parsed key, in order.
type Reader struct {
	r       io.Reader
	onKey   func(key.Key)
	pending []byte
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader, onKey func(key.Key)) *Reader {
	return &Reader{r: r, onKey: onKey}
}

// Run dispatches keys until r is exhausted or ctx is done. EOF is not an
// error. The underlying Read runs on its own goroutine; it exits once r
// returns.
func (rd *Reader) Run(ctx context.Context) error {
	chunks := make(chan []byte)
	errc := make(chan error, 1)

	go func() {
		defer close(chunks)
		buf := make([]byte, readBufSize)
		for {
			n, err := rd.r.Read(buf)
			if n > 0 {
				select {
				case chunks <- bytes.Clone(buf[:n]):
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				errc <- err
				return
			}
		}
	}()

	var escTimer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case data, ok := <-chunks:
			if !ok {
				rd.drain(true)
				select {
				case err := <-errc:
					if !errors.Is(err, io.EOF) {
						return err
					}
				default:
				}
				return nil
			}
			rd.pending = append(rd.pending, data...)
			escTimer = nil
			if rd.drain(false) {
				escTimer = time.After(escTimeout)
			}
		case <-escTimer:
			escTimer = nil
			rd.drain(true)
		}
	}
}

// drain dispatches every complete key in pending. With final set, partial
// sequences are flushed as best-effort keys. Reports whether bytes remain.
func (rd *Reader) drain(final bool) bool {
	for len(rd.pending) > 0 {
		k, n := rd.next(final)
		if n == 0 {
			return true
		}
		rd.pending = rd.pending[n:]
		rd.onKey(k)
	}
	return false
}

// next parses one key from the front of pending. n == 0 means more input
// is needed.
func (rd *Reader) next(final bool) (key.Key, int) {
	buf := rd.pending
	if buf[0] == 0x1b {
		if !final && key.IsPrefix(string(buf)) {
			return key.Key{}, 0
		}
		for end := min(len(buf), maxSeqLen); end >= 2; end-- {
			if k := key.ParseKey(string(buf[:end])); k.Type != key.KeyUnknown {
				return k, end
			}
		}
		return key.Key{Type: key.KeyEscape}, 1
	}

	if !utf8.FullRune(buf) {
		if !final {
			return key.Key{}, 0
		}
		return key.Key{Type: key.KeyUnknown}, 1
	}
	_, size := utf8.DecodeRune(buf)
	return key.ParseKey(string(buf[:size])), size
}
