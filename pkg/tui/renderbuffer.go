// ABOUTME: Pooled line buffer for TUI rendering; recycled via sync.Pool
// ABOUTME: Components write lines here; the engine diffs them against the previous frame

package tui

import "sync"

var bufferPool = sync.Pool{
	New: func() any {
		return &RenderBuffer{Lines: make([]string, 0, 64)}
	},
}

// AcquireBuffer gets a cleared RenderBuffer from the pool.
func AcquireBuffer() *RenderBuffer {
	buf := bufferPool.Get().(*RenderBuffer)
	buf.Lines = buf.Lines[:0]
	return buf
}

// ReleaseBuffer returns a RenderBuffer to the pool.
func ReleaseBuffer(buf *RenderBuffer) {
	if buf == nil {
		return
	}
	buf.Lines = buf.Lines[:0]
	bufferPool.Put(buf)
}

// RenderBuffer is a line buffer that components write into.
type RenderBuffer struct {
	Lines []string
}

// WriteLine appends a single line.
func (b *RenderBuffer) WriteLine(line string) {
	b.Lines = append(b.Lines, line)
}

// WriteLines appends multiple lines.
func (b *RenderBuffer) WriteLines(lines []string) {
	b.Lines = append(b.Lines, lines...)
}

// Len returns the number of buffered lines.
func (b *RenderBuffer) Len() int {
	return len(b.Lines)
}
