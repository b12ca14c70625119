package utils

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// DeferredWriter holds writes in memory until Flush is called. Once Limit
// bytes are held, further writes are counted and discarded. Safe for
// concurrent use.
type DeferredWriter struct {
	// Limit caps the held bytes. Zero means no limit.
	Limit int

	mu      sync.Mutex
	buf     bytes.Buffer
	dropped int
}

// Write stores p, or counts it as dropped when it would pass Limit.
func (d *DeferredWriter) Write(p []byte) (n int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.Limit > 0 && d.buf.Len()+len(p) > d.Limit {
		d.dropped += len(p)
		return len(p), nil
	}
	return d.buf.Write(p)
}

// Len returns the number of bytes held.
func (d *DeferredWriter) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.Len()
}

// Flush writes the held data to w, followed by a note when writes were
// dropped, and resets the writer.
func (d *DeferredWriter) Flush(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	dropped := d.dropped
	d.dropped = 0

	if d.buf.Len() > 0 {
		if _, err := d.buf.WriteTo(w); err != nil {
			return err
		}
	}
	if dropped > 0 {
		_, err := fmt.Fprintf(w, "... %d bytes of held output dropped\n", dropped)
		return err
	}
	return nil
}
