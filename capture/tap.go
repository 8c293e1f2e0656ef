package capture

import "io"

// Tap reads from src and records every chunk it passes through.
// Recording is best-effort: a capture failure never disturbs the live
// read, and the Writer logs its own flush failures. Tap owns neither
// side; the caller closes the source and the Writer separately.
type Tap struct {
	src io.Reader
	w   *Writer
}

// NewTap wraps src so that everything read through it lands in w.
func NewTap(src io.Reader, w *Writer) *Tap {
	return &Tap{src: src, w: w}
}

func (t *Tap) Read(p []byte) (int, error) {
	n, err := t.src.Read(p)
	if n > 0 {
		_ = t.w.Record(p[:n])
	}
	return n, err
}
