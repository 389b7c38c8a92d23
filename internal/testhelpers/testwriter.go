package testhelpers

import (
	"io"
	"strings"
	"testing"
)

// Writer is an io.Writer that forwards output to t.Log so that log lines are
// shown only for failing tests.
type Writer struct {
	t    *testing.T
	done chan struct{}
}

// NewWriter creates a Writer bound to the lifetime of t. Writes after the
// test has finished panic, which surfaces goroutines that outlive their test.
func NewWriter(t *testing.T) io.Writer {
	w := &Writer{
		t:    t,
		done: make(chan struct{}),
	}
	t.Cleanup(func() {
		close(w.done)
	})
	return w
}

func (w *Writer) Write(p []byte) (int, error) {
	select {
	case <-w.done:
		panic("testhelpers: write after test completion; shut down background goroutines in t.Cleanup")
	default:
		if out := strings.TrimSuffix(string(p), "\n"); out != "" {
			w.t.Log(out)
		}
		return len(p), nil
	}
}
