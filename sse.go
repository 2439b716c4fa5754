package portfolio

import (
	"bufio"
	"io"
	"strings"
)

// sseReader pulls the data payloads out of a text/event-stream body.
// Comment lines, event names, and blank separators are skipped.
type sseReader struct {
	scanner *bufio.Scanner
}

func newSSEReader(r io.Reader) *sseReader {
	sc := bufio.NewScanner(r)
	// Upstream events can carry several KB of text per chunk.
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &sseReader{scanner: sc}
}

// next returns the next non-empty data payload, or io.EOF at end of stream.
func (r *sseReader) next() (string, error) {
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" || payload == "[DONE]" {
			continue
		}
		return payload, nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
