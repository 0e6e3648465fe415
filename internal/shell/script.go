package shell

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ScriptReader feeds a shell from a script instead of a terminal. Prompts read
// their replies from the lines that follow the command. Lines starting with #
// are comments.
type ScriptReader struct {
	mu      sync.Mutex
	scanner *bufio.Scanner
}

// NewScriptReader reads lines from r.
func NewScriptReader(r io.Reader) *ScriptReader {
	return &ScriptReader{scanner: bufio.NewScanner(r)}
}

// ReadLineErr returns the next non-comment line, or io.EOF at the end.
func (s *ScriptReader) ReadLineErr() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.scanner.Scan() {
		line := s.scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		return line, nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// WriterPrinter prints lines to W.
type WriterPrinter struct {
	W io.Writer
}

// Println writes val followed by a newline.
func (p WriterPrinter) Println(val ...interface{}) {
	fmt.Fprintln(p.W, val...)
}
