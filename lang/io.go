package lang

import (
	"bufio"
	"io"
	"strings"
)

// Input supplies lines to the read built-in. ReadLine returns [io.EOF]
// when no further line is available.
type Input interface {
	ReadLine() (string, error)
}

// Prompter is an [Input] that displays the prompt of read itself, as line
// editors do. When the runtime input implements it, the prompt is passed
// here instead of being written to the output.
type Prompter interface {
	Input
	Prompt(prompt string) (string, error)
}

// LineReader is an [Input] over a byte stream. Line terminators are
// stripped; a final line without a terminator is still returned.
type LineReader struct {
	r *bufio.Reader
}

// NewLineReader returns a LineReader reading from r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReader(r)}
}

func (lr *LineReader) ReadLine() (string, error) {
	line, err := lr.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// LineQueue is an [Input] fed programmatically.
type LineQueue struct {
	lines []string
}

// Push appends lines to the queue.
func (q *LineQueue) Push(lines ...string) { q.lines = append(q.lines, lines...) }

// Len returns the number of queued lines.
func (q *LineQueue) Len() int { return len(q.lines) }

func (q *LineQueue) ReadLine() (string, error) {
	if len(q.lines) == 0 {
		return "", io.EOF
	}

	line := q.lines[0]
	q.lines = q.lines[1:]

	return line, nil
}
