package tapert

import (
	"bufio"
	"io"
	"strings"
)

// LineReader is a source of input lines. Prompt writes prompt, if the
// source is interactive, and returns the next line without its line ending.
// *liner.State is a LineReader.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

// History records completed inputs. *liner.State is a History.
type History interface {
	AppendHistory(item string)
}

// PlainLines is a LineReader over a plain reader. Lines may be any length.
type PlainLines struct {
	r *bufio.Reader
	w io.Writer
}

// NewLineReader creates a LineReader which reads lines from r and writes
// prompts to w. If w is nil, prompts are discarded.
func NewLineReader(r io.Reader, w io.Writer) *PlainLines {
	if w == nil {
		w = io.Discard
	}
	return &PlainLines{r: bufio.NewReader(r), w: w}
}

// Prompt writes prompt and reads a line, dropping a trailing \n or \r\n. A
// final line without a line ending is returned as is. At the end of input,
// the error is io.EOF.
func (s *PlainLines) Prompt(prompt string) (string, error) {
	if _, err := io.WriteString(s.w, prompt); err != nil {
		return "", err
	}
	line, err := s.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}
