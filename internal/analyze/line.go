package analyze

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
)

// binarySniffLen is how much of the input is inspected for NUL bytes.
const binarySniffLen = 8 << 10

// Line is one line of input. Text excludes the line ending.
type Line struct {
	Number int    // 1-based
	Text   string // without Ending
	Ending string // "\n", "\r\n" or "" for an unterminated last line
}

// String returns the line as it appears in the file.
func (l Line) String() string {
	return l.Text + l.Ending
}

// IsBinary reports whether data looks like binary content.
func IsBinary(data []byte) bool {
	if len(data) > binarySniffLen {
		data = data[:binarySniffLen]
	}
	return bytes.IndexByte(data, 0) >= 0
}

// ReadLines splits r into lines, keeping each line's ending.
func ReadLines(r io.Reader) ([]Line, error) {
	br := bufio.NewReader(r)
	var lines []Line
	for n := 1; ; n++ {
		s, err := br.ReadString('\n')
		if s != "" {
			lines = append(lines, splitLine(n, s))
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func splitLine(n int, s string) Line {
	switch {
	case strings.HasSuffix(s, "\r\n"):
		return Line{Number: n, Text: s[:len(s)-2], Ending: "\r\n"}
	case strings.HasSuffix(s, "\n"):
		return Line{Number: n, Text: s[:len(s)-1], Ending: "\n"}
	default:
		return Line{Number: n, Text: s}
	}
}

// Join reassembles lines into file content.
func Join(lines []Line) []byte {
	var b bytes.Buffer
	for _, l := range lines {
		b.WriteString(l.Text)
		b.WriteString(l.Ending)
	}
	return b.Bytes()
}
