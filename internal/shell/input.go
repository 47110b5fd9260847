package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
)

// LineReader reads one line of user input after showing a prompt.
// It returns io.EOF once the input is exhausted (Ctrl-D, closed pipe).
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// NewLineReader picks a line editor with history when both stdin and
// stdout are terminals, and a plain buffered reader otherwise.
func NewLineReader(in *os.File, out *os.File) LineReader {
	if isatty.IsTerminal(in.Fd()) && isatty.IsTerminal(out.Fd()) {
		return NewTerminalReader()
	}
	return NewStreamReader(in, out)
}

// terminalReader is backed by peterh/liner, the line editor the
// immuclient REPL uses.
type terminalReader struct {
	state *liner.State
}

func NewTerminalReader() LineReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &terminalReader{state: state}
}

// ReadLine maps Ctrl-C onto io.EOF so both keys end the session.
func (r *terminalReader) ReadLine(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		r.state.AppendHistory(line)
	}
	return line, nil
}

func (r *terminalReader) Close() error {
	return r.state.Close()
}

// streamReader reads newline-terminated lines from any io.Reader.
type streamReader struct {
	in  *bufio.Reader
	out io.Writer
}

// NewStreamReader returns a LineReader over in that echoes prompts to out.
func NewStreamReader(in io.Reader, out io.Writer) LineReader {
	return &streamReader{in: bufio.NewReader(in), out: out}
}

// ReadLine returns the next line without its line terminator. A final
// line without a trailing newline is still returned; the call after it
// gets io.EOF.
func (r *streamReader) ReadLine(prompt string) (string, error) {
	if _, err := fmt.Fprint(r.out, prompt); err != nil {
		return "", err
	}

	line, err := r.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (r *streamReader) Close() error {
	return nil
}
