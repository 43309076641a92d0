package runctx

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/apptemplate/apptemplate/internal/output"
)

// Prompt is a question asked interactively.
type Prompt struct {
	Key      string `yaml:"key" json:"key"`
	Question string `yaml:"question" json:"question"`
	Default  string `yaml:"default,omitempty" json:"default,omitempty"`
	Secret   bool   `yaml:"secret,omitempty" json:"secret,omitempty"`
}

// Prompter asks questions on a terminal.
type Prompter struct {
	In  io.Reader
	Out io.Writer

	// Interactive is false when answers must come from defaults.
	Interactive bool

	// ReadSecret reads a line without echo. Nil reads a plain line.
	ReadSecret func() (string, error)

	reader *bufio.Reader
}

// NewTerminalPrompter creates a Prompter on stdin/stderr. It is
// interactive only when stdin is a terminal and noInput is false.
func NewTerminalPrompter(noInput bool) *Prompter {
	fd := int(os.Stdin.Fd())
	p := &Prompter{
		In:          os.Stdin,
		Out:         os.Stderr,
		Interactive: !noInput && term.IsTerminal(fd),
	}
	p.ReadSecret = func() (string, error) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(p.Out)
		return string(b), err
	}
	return p
}

// Ask returns the answer to q, or q.Default when the answer is blank or the
// prompter is not interactive.
func (p *Prompter) Ask(q Prompt) (string, error) {
	if p == nil || !p.Interactive {
		output.Debug("using prompt default", "key", q.Key)
		return q.Default, nil
	}

	question := output.StyleNoun(q.Question)
	if q.Default != "" && !q.Secret {
		question += fmt.Sprintf(" [%s]", q.Default)
	}
	fmt.Fprintf(p.Out, "%s: ", question)

	var answer string
	var err error
	if q.Secret && p.ReadSecret != nil {
		answer, err = p.ReadSecret()
	} else {
		answer, err = p.readLine()
	}
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading answer for %s: %w", q.Key, err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return q.Default, nil
	}
	return answer, nil
}

func (p *Prompter) readLine() (string, error) {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	return p.reader.ReadString('\n')
}
