package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// TerminalPrompter asks yes/no questions on a line-oriented terminal
type TerminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalPrompter creates a prompter reading answers from in
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: bufio.NewReader(in), out: out}
}

// createPrompter asks on stderr; stdout carries the report
func createPrompter() *TerminalPrompter {
	return NewTerminalPrompter(os.Stdin, os.Stderr)
}

// Confirm asks question until it gets a yes or no.
// An empty answer, or end of input, selects the default.
func (p *TerminalPrompter) Confirm(question string, defaultYes bool) (bool, error) {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}

	for {
		fmt.Fprintf(p.out, "%s %s ", question, hint)

		line, err := p.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("failed to read answer: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		case "":
			if err != nil {
				fmt.Fprintln(p.out)
			}
			return defaultYes, nil
		}

		if err != nil {
			fmt.Fprintln(p.out)
			return defaultYes, nil
		}
		fmt.Fprintln(p.out, "please answer y or n")
	}
}
