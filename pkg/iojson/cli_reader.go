package iojson

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// TextReader reads a document from a --file flag or from piped stdin.
type TextReader struct {
	fileFlagValue string
	stdin         io.Reader
	isTerminal    func() bool
}

func (tr *TextReader) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to a text file (reads from stdin if not provided)",
		Destination: &tr.fileFlagValue,
	}
}

// Name returns the file path, or "-" for stdin.
func (tr *TextReader) Name() string {
	if tr.fileFlagValue != "" {
		return tr.fileFlagValue
	}
	return "-"
}

func (tr *TextReader) Read() (string, error) {
	if tr.fileFlagValue != "" {
		data, err := os.ReadFile(tr.fileFlagValue)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		return string(data), nil
	}

	stdin, isTerminal := tr.stdin, tr.isTerminal
	if stdin == nil {
		stdin = os.Stdin
	}
	if isTerminal == nil {
		isTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	}

	if isTerminal() {
		return "", fmt.Errorf("no input provided (stdin is a terminal); pass files, use -f or pipe text")
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
