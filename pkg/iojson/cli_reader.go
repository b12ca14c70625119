package iojson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// ErrNoInput is returned when no file is given and stdin is a terminal.
var ErrNoInput = errors.New("no input provided (stdin is a terminal); use -f flag or pipe input")

// FileReader reads a T from the file named by its --file flag, or from
// piped stdin when the flag is unset.
type FileReader[T any] struct {
	// Decode parses the input. It defaults to a single JSON document.
	Decode func(io.Reader) (T, error)
	// Stdin replaces os.Stdin.
	Stdin *os.File

	fileFlagValue string
}

func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to input file (reads from stdin if not provided)",
		TakesFile:   true,
		Destination: &fr.fileFlagValue,
	}
}

// SetPath sets the file to read, as if passed with --file.
func (fr *FileReader[T]) SetPath(path string) {
	fr.fileFlagValue = path
}

// Open returns the input stream. The caller closes it.
func (fr *FileReader[T]) Open() (io.ReadCloser, error) {
	if fr.fileFlagValue != "" {
		f, err := os.Open(fr.fileFlagValue)
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}
		return f, nil
	}

	stdin := fr.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	if term.IsTerminal(int(stdin.Fd())) {
		return nil, ErrNoInput
	}
	return io.NopCloser(stdin), nil
}

func (fr *FileReader[T]) Read() (T, error) {
	var input T

	r, err := fr.Open()
	if err != nil {
		return input, err
	}
	defer func() { _ = r.Close() }()

	if fr.Decode != nil {
		return fr.Decode(r)
	}

	if err := json.NewDecoder(r).Decode(&input); err != nil {
		return input, fmt.Errorf("decode JSON: %w", err)
	}
	return input, nil
}
