package cli

// This file contains the confirmation gate that blocks a sweep before
// dispatch. It is a boundary capability injected into the App so the
// scheduler path can be exercised without terminal I/O.

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Confirmer gates the start of a sweep.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// TerminalConfirmer prompts and reads one line from its input. An empty
// answer counts as yes, matching the [Y/n] convention.
type TerminalConfirmer struct {
	In  io.Reader
	Out io.Writer
}

func (t *TerminalConfirmer) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(t.Out, "%s [Y/n]: ", prompt)

	line, err := bufio.NewReader(t.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return true, nil
	}
	return false, nil
}

// AutoConfirmer approves without prompting, backing the --yes flag.
type AutoConfirmer struct{}

func (AutoConfirmer) Confirm(string) (bool, error) {
	return true, nil
}
