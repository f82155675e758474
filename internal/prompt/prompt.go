// Package prompt reads a passphrase either from an explicit flag value or,
// when standard input is a terminal, by prompting with echo disabled via
// golang.org/x/term — the x/term sibling of golang.org/x/crypto, used the
// same way the CLI examples in the pack read TTY input.
package prompt

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// ErrRequired is returned when no passphrase flag was given and stdin is
// not a terminal to prompt on (it is instead carrying piped input data).
var ErrRequired = errors.New("prompt: passphrase required (stdin is not a terminal)")

// Passphrase returns flagValue verbatim if non-empty. Otherwise, if stdin
// is a terminal, it prompts on stderr with echo disabled and reads one
// line from stdin. If stdin is not a terminal (piped data), it fails with
// ErrRequired rather than guessing.
func Passphrase(flagValue string) ([]byte, error) {
	if flagValue != "" {
		return []byte(flagValue), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrRequired
	}

	fmt.Fprint(os.Stderr, "Passphrase: ")
	pass, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("prompt: %w", err)
	}
	return pass, nil
}
