// Package prompt asks the user yes/no questions on the terminal.
package prompt

import (
	stderrors "errors"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/glorpus-work/pack/pkg/errors"
	"github.com/mattn/go-isatty"
)

// Interactive reports whether stdin is a terminal and the process does not
// run under CI.
func Interactive() bool {
	if isTruthy(os.Getenv("CI")) {
		return false
	}
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func isTruthy(v string) bool {
	return v != "" && v != "false" && v != "0"
}

// Terminal confirms through an interactive huh form. The zero value draws
// on the real terminal.
type Terminal struct {
	// Run displays the form; tests replace it.
	Run func(*huh.Confirm) error
}

// Confirm asks title and returns the answer. Without a terminal nothing can
// be asked and the action is cancelled.
func (t *Terminal) Confirm(title string) (bool, error) {
	if t.Run == nil {
		if !Interactive() {
			return false, errors.Wrapf(errors.ErrCancelled, "confirmation needed but no terminal is attached (use --yes)")
		}
		t.Run = func(c *huh.Confirm) error { return c.Run() }
	}

	var confirmed bool
	err := t.Run(huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed))
	if stderrors.Is(err, huh.ErrUserAborted) {
		return false, errors.ErrCancelled
	}
	return confirmed, err
}
