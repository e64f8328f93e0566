// Package prompt asks the user how to resolve write conflicts.
package prompt

import (
	"fmt"
	"os"

	"github.com/Serenacula/templative/pkg/copier"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// SelectFunc shows options under a question and returns the chosen label
type SelectFunc func(question string, options []string) (string, error)

// Console resolves conflicts with an interactive select on the terminal
type Console struct {
	selectFn SelectFunc
}

// NewConsole creates a Console backed by pterm's interactive select
func NewConsole() *Console {
	return &Console{selectFn: ptermSelect}
}

// NewConsoleWithSelect creates a Console with a custom select, used by tests
func NewConsoleWithSelect(fn SelectFunc) *Console {
	return &Console{selectFn: fn}
}

func ptermSelect(question string, options []string) (string, error) {
	return pterm.DefaultInteractiveSelect.
		WithOptions(options).
		WithDefaultOption(options[0]).
		WithDefaultText(question).
		Show()
}

// Question is the text shown above the choices
func Question(c copier.Conflict) string {
	return fmt.Sprintf("%s already exists (%s, template has a %s)", c.Rel, c.Existing, c.Incoming)
}

// Choose implements copier.Prompter
func (p *Console) Choose(c copier.Conflict) (copier.Choice, error) {
	choices := copier.Choices()
	labels := make([]string, len(choices))
	for i, choice := range choices {
		labels[i] = choice.String()
	}

	answer, err := p.selectFn(Question(c), labels)
	if err != nil {
		return copier.ChoiceAbort, err
	}
	for _, choice := range choices {
		if choice.String() == answer {
			return choice, nil
		}
	}
	return copier.ChoiceAbort, fmt.Errorf("unexpected answer %q", answer)
}

// IsInteractive reports whether f is a terminal a prompt can read from
func IsInteractive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ForStdin returns a Console when stdin is a terminal and nil otherwise,
// so Ask mode fails cleanly in scripts instead of hanging
func ForStdin() copier.Prompter {
	if !IsInteractive(os.Stdin) {
		return nil
	}
	return NewConsole()
}
