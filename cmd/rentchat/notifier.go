package main

import (
	"fmt"
	"io"
	"rentchat/domain"
	"sync"

	"github.com/gookit/color"
)

// consoleNotifier prints transient feedback, the terminal version of a toast.
type consoleNotifier struct {
	mu    sync.Mutex
	out   io.Writer
	theme domain.Theme
}

func newConsoleNotifier(out io.Writer) *consoleNotifier {
	return &consoleNotifier{out: out, theme: domain.NewTheme(false)}
}

func (n *consoleNotifier) setTheme(theme domain.Theme) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.theme = theme
}

func (n *consoleNotifier) Info(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.out, color.HEX(n.theme.Palette.Primary).Sprint("✔ "+message))
}

func (n *consoleNotifier) Error(message string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err != nil {
		message = fmt.Sprintf("%s: %v", message, err)
	}
	fmt.Fprintln(n.out, color.Red.Sprint("✖ "+message))
}
