package output

import (
	"fmt"
	"io"
)

// WriterNotifier prints workflow notifications.
// Errors always go to ErrOut as "error: <message>". Successes go to Out
// unless Quiet is set; with a structured Format they go to ErrOut so that
// Out carries only the rendered data.
type WriterNotifier struct {
	Out    io.Writer
	ErrOut io.Writer
	Quiet  bool
	Format Format
}

// Success implements workflow.Notifier.
func (n *WriterNotifier) Success(message string) {
	if n.Quiet {
		return
	}
	w := n.Out
	if n.Format != Text && n.Format != "" {
		w = n.ErrOut
	}
	fmt.Fprintln(w, message)
}

// Error implements workflow.Notifier.
func (n *WriterNotifier) Error(message string) {
	fmt.Fprintf(n.ErrOut, "error: %s\n", message)
}
