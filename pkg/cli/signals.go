package cli

import (
	"os"
	"os/signal"
	"syscall"
)

// ShutdownSignals returns a channel that delivers SIGINT and SIGTERM.
// The run loop selects on it alongside its input sources; the channel is
// buffered so a signal arriving before the loop is entered is not lost.
func ShutdownSignals() <-chan os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	return ch
}
