/*
Package cli carries the small shared pieces of the brainbot command:
typed errors that name the failing subcommand or config field, and the
shutdown signal channel the run loop selects on.

	sigCh := cli.ShutdownSignals()
	select {
	case <-sigCh:
		// drain and exit
	case line := <-input:
		// handle
	}
*/
package cli
