// Brainbot is a personal capture and query bot.
//
// Plain messages are filed as markdown notes into a vault inbox; query
// commands are answered by an LLM provider over a pre-aggregated
// knowledge context, gated by a per-user cooldown, a daily spending
// budget, and a TTL result cache.
//
// Usage:
//
//	# Start the bot with default configuration
//	brainbot run
//
//	# Start with a custom configuration file
//	brainbot run --config /path/to/config.yaml
//
//	# Validate a configuration file
//	brainbot validate --config /path/to/config.yaml
//
//	# Show version information
//	brainbot version
package main

func main() {
	Execute()
}
