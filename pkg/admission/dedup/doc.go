// Package dedup suppresses repeat deliveries of the same inbound message.
// Chat transports redeliver on flaky connections; without this guard a
// redelivered capture would be filed twice.
package dedup
