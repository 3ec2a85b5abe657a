// Package ratelimit implements the per-user cooldown limiter used by the
// admission controller.
//
// The limiter admits a query iff the configured cooldown has elapsed since
// the user's last admitted query. Rejections report the whole seconds
// remaining (rounded up) and never mutate state, so a burst of rejected
// attempts does not delay the next admission.
package ratelimit
