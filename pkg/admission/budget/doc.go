// Package budget implements the per-user daily spending ledger used by the
// admission controller.
//
// Each user has one row holding the calendar day and the spend recorded on
// that day. Rollover is lazy: the first operation observing a stale day
// resets the row. Checks gate on spend already recorded and never estimate
// the upcoming query's cost, so the recorded total can exceed the cap by
// at most one admitted query.
package budget
