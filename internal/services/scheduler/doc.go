// Package scheduler runs the daily mailing jobs.
//
// Each job is registered with a wall-clock time of day ("HH:MM") and fires
// once per day in the configured timezone. Missed firings are not caught up:
// if the process was down at the scheduled minute, that day's job simply does
// not run. An optional end date silences every schedule once it has passed.
//
// Jobs run on a small worker pool. A job still running when its next firing
// arrives is skipped for that firing.
package scheduler
