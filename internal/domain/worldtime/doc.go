// Package worldtime turns a system instant into a zone's wall clock and
// classifies the hour into a time-of-day period.
//
// Everything here is pure: callers pass the system time in, nothing reads the
// wall clock.
package worldtime
